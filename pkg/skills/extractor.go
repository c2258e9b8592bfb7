// Package skills extracts the essential skill terms from a job description.
// The extracted comma-separated list feeds the sparse query and the
// matched-skill evidence.
package skills

import (
	"context"
	"strings"
)

// Extractor turns a job description into a comma-separated skill list.
type Extractor interface {
	ExtractSkills(ctx context.Context, jobDescription string) (string, error)
}

// stopwords are common job-posting words that carry no skill signal,
// used by the keyword fallback extractor.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true,
	"have": true, "in": true, "is": true, "it": true, "of": true, "on": true,
	"or": true, "our": true, "should": true, "that": true, "the": true,
	"to": true, "we": true, "with": true, "years": true, "experience": true,
	"looking": true, "seeking": true, "required": true, "preferred": true,
	"knowledge": true, "strong": true, "good": true, "must": true,
	"will": true, "work": true, "team": true, "role": true, "plus": true,
	"need": true, "needed": true, "welcome": true, "position": true,
	"candidate": true, "candidates": true, "skills": true,
}

// KeywordExtractor is a deterministic offline extractor: it keeps the
// distinct non-stopword terms of the description in first-seen order.
// It backs tests and deployments without a Gemini key.
type KeywordExtractor struct{}

// NewKeywordExtractor creates the keyword fallback extractor.
func NewKeywordExtractor() *KeywordExtractor {
	return &KeywordExtractor{}
}

// ExtractSkills returns the distinct candidate skill terms of the
// description as a comma-separated list.
func (e *KeywordExtractor) ExtractSkills(_ context.Context, jobDescription string) (string, error) {
	fields := strings.FieldsFunc(strings.ToLower(jobDescription), func(r rune) bool {
		switch r {
		case '+', '#', '.', '-', '_':
			return false
		}
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	seen := make(map[string]bool, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		term := strings.Trim(f, "._-")
		if len(term) < 2 || stopwords[term] || seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}

	return strings.Join(terms, ", "), nil
}

// Ensure KeywordExtractor implements Extractor
var _ Extractor = (*KeywordExtractor)(nil)
