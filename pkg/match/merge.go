package match

import (
	"sort"
	"strings"

	"github.com/crewmatchco/crewmatch/pkg/embeddings/sparse"
	"github.com/crewmatchco/crewmatch/pkg/vector"
)

// MergeOptions fixes the merge parameters for one call. Weights must sum
// to 1; DefaultMergeOptions carries the operational defaults.
type MergeOptions struct {
	// TopK truncates the final ranked list.
	TopK int

	// DenseWeight and SparseWeight blend the normalized component scores.
	DenseWeight  float64
	SparseWeight float64
}

// DefaultDenseWeight and DefaultSparseWeight are the production blend.
const (
	DefaultDenseWeight  = 0.6
	DefaultSparseWeight = 0.4
)

// Merge combines ranked dense and sparse result lists into one ranked,
// deduplicated list. Scores are min-max normalized per list to [0,1]; a
// candidate absent from one list contributes 0 for that component. Ordering
// is total: combined desc, then dense desc, then candidate ID asc. The
// output is truncated to TopK.
func Merge(dense, sparse []vector.QueryResult, opts MergeOptions) []MatchResult {
	denseNorm := normalize(dense)
	sparseNorm := normalize(sparse)

	ids := make([]string, 0, len(denseNorm)+len(sparseNorm))
	for id := range denseNorm {
		ids = append(ids, id)
	}
	for id := range sparseNorm {
		if _, dup := denseNorm[id]; !dup {
			ids = append(ids, id)
		}
	}

	merged := make([]MatchResult, 0, len(ids))
	for _, id := range ids {
		d := denseNorm[id]
		s := sparseNorm[id]
		merged = append(merged, MatchResult{
			CandidateID:   id,
			DenseScore:    d,
			SparseScore:   s,
			CombinedScore: opts.DenseWeight*d + opts.SparseWeight*s,
		})
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].CombinedScore != merged[j].CombinedScore {
			return merged[i].CombinedScore > merged[j].CombinedScore
		}
		if merged[i].DenseScore != merged[j].DenseScore {
			return merged[i].DenseScore > merged[j].DenseScore
		}
		return merged[i].CandidateID < merged[j].CandidateID
	})

	if opts.TopK > 0 && len(merged) > opts.TopK {
		merged = merged[:opts.TopK]
	}

	return merged
}

// normalize min-max rescales one list's native scores to [0,1], keyed by
// candidate ID. When a list holds a single distinct score, it maps to 1.0:
// a sole hit is that index's best evidence. Duplicate IDs keep their best
// (first-ranked) score.
func normalize(results []vector.QueryResult) map[string]float64 {
	if len(results) == 0 {
		return map[string]float64{}
	}

	minScore := float64(results[0].Score)
	maxScore := float64(results[0].Score)
	for _, r := range results[1:] {
		s := float64(r.Score)
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}

	norm := make(map[string]float64, len(results))
	span := maxScore - minScore
	for _, r := range results {
		if _, seen := norm[r.ID]; seen {
			continue
		}
		if span == 0 {
			norm[r.ID] = 1.0
			continue
		}
		norm[r.ID] = (float64(r.Score) - minScore) / span
	}

	return norm
}

// MatchedSkills intersects a candidate's normalized skill set with the
// requirement's inferred skill terms (extracted skills, job title, summary).
// Both sides are tokenized the same way the sparse encoder tokenizes text,
// and a skill matches only as a whole token sequence: "java" never matches
// "javascript", while multi-word skills like "distributed systems" match
// their adjacent tokens.
func MatchedSkills(requirementTerms []string, candidateSkills []string) []string {
	haystack := sparse.Tokenize(strings.Join(requirementTerms, " "))

	var matched []string
	for _, skill := range candidateSkills {
		needle := sparse.Tokenize(skill)
		if len(needle) == 0 {
			continue
		}
		if containsTokens(haystack, needle) {
			matched = append(matched, skill)
		}
	}
	sort.Strings(matched)
	return matched
}

func containsTokens(haystack, needle []string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		j := 0
		for j < len(needle) && haystack[i+j] == needle[j] {
			j++
		}
		if j == len(needle) {
			return true
		}
	}
	return false
}
