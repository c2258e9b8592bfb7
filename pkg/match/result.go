// Package match is the bulk matching engine: for each requirement in a
// batch it runs hybrid (dense + sparse) queries against the two resume
// indices under a bounded concurrency model, merges and ranks the hits,
// and extracts matched-skill evidence.
package match

import (
	"github.com/crewmatchco/crewmatch/pkg/requirement"
)

// Status classifies the outcome of one requirement's search.
type Status string

const (
	// StatusOK means the requirement was matched successfully.
	StatusOK Status = "ok"

	// StatusFailed means the requirement's queries failed after retries.
	StatusFailed Status = "failed"

	// StatusTimeout means the batch deadline expired before this
	// requirement finished.
	StatusTimeout Status = "timeout"
)

// MatchResult is one ranked (requirement, candidate) pair.
type MatchResult struct {
	CandidateID   string  `json:"candidate_id"`
	CombinedScore float64 `json:"combined_score"`
	DenseScore    float64 `json:"dense_score"`
	SparseScore   float64 `json:"sparse_score"`

	// MatchedSkills is advisory evidence: candidate skills that appear in
	// the requirement's skill terms. Never part of the ranking score.
	MatchedSkills []string `json:"matched_skills"`

	// Enrichment from the profile store, when available.
	Name            string  `json:"name,omitempty"`
	CurrentRole     string  `json:"current_role,omitempty"`
	Location        string  `json:"location,omitempty"`
	ExperienceYears float64 `json:"experience_years,omitempty"`
}

// Entry is the per-requirement result. A failed requirement keeps its slot
// with an error status and no matches; it never aborts the batch.
type Entry struct {
	Requirement     requirement.Record `json:"requirement"`
	Status          Status             `json:"status"`
	Error           string             `json:"error,omitempty"`
	ExtractedSkills string             `json:"extracted_skills,omitempty"`
	Matches         []MatchResult      `json:"matches"`
}

// BatchResult is the terminal output of a matching run. Entries are in
// input order regardless of completion order.
type BatchResult struct {
	Entries   []Entry `json:"entries"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
}
