// Package requirement models job requirement batches: the canonical record,
// strict spreadsheet parsing, and the metadata filter derived from work
// location and role level.
package requirement

import (
	"strings"

	"github.com/crewmatchco/crewmatch/pkg/vector"
)

// Record is one job requirement, scoped to a single matching run.
type Record struct {
	// RequirementID is unique within a batch.
	RequirementID string `json:"requirement_id"`

	// JobTitle is the advertised title.
	JobTitle string `json:"job_title"`

	// RoleLevel is the seniority band (junior/mid/senior/...).
	RoleLevel string `json:"role_level"`

	// Industry is advisory metadata, not used for filtering.
	Industry string `json:"industry"`

	// WorkLocation is the required candidate location.
	WorkLocation string `json:"work_location"`

	// Summary is the free text the query vectors are derived from.
	Summary string `json:"summary"`
}

// Filter builds the index metadata filter for this requirement: an exact
// lower-cased location match plus an experience band from the role level.
// Unrecognized levels apply no experience clause.
func (r *Record) Filter() vector.Filter {
	f := vector.Filter{
		"location": {"$eq": strings.ToLower(strings.TrimSpace(r.WorkLocation))},
	}

	switch strings.ToLower(strings.TrimSpace(r.RoleLevel)) {
	case "junior", "entry":
		f["experience"] = map[string]any{"$lte": 2}
	case "mid", "middle", "intermediate":
		f["experience"] = map[string]any{"$gt": 2, "$lt": 5}
	case "senior", "sr":
		f["experience"] = map[string]any{"$gte": 5}
	}

	return f
}
