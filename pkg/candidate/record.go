// Package candidate normalizes raw resume and spreadsheet input into
// canonical candidate records ready for upsert.
package candidate

import (
	"regexp"
	"sort"
	"strings"
)

// IDPattern is the required employee ID format.
var IDPattern = regexp.MustCompile(`^EMP-\d{4}$`)

// Record is the canonical candidate record. Immutable after upsert except
// by re-upsert with the same ID.
type Record struct {
	// EmployeeID is the unique candidate identity (EMP-XXXX).
	EmployeeID string

	// Name is the candidate's display name.
	Name string

	// Location is the lower-cased work location.
	Location string

	// ExperienceYears is the candidate's total experience, non-negative.
	ExperienceYears float64

	// CurrentRole is the candidate's current job title.
	CurrentRole string

	// Skills is the normalized skill set: lower-cased, trimmed,
	// deduplicated, sorted.
	Skills []string

	// ProjectExperience is the free text extracted from the resume,
	// used to build the dense document.
	ProjectExperience string
}

// HasSkill reports whether the normalized skill set contains the term.
func (r *Record) HasSkill(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	for _, s := range r.Skills {
		if s == term {
			return true
		}
	}
	return false
}

// SkillsText returns the skill set as a comma-separated string, the form
// fed to the sparse encoder.
func (r *Record) SkillsText() string {
	return strings.Join(r.Skills, ", ")
}

// ParseSkills parses a delimited skill string into a normalized set.
// Commas and semicolons both act as delimiters.
func ParseSkills(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})

	seen := make(map[string]bool, len(fields))
	skills := make([]string, 0, len(fields))
	for _, f := range fields {
		skill := strings.ToLower(strings.TrimSpace(f))
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	return skills
}
