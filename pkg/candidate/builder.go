package candidate

import (
	"fmt"
	"strconv"
	"strings"
)

// Reason classifies why a row failed validation.
type Reason string

const (
	// MissingField means a required spreadsheet column was empty.
	MissingField Reason = "missing_field"

	// IdentityMismatch means the resume filename ID and the row's
	// employee ID disagree.
	IdentityMismatch Reason = "identity_mismatch"

	// MissingResume means no resume artifact was found for the row's ID.
	MissingResume Reason = "missing_resume"

	// BadValue means a field was present but unparseable or out of range.
	BadValue Reason = "bad_value"
)

// ValidationError reports a single malformed row. It never aborts a batch;
// callers collect these as rejects.
type ValidationError struct {
	Field  string
	Reason Reason
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Field, e.Reason, e.Detail)
}

// Row is one untyped spreadsheet row, as read from the candidate sheet
// (columns: Employee ID, Name, Location, Experience (Years), Current Role, Skills).
type Row struct {
	// Index is the 1-based source row number, kept for reject reporting.
	Index int

	EmployeeID string
	Name       string
	Location   string
	Experience string
	Role       string
	Skills     string
}

// Reject pairs a failed row with its validation error.
type Reject struct {
	RowIndex int
	Err      error
}

// Builder converts raw rows plus resume text into canonical records.
// It is a pure transform: the caller hands the records to the ingestor.
type Builder struct{}

// NewBuilder creates a candidate record builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build validates one row against its resume artifact and produces a Record.
// resumeID is the employee ID encoded in the resume filename; resumeText is
// the extracted project-experience text (may be empty).
func (b *Builder) Build(resumeID, resumeText string, row Row) (*Record, error) {
	empID := strings.TrimSpace(row.EmployeeID)
	if empID == "" {
		return nil, &ValidationError{Field: "Employee ID", Reason: MissingField}
	}
	if !IDPattern.MatchString(empID) {
		return nil, &ValidationError{Field: "Employee ID", Reason: BadValue, Detail: empID}
	}

	if resumeID == "" {
		return nil, &ValidationError{Field: "resume", Reason: MissingResume, Detail: empID}
	}
	if resumeID != empID {
		return nil, &ValidationError{
			Field:  "Employee ID",
			Reason: IdentityMismatch,
			Detail: fmt.Sprintf("row %s vs resume %s", empID, resumeID),
		}
	}

	name := strings.TrimSpace(row.Name)
	if name == "" {
		return nil, &ValidationError{Field: "Name", Reason: MissingField}
	}

	location := strings.ToLower(strings.TrimSpace(row.Location))
	if location == "" {
		return nil, &ValidationError{Field: "Location", Reason: MissingField}
	}

	expStr := strings.TrimSpace(row.Experience)
	if expStr == "" {
		return nil, &ValidationError{Field: "Experience (Years)", Reason: MissingField}
	}
	experience, err := strconv.ParseFloat(expStr, 64)
	if err != nil {
		return nil, &ValidationError{Field: "Experience (Years)", Reason: BadValue, Detail: expStr}
	}
	if experience < 0 {
		return nil, &ValidationError{Field: "Experience (Years)", Reason: BadValue, Detail: "negative"}
	}

	role := strings.TrimSpace(row.Role)
	if role == "" {
		return nil, &ValidationError{Field: "Current Role", Reason: MissingField}
	}

	skills := ParseSkills(row.Skills)
	if len(skills) == 0 {
		return nil, &ValidationError{Field: "Skills", Reason: MissingField}
	}

	return &Record{
		EmployeeID:        empID,
		Name:              name,
		Location:          location,
		ExperienceYears:   experience,
		CurrentRole:       role,
		Skills:            skills,
		ProjectExperience: strings.TrimSpace(resumeText),
	}, nil
}

// BuildAll converts a batch of rows, looking up each row's resume text by
// employee ID. Malformed rows are collected as rejects; one bad row never
// aborts the batch.
func (b *Builder) BuildAll(rows []Row, resumes map[string]string) ([]*Record, []Reject) {
	records := make([]*Record, 0, len(rows))
	var rejects []Reject

	for _, row := range rows {
		empID := strings.TrimSpace(row.EmployeeID)

		resumeID := ""
		resumeText := ""
		if text, ok := resumes[empID]; ok {
			resumeID = empID
			resumeText = text
		}

		record, err := b.Build(resumeID, resumeText, row)
		if err != nil {
			rejects = append(rejects, Reject{RowIndex: row.Index, Err: err})
			continue
		}
		records = append(records, record)
	}

	return records, rejects
}
