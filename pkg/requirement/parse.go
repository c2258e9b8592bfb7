package requirement

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Columns is the required header set for a requirement batch file.
var Columns = []string{
	"Requirement ID",
	"Job Title",
	"Role Level",
	"Industry",
	"Work Location",
	"Summary",
}

// required marks the columns that must be non-empty per row. Job Title and
// Industry are advisory and may be blank.
var required = map[string]bool{
	"Requirement ID": true,
	"Role Level":     true,
	"Work Location":  true,
	"Summary":        true,
}

// Reject pairs a failed row with its parse error.
type Reject struct {
	RowIndex int
	Err      error
}

// Batch is the outcome of parsing a requirement file: the canonical records
// in file order plus per-row rejects.
type Batch struct {
	Records []Record
	Rejects []Reject
}

// ParseFile parses a requirement batch from a .csv or .xlsx file.
func ParseFile(path string, r io.Reader) (*Batch, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx", ".xls":
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported requirement file type: %s", filepath.Ext(path))
	}
}

// ParseCSV parses a requirement batch from CSV content.
func ParseCSV(r io.Reader) (*Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return parseRows(rows)
}

// ParseXLSX parses a requirement batch from the first sheet of an xlsx file.
func ParseXLSX(r io.Reader) (*Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return parseRows(rows)
}

// parseRows validates the header then converts each data row, quarantining
// non-conforming rows instead of propagating untyped shapes downstream.
func parseRows(rows [][]string) (*Batch, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	colIdx, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	batch := &Batch{}
	seen := make(map[string]bool)

	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after header

		get := func(col string) string {
			idx := colIdx[col]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		missing := ""
		for _, col := range Columns {
			if required[col] && get(col) == "" {
				missing = col
				break
			}
		}
		if missing != "" {
			batch.Rejects = append(batch.Rejects, Reject{
				RowIndex: rowNum,
				Err:      fmt.Errorf("missing required column value: %s", missing),
			})
			continue
		}

		id := get("Requirement ID")
		if seen[id] {
			batch.Rejects = append(batch.Rejects, Reject{
				RowIndex: rowNum,
				Err:      fmt.Errorf("duplicate Requirement ID: %s", id),
			})
			continue
		}
		seen[id] = true

		batch.Records = append(batch.Records, Record{
			RequirementID: id,
			JobTitle:      get("Job Title"),
			RoleLevel:     get("Role Level"),
			Industry:      get("Industry"),
			WorkLocation:  get("Work Location"),
			Summary:       get("Summary"),
		})
	}

	return batch, nil
}

// headerIndex maps each expected column name to its position, rejecting
// files with missing columns.
func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(Columns))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}

	for _, col := range Columns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("input file must contain column: %s", col)
		}
	}
	return idx, nil
}
