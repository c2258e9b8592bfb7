package candidate

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetColumns is the required header set for a candidate sheet.
var SheetColumns = []string{
	"Employee ID",
	"Name",
	"Location",
	"Experience (Years)",
	"Current Role",
	"Skills",
}

// ParseSheet reads the candidate sheet (.csv or .xlsx) into untyped rows.
// Validation happens later, in Builder.Build, so one malformed row stays a
// per-row reject rather than a parse failure.
func ParseSheet(path string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		raw, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		return sheetRows(raw)
	case ".xlsx", ".xls":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("opening workbook: %w", err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		raw, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
		}
		return sheetRows(raw)
	default:
		return nil, fmt.Errorf("unsupported candidate sheet type: %s", filepath.Ext(path))
	}
}

func sheetRows(raw [][]string) ([]Row, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	idx := make(map[string]int, len(SheetColumns))
	for i, h := range raw[0] {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range SheetColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("candidate sheet must contain column: %s", col)
		}
	}

	rows := make([]Row, 0, len(raw)-1)
	for i, r := range raw[1:] {
		get := func(col string) string {
			j := idx[col]
			if j >= len(r) {
				return ""
			}
			return r[j]
		}

		rows = append(rows, Row{
			Index:      i + 2,
			EmployeeID: get("Employee ID"),
			Name:       get("Name"),
			Location:   get("Location"),
			Experience: get("Experience (Years)"),
			Role:       get("Current Role"),
			Skills:     get("Skills"),
		})
	}
	return rows, nil
}
