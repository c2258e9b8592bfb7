// Package resume extracts candidate project-experience text from resume
// archives. Archives are ZIP files of PDFs named EMP-XXXX_Name.pdf.
package resume

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// filenameID captures the employee ID encoded in a resume filename.
var filenameID = regexp.MustCompile(`^(EMP-\d{4})_`)

// projectSection locates the "Project Experience:" heading. Everything after
// it is the section body.
var projectSection = regexp.MustCompile(`(?is)Project Experience:(.*)`)

// ArchiveResult is the outcome of walking a resume archive.
type ArchiveResult struct {
	// Texts maps employee ID to extracted project-experience text.
	Texts map[string]string

	// Skipped lists archive entries that were not usable resumes
	// (bad filename, unreadable PDF), with the reason attached.
	Skipped []string
}

// ParseFilename extracts the employee ID from a resume filename.
// Returns false when the name does not follow the EMP-XXXX_Name convention.
func ParseFilename(name string) (string, bool) {
	m := filenameID.FindStringSubmatch(path.Base(name))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ProjectExperience returns the text following the "Project Experience:"
// heading, or empty when the section is absent.
func ProjectExperience(text string) string {
	m := projectSection.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// ExtractText pulls plain text from a PDF.
func ExtractText(ra io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(ra, size)
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, textReader); err != nil {
		return "", fmt.Errorf("reading text: %w", err)
	}
	return sb.String(), nil
}

// ReadArchive walks a resume ZIP and extracts the project-experience text
// for every conforming entry. Unusable entries are skipped, not fatal.
func ReadArchive(zipPath string) (*ArchiveResult, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer zr.Close()

	result := &ArchiveResult{Texts: make(map[string]string)}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !strings.EqualFold(path.Ext(f.Name), ".pdf") {
			continue
		}

		empID, ok := ParseFilename(f.Name)
		if !ok {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: filename does not encode an employee ID", f.Name))
			continue
		}

		rc, err := f.Open()
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}

		text, err := ExtractText(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}

		result.Texts[empID] = ProjectExperience(text)
	}

	return result, nil
}
