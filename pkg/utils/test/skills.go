package testutils

import (
	"context"
	"fmt"
)

// MockExtractor is a test skill extractor with canned responses keyed by
// job description.
type MockExtractor struct {
	Skills map[string]string

	// FailOn causes ExtractSkills to return an error when the
	// description matches
	FailOn string

	// Default is returned for descriptions with no canned entry.
	Default string
}

func NewMockExtractor() *MockExtractor {
	return &MockExtractor{
		Skills:  make(map[string]string),
		Default: "go, kubernetes",
	}
}

func (m *MockExtractor) ExtractSkills(_ context.Context, jobDescription string) (string, error) {
	if m.FailOn != "" && jobDescription == m.FailOn {
		return "", fmt.Errorf("mock extraction failure for: %s", jobDescription)
	}

	if s, ok := m.Skills[jobDescription]; ok {
		return s, nil
	}
	return m.Default, nil
}
