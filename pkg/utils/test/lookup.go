package testutils

import (
	"context"

	"github.com/crewmatchco/crewmatch/pkg/candidate"
)

// MockLookup is a test candidate lookup backed by an in-memory map.
type MockLookup struct {
	Records map[string]*candidate.Record

	// Err, when set, is returned from every Lookup call.
	Err error
}

func NewMockLookup(records ...*candidate.Record) *MockLookup {
	m := &MockLookup{Records: make(map[string]*candidate.Record)}
	for _, r := range records {
		m.Records[r.EmployeeID] = r
	}
	return m
}

func (m *MockLookup) Lookup(_ context.Context, ids []string) (map[string]*candidate.Record, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	out := make(map[string]*candidate.Record, len(ids))
	for _, id := range ids {
		if r, ok := m.Records[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}
