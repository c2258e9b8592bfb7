package testutils

import (
	"context"
	"sync"

	"github.com/crewmatchco/crewmatch/pkg/vector"
)

// MockIndex is a test vector index with canned query results.
type MockIndex struct {
	mu        sync.Mutex
	name      string
	documents map[string]vector.Document

	// Results are returned from Query, truncated to TopK.
	Results []vector.QueryResult

	// QueryErr, when set, is returned from every Query call.
	QueryErr error

	// FailQueries causes the next N Query calls to return QueryErr
	// (or vector.ErrConnection when QueryErr is nil) before succeeding.
	FailQueries int

	// UpsertErr, when set, is returned from every Upsert call.
	UpsertErr error

	// Queries records every query received, in call order.
	Queries []vector.Query
}

func NewMockIndex(name string) *MockIndex {
	return &MockIndex{
		name:      name,
		documents: make(map[string]vector.Document),
	}
}

func (m *MockIndex) Upsert(_ context.Context, docs []vector.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	for _, doc := range docs {
		m.documents[doc.ID] = doc
	}
	return nil
}

func (m *MockIndex) Query(_ context.Context, q vector.Query) ([]vector.QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Queries = append(m.Queries, q)

	if m.FailQueries > 0 {
		m.FailQueries--
		if m.QueryErr != nil {
			return nil, m.QueryErr
		}
		return nil, vector.ErrConnection
	}
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}

	if q.TopK > 0 && len(m.Results) > q.TopK {
		return m.Results[:q.TopK], nil
	}
	return m.Results, nil
}

func (m *MockIndex) Fetch(_ context.Context, ids []string) ([]vector.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := make([]vector.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := m.documents[id]; ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (m *MockIndex) Delete(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		delete(m.documents, id)
	}
	return nil
}

func (m *MockIndex) Name() string {
	return m.name
}

func (m *MockIndex) Close() error {
	return nil
}

// Stored returns the document currently upserted under id, if any.
func (m *MockIndex) Stored(id string) (vector.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.documents[id]
	return doc, ok
}

// StoredCount returns how many documents the index holds.
func (m *MockIndex) StoredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.documents)
}
