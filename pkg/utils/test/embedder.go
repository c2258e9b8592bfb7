package testutils

import (
	"context"
	"fmt"

	"github.com/crewmatchco/crewmatch/pkg/vector"
)

// MockEmbedder is a test embedder that returns predictable embeddings
type MockEmbedder struct {
	Dense  map[string][]float32
	Sparse map[string]*vector.SparseValues

	// FailOn causes either Embed method to return an error when the
	// input text matches
	FailOn string
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Dense:  make(map[string][]float32),
		Sparse: make(map[string]*vector.SparseValues),
	}
}

func (m *MockEmbedder) EmbedDense(_ context.Context, text string) ([]float32, error) {
	if m.FailOn != "" && text == m.FailOn {
		return nil, fmt.Errorf("mock embedding failure for: %s", text)
	}

	if emb, ok := m.Dense[text]; ok {
		return emb, nil
	}

	// Return a default embedding for any text
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *MockEmbedder) EmbedSparse(_ context.Context, text string) (*vector.SparseValues, error) {
	if m.FailOn != "" && text == m.FailOn {
		return nil, fmt.Errorf("mock embedding failure for: %s", text)
	}

	if sv, ok := m.Sparse[text]; ok {
		return sv, nil
	}

	return &vector.SparseValues{
		Indices: []uint32{1, 2, 3},
		Values:  []float32{0.5, 0.3, 0.2},
	}, nil
}

func (m *MockEmbedder) Close() error {
	return nil
}
