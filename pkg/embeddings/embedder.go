// Package embeddings defines the text embedding contract used by the
// ingestion and matching paths.
package embeddings

import (
	"context"

	"github.com/crewmatchco/crewmatch/pkg/vector"
)

// DenseEmbedder converts text into a fixed-length semantic vector.
type DenseEmbedder interface {
	// EmbedDense converts text into a dense vector embedding.
	EmbedDense(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}

// SparseEmbedder converts text into an indices+weights term vector.
type SparseEmbedder interface {
	// EmbedSparse converts text into a sparse term-weight vector.
	EmbedSparse(ctx context.Context, text string) (*vector.SparseValues, error)
}

// Embedder produces both halves of a hybrid query or document.
type Embedder interface {
	DenseEmbedder
	SparseEmbedder
}

// Pair combines independent dense and sparse embedders into one Embedder.
type Pair struct {
	DenseEmbedder
	SparseEmbedder
}

// NewPair builds an Embedder from a dense and a sparse implementation.
func NewPair(dense DenseEmbedder, sparse SparseEmbedder) *Pair {
	return &Pair{DenseEmbedder: dense, SparseEmbedder: sparse}
}
