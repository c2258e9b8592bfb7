// Package embeddingutils constructs embedders from configuration.
package embeddingutils

import (
	"fmt"

	"github.com/crewmatchco/crewmatch/pkg/embeddings"
	"github.com/crewmatchco/crewmatch/pkg/embeddings/ollama"
	"github.com/crewmatchco/crewmatch/pkg/embeddings/sparse"
)

type NewEmbedderOpts struct {
	ProviderType    string
	TargetURL       string
	Model           string
	SparseDimension uint32
}

// NewEmbedder builds the hybrid embedder: a remote dense provider paired
// with the local sparse term-weight encoder.
func NewEmbedder(o *NewEmbedderOpts) (embeddings.Embedder, error) {
	encoder := sparse.NewEncoder(sparse.Config{Dimension: o.SparseDimension})

	switch o.ProviderType {
	case "ollama":
		dense, err := ollama.NewEmbedder(ollama.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
		if err != nil {
			return nil, err
		}
		return embeddings.NewPair(dense, encoder), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", o.ProviderType)
	}
}
