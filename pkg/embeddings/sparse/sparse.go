// Package sparse implements a deterministic local term-weight encoder for
// the skills index. Terms are lower-cased, hashed into a fixed index space,
// and weighted by log-scaled term frequency, so identical input always
// produces an identical vector.
package sparse

import (
	"context"
	"hash/fnv"
	"math"
	"sort"
	"strings"

	"github.com/crewmatchco/crewmatch/pkg/embeddings"
	"github.com/crewmatchco/crewmatch/pkg/vector"
)

// DefaultDimension is the size of the hashed index space.
const DefaultDimension = 1 << 18

// Encoder converts text into sparse term-weight vectors.
type Encoder struct {
	dimension uint32
}

// Config holds configuration for the sparse encoder.
type Config struct {
	// Dimension is the hashed index space size.
	// Defaults to DefaultDimension if zero.
	Dimension uint32
}

// NewEncoder creates a sparse term-weight encoder.
func NewEncoder(cfg Config) *Encoder {
	dim := cfg.Dimension
	if dim == 0 {
		dim = DefaultDimension
	}
	return &Encoder{dimension: dim}
}

// EmbedSparse converts text into a sparse term-weight vector.
func (e *Encoder) EmbedSparse(_ context.Context, text string) (*vector.SparseValues, error) {
	terms := Tokenize(text)
	if len(terms) == 0 {
		return &vector.SparseValues{}, nil
	}

	counts := make(map[uint32]int, len(terms))
	for _, term := range terms {
		counts[e.hash(term)]++
	}

	indices := make([]uint32, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	values := make([]float32, len(indices))
	for i, idx := range indices {
		values[i] = float32(1 + math.Log(float64(counts[idx])))
	}

	return &vector.SparseValues{
		Indices: indices,
		Values:  values,
	}, nil
}

func (e *Encoder) hash(term string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(term))
	return h.Sum32() % e.dimension
}

// Tokenize splits text into normalized terms. Symbols that carry meaning in
// skill names ("c++", "c#", "node.js") stay inside their token.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		switch r {
		case '+', '#', '.', '-', '_':
			return false
		}
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, "._-")
		if len(f) < 2 {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// Ensure Encoder implements the sparse contract
var _ embeddings.SparseEmbedder = (*Encoder)(nil)
