// Package vector defines the contract for the two resume indices and the
// document/result types that flow through them.
package vector

import "context"

// SparseValues is an indices+weights representation of term-level content,
// matching the wire shape of Pinecone sparse vectors.
type SparseValues struct {
	Indices []uint32  `json:"indices"`
	Values  []float32 `json:"values"`
}

// Document is a stored candidate entry. Exactly one of Dense or Sparse is
// populated, depending on which index the document targets.
type Document struct {
	// ID is the candidate's employee ID (EMP-XXXX).
	ID string

	// Dense is the semantic embedding for the experience index.
	Dense []float32

	// Sparse is the term-weight vector for the skills index.
	Sparse *SparseValues

	// Metadata carries the candidate fields attached to the vector
	// (location, experience, current_role, text).
	Metadata map[string]any
}

// QueryResult is a single ranked hit from an index query.
type QueryResult struct {
	Document

	// Score is the index's native similarity score (higher = more similar).
	// Scores from different indices are not comparable without normalization.
	Score float32
}

// Filter is a metadata filter in Pinecone's operator syntax, e.g.
// {"location": {"$eq": "pune"}, "experience": {"$gte": 5}}.
type Filter map[string]map[string]any

// Query describes one index query. Dense and Sparse mirror Document:
// set whichever matches the target index.
type Query struct {
	Dense  []float32
	Sparse *SparseValues
	TopK   int
	Filter Filter
}

// Index handles upsert and retrieval for one named index.
type Index interface {
	// Upsert writes documents keyed by ID. Re-upserting an existing ID
	// overwrites its vector and metadata in place.
	Upsert(ctx context.Context, docs []Document) error

	// Query returns the topK most similar documents, ranked by score.
	Query(ctx context.Context, q Query) ([]QueryResult, error)

	// Fetch retrieves documents by their IDs.
	Fetch(ctx context.Context, ids []string) ([]Document, error)

	// Delete removes documents by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Name returns the index name (e.g. "resume-experience").
	Name() string

	// Close releases any resources held by the driver.
	Close() error
}
