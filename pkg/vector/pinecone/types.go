package pinecone

// sparseValues is Pinecone's wire representation of a sparse vector.
type sparseValues struct {
	Indices []uint32  `json:"indices"`
	Values  []float32 `json:"values"`
}

// upsertVector is one vector in an upsert request.
type upsertVector struct {
	ID           string         `json:"id"`
	Values       []float32      `json:"values,omitempty"`
	SparseValues *sparseValues  `json:"sparseValues,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// upsertRequest is the request body for /vectors/upsert.
type upsertRequest struct {
	Vectors   []upsertVector `json:"vectors"`
	Namespace string         `json:"namespace,omitempty"`
}

// upsertResponse is the response from /vectors/upsert.
type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

// queryRequest is the request body for /query.
type queryRequest struct {
	Vector          []float32                 `json:"vector,omitempty"`
	SparseVector    *sparseValues             `json:"sparseVector,omitempty"`
	TopK            int                       `json:"topK"`
	Filter          map[string]map[string]any `json:"filter,omitempty"`
	Namespace       string                    `json:"namespace,omitempty"`
	IncludeMetadata bool                      `json:"includeMetadata"`
}

// queryMatch is a single hit in a query response.
type queryMatch struct {
	ID           string         `json:"id"`
	Score        float32        `json:"score"`
	Values       []float32      `json:"values,omitempty"`
	SparseValues *sparseValues  `json:"sparseValues,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// queryResponse is the response from /query.
type queryResponse struct {
	Matches   []queryMatch `json:"matches"`
	Namespace string       `json:"namespace"`
}

// fetchResponse is the response from /vectors/fetch.
type fetchResponse struct {
	Vectors   map[string]queryMatch `json:"vectors"`
	Namespace string                `json:"namespace"`
}

// deleteRequest is the request body for /vectors/delete.
type deleteRequest struct {
	IDs       []string `json:"ids"`
	Namespace string   `json:"namespace,omitempty"`
}
