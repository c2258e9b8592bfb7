// Package pinecone provides a Pinecone data-plane driver implementation
// of vector.Index. One driver instance talks to one named index host.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/crewmatchco/crewmatch/pkg/vector"
)

// Config holds configuration for the Pinecone driver.
type Config struct {
	// Host is the index host URL (e.g. "https://resume-experience-abc123.svc.aped-4627-b74a.pinecone.io").
	Host string

	// APIKey is the Pinecone API key.
	APIKey string

	// IndexName is the logical index name used in logs and reports.
	IndexName string

	// Namespace scopes all operations. Empty means the default namespace.
	Namespace string

	// Timeout bounds each HTTP call. Defaults to 30s.
	Timeout time.Duration
}

// Driver implements vector.Index against Pinecone's REST API.
type Driver struct {
	host       string
	apiKey     string
	indexName  string
	namespace  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewDriver creates a Pinecone driver for a single index host.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.Host == "" {
		return nil, fmt.Errorf("pinecone index host is required")
	}
	if c.APIKey == "" {
		return nil, fmt.Errorf("pinecone api key is required")
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	host := strings.TrimSuffix(c.Host, "/")
	if !strings.HasPrefix(host, "http") {
		host = "https://" + host
	}

	d := &Driver{
		host:      host,
		apiKey:    c.APIKey,
		indexName: c.IndexName,
		namespace: c.Namespace,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}

	logger.Info("pinecone driver configured",
		zap.String("index", c.IndexName),
		zap.String("host", host),
	)

	return d, nil
}

// Upsert writes documents keyed by ID, overwriting existing entries.
func (d *Driver) Upsert(ctx context.Context, docs []vector.Document) error {
	if len(docs) == 0 {
		return nil
	}

	vectors := make([]upsertVector, len(docs))
	for i, doc := range docs {
		vectors[i] = upsertVector{
			ID:       doc.ID,
			Values:   doc.Dense,
			Metadata: doc.Metadata,
		}
		if doc.Sparse != nil {
			vectors[i].SparseValues = &sparseValues{
				Indices: doc.Sparse.Indices,
				Values:  doc.Sparse.Values,
			}
		}
	}

	reqBody := upsertRequest{
		Vectors:   vectors,
		Namespace: d.namespace,
	}

	var resp upsertResponse
	if err := d.post(ctx, "/vectors/upsert", reqBody, &resp); err != nil {
		return fmt.Errorf("upserting to %s: %w", d.indexName, err)
	}

	d.logger.Debug("upserted documents",
		zap.String("index", d.indexName),
		zap.Int("count", len(docs)),
	)

	return nil
}

// Query returns the topK most similar documents.
func (d *Driver) Query(ctx context.Context, q vector.Query) ([]vector.QueryResult, error) {
	topK := q.TopK
	if topK <= 0 {
		topK = 10
	}

	reqBody := queryRequest{
		TopK:            topK,
		Namespace:       d.namespace,
		Filter:          q.Filter,
		Vector:          q.Dense,
		IncludeMetadata: true,
	}
	if q.Sparse != nil {
		reqBody.SparseVector = &sparseValues{
			Indices: q.Sparse.Indices,
			Values:  q.Sparse.Values,
		}
	}

	var queryResp queryResponse
	if err := d.post(ctx, "/query", reqBody, &queryResp); err != nil {
		return nil, fmt.Errorf("querying %s: %w", d.indexName, err)
	}

	results := make([]vector.QueryResult, 0, len(queryResp.Matches))
	for _, m := range queryResp.Matches {
		result := vector.QueryResult{
			Document: vector.Document{
				ID:       m.ID,
				Dense:    m.Values,
				Metadata: m.Metadata,
			},
			Score: m.Score,
		}
		if m.SparseValues != nil {
			result.Sparse = &vector.SparseValues{
				Indices: m.SparseValues.Indices,
				Values:  m.SparseValues.Values,
			}
		}
		results = append(results, result)
	}

	d.logger.Debug("queried index",
		zap.String("index", d.indexName),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Fetch retrieves documents by their IDs.
func (d *Driver) Fetch(ctx context.Context, ids []string) ([]vector.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	params := url.Values{}
	for _, id := range ids {
		params.Add("ids", id)
	}
	if d.namespace != "" {
		params.Set("namespace", d.namespace)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.host+"/vectors/fetch?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating fetch request: %w", err)
	}
	req.Header.Set("Api-Key", d.apiKey)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if err := statusErr(resp); err != nil {
		return nil, fmt.Errorf("fetching from %s: %w", d.indexName, err)
	}

	var fetchResp fetchResponse
	if err := json.NewDecoder(resp.Body).Decode(&fetchResp); err != nil {
		return nil, fmt.Errorf("decoding fetch response: %w", err)
	}

	docs := make([]vector.Document, 0, len(fetchResp.Vectors))
	for _, v := range fetchResp.Vectors {
		doc := vector.Document{
			ID:       v.ID,
			Dense:    v.Values,
			Metadata: v.Metadata,
		}
		if v.SparseValues != nil {
			doc.Sparse = &vector.SparseValues{
				Indices: v.SparseValues.Indices,
				Values:  v.SparseValues.Values,
			}
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// Delete removes documents by their IDs.
func (d *Driver) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	reqBody := deleteRequest{
		IDs:       ids,
		Namespace: d.namespace,
	}

	if err := d.post(ctx, "/vectors/delete", reqBody, nil); err != nil {
		return fmt.Errorf("deleting from %s: %w", d.indexName, err)
	}

	d.logger.Debug("deleted documents",
		zap.String("index", d.indexName),
		zap.Int("count", len(ids)),
	)

	return nil
}

// Name returns the logical index name.
func (d *Driver) Name() string {
	return d.indexName
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// post sends a JSON POST to the index host and decodes the response into out
// when out is non-nil.
func (d *Driver) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.host+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Api-Key", d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		// Client-side timeouts unwrap to context.DeadlineExceeded too, so
		// only the caller's own deadline or cancellation passes through
		// unwrapped; everything else is a retryable connection failure.
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: %v", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if err := statusErr(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// statusErr maps non-2xx responses to the vector error taxonomy so callers
// can distinguish retryable failures from hard rejections.
func statusErr(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d: %s", vector.ErrConnection, resp.StatusCode, string(body))
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: status %d: %s", vector.ErrNotFound, resp.StatusCode, string(body))
	}
	return fmt.Errorf("%w: status %d: %s", vector.ErrBadRequest, resp.StatusCode, string(body))
}

// Ensure Driver implements vector.Index
var _ vector.Index = (*Driver)(nil)
