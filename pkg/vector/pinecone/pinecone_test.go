package pinecone_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/crewmatchco/crewmatch/pkg/vector"
	"github.com/crewmatchco/crewmatch/pkg/vector/pinecone"
)

var _ = Describe("Driver", func() {
	var logger *zap.Logger

	BeforeEach(func() {
		logger = zap.NewNop()
	})

	newDriver := func(host string) *pinecone.Driver {
		driver, err := pinecone.NewDriver(pinecone.Config{
			Host:      host,
			APIKey:    "test-key",
			IndexName: "resume-experience",
			Namespace: "crewmatch",
		}, logger)
		Expect(err).NotTo(HaveOccurred())
		return driver
	}

	Describe("NewDriver", func() {
		It("should return an error when host is empty", func() {
			_, err := pinecone.NewDriver(pinecone.Config{APIKey: "key"}, logger)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("host is required"))
		})

		It("should return an error when API key is empty", func() {
			_, err := pinecone.NewDriver(pinecone.Config{Host: "example.pinecone.io"}, logger)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("api key is required"))
		})
	})

	Describe("Query", func() {
		It("should send the API key header and decode matches", func() {
			var gotHeader string
			var gotBody map[string]any

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/query"))
				gotHeader = r.Header.Get("Api-Key")
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"matches": []map[string]any{
						{
							"id":    "EMP-1001",
							"score": 0.91,
							"metadata": map[string]any{
								"location": "pune",
							},
						},
					},
				})
			}))
			defer server.Close()

			driver := newDriver(server.URL)

			results, err := driver.Query(context.Background(), vector.Query{
				Dense: []float32{0.1, 0.2},
				TopK:  5,
				Filter: vector.Filter{
					"location": {"$eq": "pune"},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(1))
			Expect(results[0].ID).To(Equal("EMP-1001"))
			Expect(results[0].Score).To(BeNumerically("~", 0.91, 0.001))
			Expect(results[0].Metadata).To(HaveKeyWithValue("location", "pune"))

			Expect(gotHeader).To(Equal("test-key"))
			Expect(gotBody).To(HaveKeyWithValue("topK", float64(5)))
			Expect(gotBody).To(HaveKeyWithValue("namespace", "crewmatch"))
			Expect(gotBody).To(HaveKeyWithValue("includeMetadata", true))
			Expect(gotBody).To(HaveKey("filter"))
		})

		It("should include the sparse vector when present", func() {
			var gotBody map[string]any

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
				json.NewEncoder(w).Encode(map[string]any{"matches": []any{}})
			}))
			defer server.Close()

			driver := newDriver(server.URL)

			_, err := driver.Query(context.Background(), vector.Query{
				Sparse: &vector.SparseValues{
					Indices: []uint32{7, 42},
					Values:  []float32{1.0, 2.0},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(gotBody).To(HaveKey("sparseVector"))
		})

		It("should map server errors to ErrConnection", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "internal error", http.StatusInternalServerError)
			}))
			defer server.Close()

			driver := newDriver(server.URL)

			_, err := driver.Query(context.Background(), vector.Query{Dense: []float32{0.1}})
			Expect(err).To(MatchError(vector.ErrConnection))
		})

		It("should map a 404 to ErrNotFound", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "not found", http.StatusNotFound)
			}))
			defer server.Close()

			driver := newDriver(server.URL)

			_, err := driver.Query(context.Background(), vector.Query{Dense: []float32{0.1}})
			Expect(err).To(MatchError(vector.ErrNotFound))
		})

		It("should map other client errors to ErrBadRequest", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad filter", http.StatusBadRequest)
			}))
			defer server.Close()

			driver := newDriver(server.URL)

			_, err := driver.Query(context.Background(), vector.Query{Dense: []float32{0.1}})
			Expect(err).To(MatchError(vector.ErrBadRequest))
			Expect(err.Error()).To(ContainSubstring("bad filter"))
		})

		It("should map an unreachable host to ErrConnection", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			server.Close()

			driver := newDriver(server.URL)

			_, err := driver.Query(context.Background(), vector.Query{Dense: []float32{0.1}})
			Expect(err).To(MatchError(vector.ErrConnection))
		})

		It("should map a client-side timeout to ErrConnection", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				json.NewEncoder(w).Encode(map[string]any{"matches": []any{}})
			}))
			defer server.Close()

			driver, err := pinecone.NewDriver(pinecone.Config{
				Host:      server.URL,
				APIKey:    "test-key",
				IndexName: "resume-experience",
				Namespace: "crewmatch",
				Timeout:   20 * time.Millisecond,
			}, logger)
			Expect(err).NotTo(HaveOccurred())

			_, err = driver.Query(context.Background(), vector.Query{Dense: []float32{0.1}})
			Expect(err).To(MatchError(vector.ErrConnection))
		})

		It("should pass through the caller's cancellation unwrapped", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				json.NewEncoder(w).Encode(map[string]any{"matches": []any{}})
			}))
			defer server.Close()

			driver := newDriver(server.URL)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := driver.Query(ctx, vector.Query{Dense: []float32{0.1}})
			Expect(err).To(MatchError(context.Canceled))
			Expect(err).NotTo(MatchError(vector.ErrConnection))
		})
	})

	Describe("Upsert", func() {
		It("should write dense and sparse values with metadata", func() {
			var gotBody map[string]any

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/vectors/upsert"))
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
				json.NewEncoder(w).Encode(map[string]any{"upsertedCount": 1})
			}))
			defer server.Close()

			driver := newDriver(server.URL)

			err := driver.Upsert(context.Background(), []vector.Document{
				{
					ID:    "EMP-1001",
					Dense: []float32{0.1, 0.2},
					Sparse: &vector.SparseValues{
						Indices: []uint32{3},
						Values:  []float32{1.5},
					},
					Metadata: map[string]any{"location": "pune"},
				},
			})
			Expect(err).NotTo(HaveOccurred())

			vectors, ok := gotBody["vectors"].([]any)
			Expect(ok).To(BeTrue())
			Expect(vectors).To(HaveLen(1))

			first, ok := vectors[0].(map[string]any)
			Expect(ok).To(BeTrue())
			Expect(first).To(HaveKeyWithValue("id", "EMP-1001"))
			Expect(first).To(HaveKey("sparseValues"))
			Expect(first).To(HaveKey("metadata"))
		})

		It("should be a no-op for an empty batch", func() {
			var called bool

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))
			defer server.Close()

			driver := newDriver(server.URL)

			Expect(driver.Upsert(context.Background(), nil)).To(Succeed())
			Expect(called).To(BeFalse())
		})
	})

	Describe("Fetch", func() {
		It("should request documents by ID and decode the vector map", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/vectors/fetch"))
				Expect(r.URL.Query()["ids"]).To(ConsistOf("EMP-1001", "EMP-1002"))
				Expect(r.URL.Query().Get("namespace")).To(Equal("crewmatch"))

				json.NewEncoder(w).Encode(map[string]any{
					"vectors": map[string]any{
						"EMP-1001": map[string]any{
							"id":     "EMP-1001",
							"values": []float32{0.1},
						},
					},
				})
			}))
			defer server.Close()

			driver := newDriver(server.URL)

			docs, err := driver.Fetch(context.Background(), []string{"EMP-1001", "EMP-1002"})
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(1))
			Expect(docs[0].ID).To(Equal("EMP-1001"))
		})
	})

	Describe("Delete", func() {
		It("should post the IDs to the delete endpoint", func() {
			var gotBody map[string]any

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/vectors/delete"))
				Expect(json.NewDecoder(r.Body).Decode(&gotBody)).To(Succeed())
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			driver := newDriver(server.URL)

			Expect(driver.Delete(context.Background(), []string{"EMP-1001"})).To(Succeed())
			Expect(gotBody).To(HaveKeyWithValue("ids", ConsistOf("EMP-1001")))
		})
	})

	Describe("Interface compliance", func() {
		It("should implement vector.Index", func() {
			var _ vector.Index = (*pinecone.Driver)(nil)
		})
	})
})
