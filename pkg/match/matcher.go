package match

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/crewmatchco/crewmatch/pkg/candidate"
	"github.com/crewmatchco/crewmatch/pkg/embeddings"
	"github.com/crewmatchco/crewmatch/pkg/requirement"
	"github.com/crewmatchco/crewmatch/pkg/skills"
	"github.com/crewmatchco/crewmatch/pkg/vector"
)

const (
	// DefaultMaxConcurrency bounds requirements in flight at once.
	DefaultMaxConcurrency = 5

	// DefaultFetchK is the raw per-index fetch size before merge.
	DefaultFetchK = 50

	// queryRetries is the number of retries for transient query failures.
	queryRetries = 2
)

// retryBackoff is the base delay between query retries. Var so tests can
// shrink it.
var retryBackoff = 200 * time.Millisecond

// CandidateLookup resolves candidate IDs to full records for result
// enrichment and skill evidence. Implemented by the profile store.
type CandidateLookup interface {
	Lookup(ctx context.Context, ids []string) (map[string]*candidate.Record, error)
}

// Config wires the matcher's collaborators. Experience and Skills are the
// two index handles; Lookup is optional.
type Config struct {
	Experience vector.Index
	Skills     vector.Index
	Embedder   embeddings.Embedder
	Extractor  skills.Extractor
	Lookup     CandidateLookup
	Logger     *zap.Logger

	// DenseWeight and SparseWeight blend component scores; they must sum
	// to 1. Zero values select the defaults (0.6/0.4).
	DenseWeight  float64
	SparseWeight float64
}

// Options are the per-call knobs of a matching run.
type Options struct {
	// TopK is the user-facing result size per requirement. Must be >= 1.
	TopK int

	// MaxConcurrency caps requirements in flight. Zero selects the
	// default; the value is clamped to the batch size.
	MaxConcurrency int

	// FetchK is the raw per-index fetch size before merge. Zero selects
	// max(TopK, DefaultFetchK).
	FetchK int
}

// Matcher runs hybrid candidate searches for requirement batches.
type Matcher struct {
	config Config
	merge  MergeOptions
	logger *zap.Logger
}

// NewMatcher creates a batch matcher.
func NewMatcher(c Config) (*Matcher, error) {
	if c.Experience == nil || c.Skills == nil {
		return nil, errors.New("both index handles are required")
	}
	if c.Embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if c.Extractor == nil {
		return nil, errors.New("skill extractor is required")
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	dw, sw := c.DenseWeight, c.SparseWeight
	if dw == 0 && sw == 0 {
		dw, sw = DefaultDenseWeight, DefaultSparseWeight
	}
	if diff := dw + sw - 1; diff > 1e-9 || diff < -1e-9 {
		return nil, fmt.Errorf("score weights must sum to 1, got %v + %v", dw, sw)
	}

	return &Matcher{
		config: c,
		merge:  MergeOptions{DenseWeight: dw, SparseWeight: sw},
		logger: c.Logger,
	}, nil
}

// Match runs the full batch. Entries come back in input order regardless of
// completion order; a failed requirement occupies its slot with an error
// status instead of aborting the batch. When ctx expires, unfinished slots
// are filled with timeout placeholders and in-flight queries are abandoned.
func (m *Matcher) Match(ctx context.Context, reqs []requirement.Record, opts Options) (*BatchResult, error) {
	if opts.TopK < 1 {
		return nil, fmt.Errorf("top_k must be >= 1, got %d", opts.TopK)
	}
	if len(reqs) == 0 {
		return &BatchResult{Entries: []Entry{}}, nil
	}

	workers := opts.MaxConcurrency
	if workers <= 0 {
		workers = DefaultMaxConcurrency
	}
	if workers > len(reqs) {
		workers = len(reqs)
	}

	fetchK := opts.FetchK
	if fetchK <= 0 {
		fetchK = DefaultFetchK
		if opts.TopK > fetchK {
			fetchK = opts.TopK
		}
	}

	m.logger.Info("starting batch match",
		zap.Int("requirements", len(reqs)),
		zap.Int("top_k", opts.TopK),
		zap.Int("max_concurrency", workers),
	)

	// Each requirement writes its result once into a pre-sized slot
	// addressed by input position. The claimed flags make the write
	// exclusive: either the worker claims the slot or the deadline
	// handler does, never both.
	slots := make([]Entry, len(reqs))
	claimed := make([]atomic.Bool, len(reqs))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, req := range reqs {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			// Deadline hit while waiting for a worker slot; stop
			// dispatching. Unclaimed slots are filled below.
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(i int, req requirement.Record) {
			defer wg.Done()
			defer func() { <-sem }()

			entry := m.processRequirement(ctx, req, opts.TopK, fetchK)
			if claimed[i].CompareAndSwap(false, true) {
				slots[i] = entry
			}
		}(i, req)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// Fill unfinished slots with timeout placeholders. Abandoned
		// workers lose the CAS and their late results are dropped.
		for i := range slots {
			if claimed[i].CompareAndSwap(false, true) {
				slots[i] = Entry{
					Requirement: reqs[i],
					Status:      StatusTimeout,
					Error:       "batch deadline exceeded",
					Matches:     []MatchResult{},
				}
			}
		}
	}

	result := &BatchResult{Entries: slots}
	for i := range slots {
		// Slots never claimed (dispatch stopped early) also time out.
		if claimed[i].CompareAndSwap(false, true) {
			slots[i] = Entry{
				Requirement: reqs[i],
				Status:      StatusTimeout,
				Error:       "batch deadline exceeded",
				Matches:     []MatchResult{},
			}
		}
		if slots[i].Status == StatusOK {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	m.logger.Info("batch match complete",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

// processRequirement runs one requirement end to end: skill extraction,
// query vector derivation, the two concurrent index queries, merge, and
// evidence extraction. All failures collapse into the entry's status.
func (m *Matcher) processRequirement(ctx context.Context, req requirement.Record, topK, fetchK int) Entry {
	entry := Entry{
		Requirement: req,
		Matches:     []MatchResult{},
	}

	skillsCSV, err := m.config.Extractor.ExtractSkills(ctx, req.Summary)
	if err != nil {
		m.logger.Warn("skill extraction failed",
			zap.String("requirement", req.RequirementID),
			zap.Error(err),
		)
		return failedEntry(entry, fmt.Errorf("extracting skills: %w", err))
	}
	entry.ExtractedSkills = skillsCSV

	filter := req.Filter()

	// The dense and sparse pipelines for one requirement run concurrently
	// with each other; each derives its query vector then hits its index.
	var (
		queryWG    sync.WaitGroup
		denseHits  []vector.QueryResult
		sparseHits []vector.QueryResult
		denseErr   error
		sparseErr  error
	)

	queryWG.Add(2)
	go func() {
		defer queryWG.Done()
		denseHits, denseErr = m.denseQuery(ctx, req.Summary, filter, fetchK)
	}()
	go func() {
		defer queryWG.Done()
		sparseHits, sparseErr = m.sparseQuery(ctx, skillsCSV, filter, fetchK)
	}()
	queryWG.Wait()

	if denseErr != nil {
		return failedEntry(entry, fmt.Errorf("experience query: %w", denseErr))
	}
	if sparseErr != nil {
		return failedEntry(entry, fmt.Errorf("skills query: %w", sparseErr))
	}

	merged := Merge(denseHits, sparseHits, MergeOptions{
		TopK:         topK,
		DenseWeight:  m.merge.DenseWeight,
		SparseWeight: m.merge.SparseWeight,
	})

	m.enrich(ctx, req, skillsCSV, merged, append(denseHits, sparseHits...))

	entry.Status = StatusOK
	entry.Matches = merged
	return entry
}

func (m *Matcher) denseQuery(ctx context.Context, summary string, filter vector.Filter, fetchK int) ([]vector.QueryResult, error) {
	embedding, err := m.config.Embedder.EmbedDense(ctx, summary)
	if err != nil {
		return nil, err
	}
	return m.queryWithRetry(ctx, m.config.Experience, vector.Query{
		Dense:  embedding,
		TopK:   fetchK,
		Filter: filter,
	})
}

func (m *Matcher) sparseQuery(ctx context.Context, skillsCSV string, filter vector.Filter, fetchK int) ([]vector.QueryResult, error) {
	embedding, err := m.config.Embedder.EmbedSparse(ctx, skillsCSV)
	if err != nil {
		return nil, err
	}
	return m.queryWithRetry(ctx, m.config.Skills, vector.Query{
		Sparse: embedding,
		TopK:   fetchK,
		Filter: filter,
	})
}

// queryWithRetry retries transient failures a small fixed number of times
// with linear backoff before giving up.
func (m *Matcher) queryWithRetry(ctx context.Context, idx vector.Index, q vector.Query) ([]vector.QueryResult, error) {
	var lastErr error
	for attempt := 0; attempt <= queryRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * retryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		results, err := idx.Query(ctx, q)
		if err == nil {
			return results, nil
		}
		lastErr = err

		if !errors.Is(err, vector.ErrConnection) {
			break
		}
		m.logger.Debug("retrying transient query failure",
			zap.String("index", idx.Name()),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return nil, lastErr
}

// enrich fills names, roles, and matched-skill evidence on the merged
// results, preferring the profile store and falling back to query metadata.
func (m *Matcher) enrich(ctx context.Context, req requirement.Record, skillsCSV string, merged []MatchResult, hits []vector.QueryResult) {
	records := map[string]*candidate.Record{}
	if m.config.Lookup != nil {
		ids := make([]string, len(merged))
		for i, r := range merged {
			ids[i] = r.CandidateID
		}
		found, err := m.config.Lookup.Lookup(ctx, ids)
		if err != nil {
			m.logger.Warn("candidate lookup failed",
				zap.String("requirement", req.RequirementID),
				zap.Error(err),
			)
		} else {
			records = found
		}
	}

	meta := make(map[string]map[string]any, len(hits))
	for _, h := range hits {
		if _, ok := meta[h.ID]; !ok && h.Metadata != nil {
			meta[h.ID] = h.Metadata
		}
	}

	terms := []string{skillsCSV, req.JobTitle, req.Summary}

	for i := range merged {
		id := merged[i].CandidateID

		var candidateSkills []string
		if rec, ok := records[id]; ok {
			merged[i].Name = rec.Name
			merged[i].CurrentRole = rec.CurrentRole
			merged[i].Location = rec.Location
			merged[i].ExperienceYears = rec.ExperienceYears
			candidateSkills = rec.Skills
		} else if md, ok := meta[id]; ok {
			if role, ok := md["current_role"].(string); ok {
				merged[i].CurrentRole = role
			}
			if loc, ok := md["location"].(string); ok {
				merged[i].Location = loc
			}
			if exp, ok := md["experience"].(float64); ok {
				merged[i].ExperienceYears = exp
			}
			if text, ok := md["text"].(string); ok {
				candidateSkills = candidate.ParseSkills(text)
			}
		}

		merged[i].MatchedSkills = MatchedSkills(terms, candidateSkills)
	}
}

func failedEntry(entry Entry, err error) Entry {
	entry.Status = StatusFailed
	entry.Error = err.Error()
	entry.Matches = []MatchResult{}
	return entry
}
