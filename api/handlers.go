package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crewmatchco/crewmatch/pkg/eventstream"
	"github.com/crewmatchco/crewmatch/pkg/match"
	"github.com/crewmatchco/crewmatch/pkg/requirement"
)

// RequirementRequest is one job requirement in a search or bulk request.
type RequirementRequest struct {
	RequirementID string `json:"requirement_id"`
	JobTitle      string `json:"job_title"`
	RoleLevel     string `json:"role_level"`
	Industry      string `json:"industry"`
	WorkLocation  string `json:"work_location"`
	Summary       string `json:"summary"`
}

func (r RequirementRequest) toRecord() requirement.Record {
	id := r.RequirementID
	if id == "" {
		id = uuid.NewString()
	}
	return requirement.Record{
		RequirementID: id,
		JobTitle:      r.JobTitle,
		RoleLevel:     r.RoleLevel,
		Industry:      r.Industry,
		WorkLocation:  r.WorkLocation,
		Summary:       r.Summary,
	}
}

// SearchRequest is the body of POST /candidates/search.
type SearchRequest struct {
	RequirementRequest
	TopK int `json:"top_k"`
}

// BulkRequest is the body of POST /candidates/bulk.
type BulkRequest struct {
	Requirements   []RequirementRequest `json:"requirements"`
	TopK           int                  `json:"top_k"`
	MaxConcurrency int                  `json:"max_concurrency"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleSearch runs a single requirement and returns its entry directly.
func (s *Server) handleSearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body",
		})
	}
	if req.Summary == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "summary is required",
		})
	}

	topK := req.TopK
	if topK == 0 {
		topK = s.config.DefaultTopK
	}
	if topK < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "top_k must be a positive integer",
		})
	}

	ctx, cancel := s.batchContext(c.Context())
	defer cancel()

	result, err := s.matcher.Match(ctx, []requirement.Record{req.toRecord()}, match.Options{
		TopK:           topK,
		MaxConcurrency: 1,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(result.Entries[0])
}

// handleBulk runs a requirement batch and returns the full batch result.
func (s *Server) handleBulk(c *fiber.Ctx) error {
	var req BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body",
		})
	}
	if len(req.Requirements) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "requirements must not be empty",
		})
	}

	reqs := make([]requirement.Record, len(req.Requirements))
	for i, r := range req.Requirements {
		if r.Summary == "" {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: fmt.Sprintf("requirements[%d]: summary is required", i),
			})
		}
		reqs[i] = r.toRecord()
	}

	topK := req.TopK
	if topK == 0 {
		topK = s.config.DefaultTopK
	}
	if topK < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "top_k must be a positive integer",
		})
	}

	maxConc := req.MaxConcurrency
	if maxConc == 0 {
		maxConc = s.config.MaxConcurrency
	}

	ctx, cancel := s.batchContext(c.Context())
	defer cancel()

	start := time.Now()
	result, err := s.matcher.Match(ctx, reqs, match.Options{
		TopK:           topK,
		MaxConcurrency: maxConc,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	s.publishBatchCompleted(c.Context(), result, topK, time.Since(start))

	return c.JSON(result)
}

// handleStats returns aggregate stats over the stored candidate pool.
func (s *Server) handleStats(c *fiber.Ctx) error {
	if s.statser == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "stats are not configured: profile store is required",
		})
	}

	stats, err := s.statser.Stats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to compute stats",
		})
	}

	return c.JSON(stats)
}

// batchContext applies the configured batch deadline, when set.
func (s *Server) batchContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.config.BatchTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, s.config.BatchTimeout)
}

// publishBatchCompleted emits the batch-completed event. Failures are
// logged, never surfaced to the caller.
func (s *Server) publishBatchCompleted(ctx context.Context, result *match.BatchResult, topK int, elapsed time.Duration) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.PublishBatchCompleted(ctx, &eventstream.BatchCompletedEvent{
		Requirements: len(result.Entries),
		Succeeded:    result.Succeeded,
		Failed:       result.Failed,
		TopK:         topK,
		DurationMs:   elapsed.Milliseconds(),
	})
	if err != nil {
		s.logger.Warn("failed to publish batch event", zap.Error(err))
	}
}
