package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/crewmatchco/crewmatch/pkg/candidate"
	"github.com/crewmatchco/crewmatch/pkg/embeddings"
	"github.com/crewmatchco/crewmatch/pkg/vector"
)

// ProfileWriter persists the canonical candidate rows for later detail
// lookup and stats. Implemented by the profile store; optional.
type ProfileWriter interface {
	Save(ctx context.Context, records []*candidate.Record) error
}

// Config wires the ingestor's collaborators.
type Config struct {
	// Experience is the dense index ("resume-experience").
	Experience vector.Index

	// Skills is the sparse index ("resume-skills").
	Skills vector.Index

	Embedder embeddings.Embedder
	Profiles ProfileWriter
	Logger   *zap.Logger
}

// Ingestor writes candidate records into both indices. Upserts are
// idempotent: re-ingesting an employee ID overwrites in place.
type Ingestor struct {
	config Config
	logger *zap.Logger
}

// NewIngestor creates a candidate ingestor.
func NewIngestor(c Config) (*Ingestor, error) {
	if c.Experience == nil || c.Skills == nil {
		return nil, errors.New("both index handles are required")
	}
	if c.Embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return &Ingestor{config: c, logger: c.Logger}, nil
}

// UpsertBatch writes each record to both indices and the profile store.
// One record's failure never aborts the rest; the report carries per-record
// statuses and aggregate counts.
func (ing *Ingestor) UpsertBatch(ctx context.Context, records []*candidate.Record) *UpsertReport {
	report := &UpsertReport{Records: make([]RecordReport, 0, len(records))}

	var saved []*candidate.Record
	for _, rec := range records {
		rr := ing.upsertOne(ctx, rec)
		report.add(rr)
		if rr.Status != Failed {
			saved = append(saved, rec)
		}
	}

	if ing.config.Profiles != nil && len(saved) > 0 {
		if err := ing.config.Profiles.Save(ctx, saved); err != nil {
			ing.logger.Warn("profile store save failed", zap.Error(err))
		}
	}

	ing.logger.Info("batch upsert complete",
		zap.Int("upserted", report.Upserted),
		zap.Int("partial", report.Partial),
		zap.Int("failed", report.Failed),
	)

	return report
}

// upsertOne writes one record's dense and sparse documents. A half-failed
// write is reported as partial, never silently folded into success or
// total failure.
func (ing *Ingestor) upsertOne(ctx context.Context, rec *candidate.Record) RecordReport {
	rr := RecordReport{EmployeeID: rec.EmployeeID}

	denseErr := ing.upsertDense(ctx, rec)
	sparseErr := ing.upsertSparse(ctx, rec)

	switch {
	case denseErr == nil && sparseErr == nil:
		rr.Status = Upserted
	case denseErr != nil && sparseErr != nil:
		rr.Status = Failed
		rr.Error = fmt.Sprintf("%s: %v; %s: %v",
			ing.config.Experience.Name(), denseErr,
			ing.config.Skills.Name(), sparseErr)
	case denseErr != nil:
		rr.Status = PartiallyUpserted
		rr.FailedIndex = ing.config.Experience.Name()
		rr.Error = denseErr.Error()
	default:
		rr.Status = PartiallyUpserted
		rr.FailedIndex = ing.config.Skills.Name()
		rr.Error = sparseErr.Error()
	}

	if rr.Status != Upserted {
		ing.logger.Warn("record upsert incomplete",
			zap.String("employee_id", rec.EmployeeID),
			zap.String("status", string(rr.Status)),
			zap.String("error", rr.Error),
		)
	}

	return rr
}

func (ing *Ingestor) upsertDense(ctx context.Context, rec *candidate.Record) error {
	text := rec.ProjectExperience
	if text == "" {
		// No project-experience section in the resume; the role plus
		// skill text still gives the dense index something to anchor on.
		text = rec.CurrentRole + ". " + rec.SkillsText()
	}

	embedding, err := ing.config.Embedder.EmbedDense(ctx, text)
	if err != nil {
		return fmt.Errorf("embedding experience text: %w", err)
	}

	return ing.config.Experience.Upsert(ctx, []vector.Document{{
		ID:       rec.EmployeeID,
		Dense:    embedding,
		Metadata: metadata(rec, text),
	}})
}

func (ing *Ingestor) upsertSparse(ctx context.Context, rec *candidate.Record) error {
	text := rec.SkillsText()

	embedding, err := ing.config.Embedder.EmbedSparse(ctx, text)
	if err != nil {
		return fmt.Errorf("embedding skills text: %w", err)
	}

	return ing.config.Skills.Upsert(ctx, []vector.Document{{
		ID:       rec.EmployeeID,
		Sparse:   embedding,
		Metadata: metadata(rec, text),
	}})
}

// metadata builds the full metadata payload attached to both vectors.
func metadata(rec *candidate.Record, text string) map[string]any {
	return map[string]any{
		"name":         rec.Name,
		"location":     strings.ToLower(rec.Location),
		"experience":   rec.ExperienceYears,
		"current_role": rec.CurrentRole,
		"text":         text,
	}
}
