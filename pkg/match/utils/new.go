// Package matchutils constructs the matching engine from configuration.
package matchutils

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crewmatchco/crewmatch/pkg/config"
	embeddingutils "github.com/crewmatchco/crewmatch/pkg/embeddings/utils"
	"github.com/crewmatchco/crewmatch/pkg/match"
	"github.com/crewmatchco/crewmatch/pkg/skills"
	"github.com/crewmatchco/crewmatch/pkg/skills/gemini"
	vectorutils "github.com/crewmatchco/crewmatch/pkg/vector/utils"
)

// indexTimeout bounds individual index HTTP calls.
const indexTimeout = 30 * time.Second

type NewMatcherOpts struct {
	Config *config.Config
	Lookup match.CandidateLookup
	Logger *zap.Logger
}

// NewMatcher wires the two index handles, the hybrid embedder, and the
// skill extractor into a matcher. The returned cleanup closes the index
// and embedder handles.
func NewMatcher(ctx context.Context, o *NewMatcherOpts) (*match.Matcher, func(), error) {
	cfg := o.Config

	experience, err := vectorutils.NewIndex(&vectorutils.NewIndexOpts{
		ProviderType: "pinecone",
		Host:         cfg.Pinecone.ExperienceHost,
		APIKey:       cfg.Pinecone.APIKey,
		IndexName:    "resume-experience",
		Namespace:    cfg.Pinecone.Namespace,
		Timeout:      indexTimeout,
		Logger:       o.Logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating experience index: %w", err)
	}

	skillsIdx, err := vectorutils.NewIndex(&vectorutils.NewIndexOpts{
		ProviderType: "pinecone",
		Host:         cfg.Pinecone.SkillsHost,
		APIKey:       cfg.Pinecone.APIKey,
		IndexName:    "resume-skills",
		Namespace:    cfg.Pinecone.Namespace,
		Timeout:      indexTimeout,
		Logger:       o.Logger,
	})
	if err != nil {
		experience.Close()
		return nil, nil, fmt.Errorf("creating skills index: %w", err)
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType:    cfg.Embedding.Provider,
		TargetURL:       cfg.Embedding.Target,
		Model:           cfg.Embedding.Model,
		SparseDimension: cfg.Embedding.SparseDimension,
	})
	if err != nil {
		experience.Close()
		skillsIdx.Close()
		return nil, nil, fmt.Errorf("creating embedder: %w", err)
	}

	extractor, err := newExtractor(ctx, cfg)
	if err != nil {
		experience.Close()
		skillsIdx.Close()
		embedder.Close()
		return nil, nil, err
	}

	matcher, err := match.NewMatcher(match.Config{
		Experience:   experience,
		Skills:       skillsIdx,
		Embedder:     embedder,
		Extractor:    extractor,
		Lookup:       o.Lookup,
		Logger:       o.Logger,
		DenseWeight:  cfg.Match.DenseWeight,
		SparseWeight: cfg.Match.SparseWeight,
	})
	if err != nil {
		experience.Close()
		skillsIdx.Close()
		embedder.Close()
		return nil, nil, err
	}

	cleanup := func() {
		experience.Close()
		skillsIdx.Close()
		embedder.Close()
	}
	return matcher, cleanup, nil
}

func newExtractor(ctx context.Context, cfg *config.Config) (skills.Extractor, error) {
	switch cfg.Skills.Provider {
	case "gemini":
		extractor, err := gemini.NewExtractor(ctx, cfg.Skills.GeminiAPIKey, cfg.Skills.Model)
		if err != nil {
			return nil, fmt.Errorf("creating gemini extractor: %w", err)
		}
		return extractor, nil
	case "keyword":
		return skills.NewKeywordExtractor(), nil
	default:
		return nil, fmt.Errorf("unsupported skills provider: %s", cfg.Skills.Provider)
	}
}
