// Package ingestcmder provides the ingest command for loading candidate
// resumes and the skills sheet into the indices.
package ingestcmder

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crewmatchco/crewmatch/pkg/candidate"
	"github.com/crewmatchco/crewmatch/pkg/cliui"
	"github.com/crewmatchco/crewmatch/pkg/config"
	embeddingutils "github.com/crewmatchco/crewmatch/pkg/embeddings/utils"
	"github.com/crewmatchco/crewmatch/pkg/ingest"
	"github.com/crewmatchco/crewmatch/pkg/logger"
	"github.com/crewmatchco/crewmatch/pkg/profiles"
	"github.com/crewmatchco/crewmatch/pkg/resume"
	vectorutils "github.com/crewmatchco/crewmatch/pkg/vector/utils"
)

const indexTimeout = 30 * time.Second

type IngestCommander struct {
	resumesPath string
	sheetPath   string
	configDir   string
	debug       bool
	logger      *zap.Logger
}

const ingestLongDesc string = `Ingest candidate resumes and the skills sheet into the indices.

Takes a ZIP archive of resume PDFs (named EMP-XXXX_Name.pdf) and a
CSV or XLSX sheet with one row per candidate. Each candidate's project
experience is embedded into the experience index and their skills into
the skills index; the canonical profile rows go into the local SQLite
store for result enrichment.

Re-running ingest with the same inputs is safe: re-upserting an
existing employee ID overwrites its vectors and metadata in place.

Example:
  crewmatch ingest --resumes resumes.zip --sheet candidates.csv`

const ingestShortDesc string = "Ingest candidate resumes and skills"

func NewIngestCmd() *cobra.Command {
	cmder := &IngestCommander{}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: ingestShortDesc,
		Long:  ingestLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&cmder.resumesPath, "resumes", "r", "", "Path to ZIP archive of resume PDFs")
	cmd.Flags().StringVarP(&cmder.sheetPath, "sheet", "s", "", "Path to candidate sheet (CSV or XLSX)")
	cmd.MarkFlagRequired("resumes")
	cmd.MarkFlagRequired("sheet")

	return cmd
}

func (c *IngestCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return err
	}
	cfg := config.FromViper(v)
	if err := cfg.Validate(true); err != nil {
		return err
	}

	var rows []candidate.Row
	err = cliui.Step(os.Stdout, "Parsing candidate sheet", func() error {
		f, err := os.Open(c.sheetPath)
		if err != nil {
			return err
		}
		defer f.Close()

		rows, err = candidate.ParseSheet(c.sheetPath, f)
		return err
	})
	if err != nil {
		return fmt.Errorf("parsing sheet: %w", err)
	}

	var archive *resume.ArchiveResult
	err = cliui.Step(os.Stdout, "Extracting resume archive", func() error {
		archive, err = resume.ReadArchive(c.resumesPath)
		return err
	})
	if err != nil {
		return fmt.Errorf("reading resumes: %w", err)
	}
	for _, skipped := range archive.Skipped {
		c.logger.Warn("skipped archive entry", zap.String("entry", skipped))
	}

	records, rejects := candidate.NewBuilder().BuildAll(rows, archive.Texts)
	for _, reject := range rejects {
		c.logger.Warn("rejected candidate row",
			zap.Int("row", reject.RowIndex),
			zap.Error(reject.Err),
		)
	}
	if len(records) == 0 {
		return fmt.Errorf("no valid candidate records to ingest (%d rejected)", len(rejects))
	}

	ingestor, cleanup, err := c.newIngestor(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var report *ingest.UpsertReport
	err = cliui.Step(os.Stdout, fmt.Sprintf("Upserting %d candidates", len(records)), func() error {
		report = ingestor.UpsertBatch(ctx, records)
		return nil
	})
	if err != nil {
		return err
	}

	c.printReport(report, len(rejects))
	return nil
}

func (c *IngestCommander) newIngestor(cfg *config.Config) (*ingest.Ingestor, func(), error) {
	experience, err := vectorutils.NewIndex(&vectorutils.NewIndexOpts{
		ProviderType: "pinecone",
		Host:         cfg.Pinecone.ExperienceHost,
		APIKey:       cfg.Pinecone.APIKey,
		IndexName:    "resume-experience",
		Namespace:    cfg.Pinecone.Namespace,
		Timeout:      indexTimeout,
		Logger:       c.logger,
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
		Logger:       c.logger,
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

	store, err := profiles.NewStore(cfg.Profiles.SQLitePath)
	if err != nil {
		experience.Close()
		skillsIdx.Close()
		embedder.Close()
		return nil, nil, fmt.Errorf("opening profile store: %w", err)
	}

	ingestor, err := ingest.NewIngestor(ingest.Config{
		Experience: experience,
		Skills:     skillsIdx,
		Embedder:   embedder,
		Profiles:   store,
		Logger:     c.logger,
	})
	if err != nil {
		experience.Close()
		skillsIdx.Close()
		embedder.Close()
		store.Close()
		return nil, nil, err
	}

	cleanup := func() {
		experience.Close()
		skillsIdx.Close()
		embedder.Close()
		store.Close()
	}
	return ingestor, cleanup, nil
}

func (c *IngestCommander) printReport(report *ingest.UpsertReport, rejected int) {
	fmt.Printf("\n  %s upserted: %d  partial: %d  failed: %d  rejected rows: %d\n\n",
		cliui.HeaderStyle.Render("Ingest complete:"),
		report.Upserted, report.Partial, report.Failed, rejected,
	)

	for _, rr := range report.Records {
		if rr.Status == ingest.Upserted {
			continue
		}
		fmt.Printf("  %s %s: %s (%s)\n",
			cliui.FailMark,
			rr.EmployeeID,
			rr.Status,
			rr.Error,
		)
	}
}
