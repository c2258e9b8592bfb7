// Package matchcmder provides the match command for running requirement
// batches against the candidate pool.
package matchcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crewmatchco/crewmatch/pkg/config"
	"github.com/crewmatchco/crewmatch/pkg/logger"
	"github.com/crewmatchco/crewmatch/pkg/match"
	matchutils "github.com/crewmatchco/crewmatch/pkg/match/utils"
	"github.com/crewmatchco/crewmatch/pkg/profiles"
	"github.com/crewmatchco/crewmatch/pkg/requirement"
	"github.com/crewmatchco/crewmatch/pkg/utils"
)

var (
	rankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type MatchCommander struct {
	reqsPath  string
	topK      int
	workers   int
	jsonOut   bool
	configDir string
	debug     bool
	logger    *zap.Logger
}

const matchLongDesc string = `Run a batch of job requirements against the candidate pool.

Takes a CSV or XLSX file with one row per requirement and runs each one
through hybrid search: the summary against the experience index and the
extracted skills against the skills index. Results come back in input
order; a requirement that fails is reported in place without aborting
the rest of the batch.

Example:
  crewmatch match requirements.csv
  crewmatch match requirements.xlsx --top 5
  crewmatch match requirements.csv --json > results.json`

const matchShortDesc string = "Match job requirements to candidates"

func NewMatchCmd() *cobra.Command {
	cmder := &MatchCommander{}

	cmd := &cobra.Command{
		Use:   "match <requirements-file>",
		Short: matchShortDesc,
		Long:  matchLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.reqsPath = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(cmd.Context())
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().IntVarP(&cmder.topK, "top", "k", defaults.Match.TopK, "Number of candidates per requirement")
	cmd.Flags().IntVarP(&cmder.workers, "concurrency", "c", 0, "Max requirements in flight (default from config)")
	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Output the full batch result as JSON")

	return cmd
}

func (c *MatchCommander) run(ctx context.Context) error {
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

	f, err := os.Open(c.reqsPath)
	if err != nil {
		return fmt.Errorf("opening requirements file: %w", err)
	}
	batch, err := requirement.ParseFile(c.reqsPath, f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parsing requirements: %w", err)
	}
	for _, reject := range batch.Rejects {
		c.logger.Warn("rejected requirement row",
			zap.Int("row", reject.RowIndex),
			zap.Error(reject.Err),
		)
	}
	if len(batch.Records) == 0 {
		return fmt.Errorf("no valid requirements to match (%d rejected)", len(batch.Rejects))
	}

	store, err := profiles.NewStore(cfg.Profiles.SQLitePath)
	if err != nil {
		return fmt.Errorf("opening profile store: %w", err)
	}
	defer store.Close()

	matcher, cleanup, err := matchutils.NewMatcher(ctx, &matchutils.NewMatcherOpts{
		Config: cfg,
		Lookup: store,
		Logger: c.logger,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Match.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Match.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	workers := c.workers
	if workers == 0 {
		workers = cfg.Match.MaxConcurrency
	}

	result, err := matcher.Match(ctx, batch.Records, match.Options{
		TopK:           c.topK,
		MaxConcurrency: workers,
		FetchK:         cfg.Match.FetchK,
	})
	if err != nil {
		return err
	}

	if c.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	c.printResult(result)
	return nil
}

func (c *MatchCommander) printResult(result *match.BatchResult) {
	fmt.Printf("\n%s %d requirements, %d succeeded, %d failed\n\n",
		headerStyle.Render("Batch complete:"),
		len(result.Entries), result.Succeeded, result.Failed,
	)

	for _, entry := range result.Entries {
		req := entry.Requirement
		fmt.Printf("%s %s %s\n",
			headerStyle.Render(req.RequirementID),
			req.JobTitle,
			dimStyle.Render(fmt.Sprintf("(%s, %s)", req.RoleLevel, req.WorkLocation)),
		)
		if req.Summary != "" {
			fmt.Printf("  %s\n", dimStyle.Render(utils.Truncate(req.Summary, 96)))
		}

		if entry.Status != match.StatusOK {
			fmt.Printf("  %s %s\n\n", failStyle.Render(string(entry.Status)+":"), entry.Error)
			continue
		}

		if len(entry.Matches) == 0 {
			fmt.Printf("  %s\n\n", dimStyle.Render("(no matches)"))
			continue
		}

		for i, m := range entry.Matches {
			fmt.Printf("  %s  %s  %s  %s\n",
				rankStyle.Render(fmt.Sprintf("#%d", i+1)),
				idStyle.Render(m.CandidateID),
				m.Name,
				scoreStyle.Render(fmt.Sprintf("score: %.4f", m.CombinedScore)),
			)
			if len(m.MatchedSkills) > 0 {
				fmt.Printf("      %s %s\n",
					dimStyle.Render("skills:"),
					strings.Join(m.MatchedSkills, ", "),
				)
			}
		}
		fmt.Println()
	}
}
