// Package servecmder provides the serve command for running the API server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crewmatchco/crewmatch/api"
	"github.com/crewmatchco/crewmatch/pkg/config"
	"github.com/crewmatchco/crewmatch/pkg/eventstream"
	"github.com/crewmatchco/crewmatch/pkg/eventstream/kafka"
	"github.com/crewmatchco/crewmatch/pkg/eventstream/nop"
	"github.com/crewmatchco/crewmatch/pkg/logger"
	matchutils "github.com/crewmatchco/crewmatch/pkg/match/utils"
	"github.com/crewmatchco/crewmatch/pkg/profiles"
)

type ServeCommander struct {
	listen    string
	configDir string
	debug     bool
	logger    *zap.Logger
}

const serveLongDesc string = `Run the crewmatch HTTP API server.

The server exposes candidate search over the resume indices:
  GET  /ping               Health check
  POST /candidates/search  Match a single job requirement
  POST /candidates/bulk    Match a batch of job requirements
  GET  /candidates/stats   Aggregate stats over the candidate pool

Configuration is read from config.toml in the .crewmatch/ directory and
CREWMATCH_* environment variables. The Pinecone API key and both index
hosts must be configured.`

const serveShortDesc string = "Run the crewmatch API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address for API server to listen on (default from config)")

	return cmd
}

func (c *ServeCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return err
	}
	cfg := config.FromViper(v)
	if c.listen != "" {
		cfg.API.Listen = c.listen
	}
	if err := cfg.Validate(true); err != nil {
		return err
	}

	store, err := profiles.NewStore(cfg.Profiles.SQLitePath)
	if err != nil {
		return fmt.Errorf("opening profile store: %w", err)
	}
	defer store.Close()

	publisher, err := c.newPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	matcher, cleanup, err := matchutils.NewMatcher(cmd.Context(), &matchutils.NewMatcherOpts{
		Config: cfg,
		Lookup: store,
		Logger: c.logger,
	})
	if err != nil {
		return err
	}
	defer cleanup()

	server := api.NewServer(api.Config{
		ListenAddr:     cfg.API.Listen,
		DefaultTopK:    cfg.Match.TopK,
		MaxConcurrency: cfg.Match.MaxConcurrency,
		BatchTimeout:   time.Duration(cfg.Match.TimeoutSeconds) * time.Second,
	}, matcher, store, publisher, c.logger)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		done := make(chan struct{})
		go func() {
			server.Shutdown()
			close(done)
		}()
		select {
		case <-done:
		case <-shutdownCtx.Done():
			c.logger.Warn("shutdown timed out")
		}
		return nil
	}
}

func (c *ServeCommander) newPublisher(cfg *config.Config) (eventstream.Publisher, error) {
	if cfg.Events.Provider == "kafka" {
		publisher, err := kafka.NewPublisher(kafka.Config{
			Brokers: cfg.Events.Brokers,
			Topic:   cfg.Events.Topic,
		})
		if err != nil {
			return nil, fmt.Errorf("creating kafka publisher: %w", err)
		}
		c.logger.Info("publishing batch events to kafka",
			zap.Strings("brokers", cfg.Events.Brokers),
		)
		return publisher, nil
	}

	return nop.NewPublisher(), nil
}
