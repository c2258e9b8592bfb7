package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/crewmatchco/crewmatch/pkg/eventstream"
	"github.com/crewmatchco/crewmatch/pkg/match"
	"github.com/crewmatchco/crewmatch/pkg/profiles"
	"github.com/crewmatchco/crewmatch/pkg/requirement"
)

// Matcher runs requirement batches against the candidate indices.
type Matcher interface {
	Match(ctx context.Context, reqs []requirement.Record, opts match.Options) (*match.BatchResult, error)
}

// Statser reports aggregate stats over the stored candidate pool.
// Implemented by the profile store.
type Statser interface {
	Stats(ctx context.Context) (*profiles.Stats, error)
}

// ErrorResponse is the JSON body for all error replies.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is the API server for querying the crewmatch system.
type Server struct {
	config    Config
	matcher   Matcher
	statser   Statser
	publisher eventstream.Publisher
	logger    *zap.Logger
	app       *fiber.App
}

// NewServer creates a new API server. The matcher and statser are injected
// to allow sharing with the CLI commands; publisher may be nil.
func NewServer(config Config, matcher Matcher, statser Statser, publisher eventstream.Publisher, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:    config,
		matcher:   matcher,
		statser:   statser,
		publisher: publisher,
		logger:    logger,
		app:       app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/candidates/search", s.handleSearch)
	app.Post("/candidates/bulk", s.handleBulk)
	app.Get("/candidates/stats", s.handleStats)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
