// Package api provides the HTTP API server for candidate search and
// index statistics.
package api

import "time"

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// DefaultTopK is used when a request omits top_k.
	DefaultTopK int

	// MaxConcurrency caps requirements in flight per batch request.
	MaxConcurrency int

	// BatchTimeout bounds one batch run. Zero means no deadline.
	BatchTimeout time.Duration
}
