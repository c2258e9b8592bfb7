// Package vectorutils constructs vector index drivers from configuration.
package vectorutils

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crewmatchco/crewmatch/pkg/vector"
	"github.com/crewmatchco/crewmatch/pkg/vector/pinecone"
)

type NewIndexOpts struct {
	ProviderType string
	Host         string
	APIKey       string
	IndexName    string
	Namespace    string
	Timeout      time.Duration
	Logger       *zap.Logger
}

func NewIndex(o *NewIndexOpts) (vector.Index, error) {
	switch o.ProviderType {
	case "pinecone":
		return pinecone.NewDriver(pinecone.Config{
			Host:      o.Host,
			APIKey:    o.APIKey,
			IndexName: o.IndexName,
			Namespace: o.Namespace,
			Timeout:   o.Timeout,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector index provider: %s", o.ProviderType)
	}
}
