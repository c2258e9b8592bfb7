// Package crewmatchcmder
package crewmatchcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/crewmatchco/crewmatch/cmd/crewmatch/config"
	ingestcmder "github.com/crewmatchco/crewmatch/cmd/crewmatch/ingest"
	matchcmder "github.com/crewmatchco/crewmatch/cmd/crewmatch/match"
	servecmder "github.com/crewmatchco/crewmatch/cmd/crewmatch/serve"
	versioncmder "github.com/crewmatchco/crewmatch/cmd/version"
)

const crewmatchLongDesc string = `Crewmatch matches job requirements to candidate resumes using
hybrid vector search.

Typical workflow:
  crewmatch ingest     Load candidate resumes and the skills sheet into the indices
  crewmatch match      Run a batch of job requirements against the candidate pool
  crewmatch serve      Run the HTTP API server`

const crewmatchShortDesc string = "Crewmatch - Candidate Matching"

func NewCrewmatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crewmatch",
		Short: crewmatchShortDesc,
		Long:  crewmatchLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Config directory (default: ~/.crewmatch)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(ingestcmder.NewIngestCmd())
	cmd.AddCommand(matchcmder.NewMatchCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
