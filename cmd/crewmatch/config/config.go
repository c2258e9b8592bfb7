// Package configcmder provides the config command for managing persistent
// crewmatch configuration stored in the .crewmatch/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent crewmatch configuration.

Configuration is stored as config.toml in the .crewmatch/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  api.listen,
  pinecone.experience_host, pinecone.skills_host, pinecone.namespace,
  embedding.provider, embedding.target, embedding.model,
  skills.provider, skills.model,
  match.top_k, match.max_concurrency, match.fetch_k,
  match.dense_weight, match.sparse_weight, match.timeout_seconds,
  profiles.sqlite_path,
  events.provider, events.brokers, events.topic

Use subcommands to get, set, or list configuration values:
  crewmatch config set <key> <value>    Set a configuration value
  crewmatch config get <key>            Get a configuration value
  crewmatch config list                 List all configuration values

Examples:
  crewmatch config set match.top_k 10
  crewmatch config set embedding.model nomic-embed-text
  crewmatch config get pinecone.namespace
  crewmatch config list`

const configShortDesc string = "Manage persistent crewmatch configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
