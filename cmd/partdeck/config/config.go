// Package configcmder provides the config command for managing persistent
// partdeck configuration stored in the .partdeck/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent partdeck configuration.

Configuration is stored as config.toml in the .partdeck/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values, and PARTDECK_* environment variables sit between
the two.

Keys use dotted notation matching the TOML section structure:
  agent.target,
  serve.listen, serve.scripts, serve.log_file

Use subcommands to get, set, or list configuration values:
  partdeck config set <key> <value>    Set a configuration value
  partdeck config get <key>            Get a configuration value
  partdeck config list                 List all configuration values

Examples:
  partdeck config set agent.target http://localhost:8001
  partdeck config get agent.target
  partdeck config list`

const configShortDesc string = "Manage persistent partdeck configuration"

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
