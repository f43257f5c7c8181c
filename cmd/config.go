package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configSetCmd)
}

// ConfigCmd groups the configuration commands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage rsakit configuration",
	Long: `Create, view, and change the rsakit configuration.

The configuration lives in config.toml under the rsakit config directory,
or under $RSAKIT_HOME when that variable is set.`,
}
