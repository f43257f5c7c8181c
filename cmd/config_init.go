package cmd

import (
	"fmt"

	"github.com/MohiZzine/rsa-encryption-app/internal/configs"
	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/spf13/cobra"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")
		path := configs.UserRsakitSettings.ConfigFilePath()

		if configs.ConfigExists() && !configInitForce {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Config already exists at %s\n   Use %s to overwrite it.\n",
				ui.Warning.Sprint("⚠"), ui.Path.Sprint(path), ui.Flag.Sprint("--force"))
			return nil
		}

		if err := configs.SaveConfig(configs.DefaultConfig()); err != nil {
			return Logger.ErrorfAndReturn("failed to write config: %w", err)
		}
		Logger.Infof("Wrote default config to %s", path)

		fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", ui.Success.Sprint("✓"), ui.Path.Sprint(path))
		return nil
	},
}
