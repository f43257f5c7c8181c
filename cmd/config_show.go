package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/MohiZzine/rsa-encryption-app/internal/configs"
	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		cfg, err := configs.LoadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load config: %w", err)
		}
		settings := configs.UserRsakitSettings
		out := cmd.OutOrStdout()

		if configShowJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				ConfigFile string          `json:"config_file"`
				DataDir    string          `json:"data_dir"`
				Config     *configs.Config `json:"config"`
			}{settings.ConfigFilePath(), settings.DataPath, cfg})
		}

		source := "defaults"
		if configs.ConfigExists() {
			source = settings.ConfigFilePath()
		}

		fmt.Fprintf(out, "Config:    %s\n", ui.Path.Sprint(source))
		fmt.Fprintf(out, "Data:      %s\n", ui.Path.Sprint(settings.DataPath))
		fmt.Fprintln(out)
		fmt.Fprint(out, ui.Table([]string{"SETTING", "VALUE"}, [][]string{
			{"keys.default_size", fmt.Sprint(cfg.Keys.DefaultSize)},
			{"keys.store", cfg.Keys.Store},
			{"envelope.format", cfg.Envelope.Format},
			{"envelope.key_sizer", cfg.Envelope.KeySizer},
			{"history.disabled", fmt.Sprint(cfg.History.Disabled)},
		}))
		return nil
	},
}
