package cmd

import (
	"fmt"
	"strconv"

	"github.com/MohiZzine/rsa-encryption-app/internal/configs"
	kerrors "github.com/MohiZzine/rsa-encryption-app/internal/errors"
	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/spf13/cobra"
)

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one configuration setting",
	Long: `Changes one setting and saves the config file.

Settings:
  keys.default_size    1024..8192, a multiple of 256
  keys.store           toml or sqlite
  envelope.format      tagged or legacy
  envelope.key_sizer   estimate or modulus
  history.disabled     true or false

Examples:
  rsakit config set keys.store sqlite
  rsakit config set envelope.key_sizer modulus`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config set command")

		cfg, err := configs.LoadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load config: %w", err)
		}
		if err := applySetting(cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := configs.SaveConfig(cfg); err != nil {
			return Logger.ErrorfAndReturn("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s Set %s = %s\n", ui.Success.Sprint("✓"), ui.Code.Sprint(args[0]), args[1])
		return nil
	},
}

func applySetting(cfg *configs.Config, key, value string) error {
	switch key {
	case "keys.default_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: keys.default_size must be a number", kerrors.ErrInvalidConfig)
		}
		cfg.Keys.DefaultSize = n
	case "keys.store":
		cfg.Keys.Store = value
	case "envelope.format":
		cfg.Envelope.Format = value
	case "envelope.key_sizer":
		cfg.Envelope.KeySizer = value
	case "history.disabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: history.disabled must be true or false", kerrors.ErrInvalidConfig)
		}
		cfg.History.Disabled = b
	default:
		return fmt.Errorf("%w: unknown setting %q", kerrors.ErrInvalidConfig, key)
	}
	return nil
}
