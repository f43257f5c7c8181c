package cmd

import (
	"fmt"

	"github.com/MohiZzine/rsa-encryption-app/internal/configs"
	logger "github.com/MohiZzine/rsa-encryption-app/internal/logging"
	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "rsakit",
		Short: "rsakit - RSA key generation, chunked encryption, and signing",
		Long: `rsakit generates RSA key pairs and uses them to encrypt messages and whole
files of any length, and to sign and verify messages.

Messages longer than one RSA block are split into chunks, each encrypted
separately, and carried in a single envelope. Files are wrapped in a JSON
payload that remembers their name and type before encryption.

Usage:
  rsakit <command> [flags]

Run 'rsakit help <command>' for more details on a specific command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
			Logger.Debugf("Data directory: %s", configs.UserRsakitSettings.DataPath)
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			banner := figure.NewColorFigure("rsakit", "standard", "green", true)
			fmt.Fprint(out, banner.ColorString())
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s Run %s to see available commands.\n", ui.Info.Sprint("→"), ui.Code.Sprint("rsakit --help"))
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(KeysCmd)
	RootCmd.AddCommand(encryptCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(encryptFileCmd)
	RootCmd.AddCommand(decryptFileCmd)
	RootCmd.AddCommand(signCmd)
	RootCmd.AddCommand(verifyCmd)
	RootCmd.AddCommand(historyCmd)
	RootCmd.AddCommand(ConfigCmd)
}

// ResetGlobalState resets flags and their bound variables for testing.
func ResetGlobalState() {
	resetCommandFlags(RootCmd)
	verbose = false
	debug = false
	Logger = logger.Logger{}
}

// resetCommandFlags restores every flag in the tree to its default value.
func resetCommandFlags(c *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetCommandFlags(sub)
	}
}
