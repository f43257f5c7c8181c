package cmd

import (
	"fmt"

	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/MohiZzine/rsa-encryption-app/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	generateBits       int
	generateLabel      string
	generatePrintPrivK bool
)

func init() {
	keysGenerateCmd.Flags().IntVarP(&generateBits, "bits", "b", 0, "modulus size in bits (default from config, usually 2048)")
	keysGenerateCmd.Flags().StringVarP(&generateLabel, "label", "l", "", "a human-friendly name for the key")
	keysGenerateCmd.Flags().BoolVar(&generatePrintPrivK, "print-private", false, "also print the private key PEM")
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new RSA key pair",
	Long: `Generates a new RSA key pair and saves it to the key store.

Supported sizes are multiples of 256 from 1024 to 8192 bits.

Examples:
  rsakit keys generate
  rsakit keys generate --bits 4096 --label work`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys generate command")
		ctx, stop := commandContext(cmd)
		defer stop()

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		spinner, cleanup := startSpinner("Generating key pair...")
		defer cleanup()

		result, err := workflows.GenerateKey(ctx, env, workflows.GenerateKeyOptions{
			Bits:  generateBits,
			Label: generateLabel,
		})
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " " + describeError(err)
			return Logger.ErrorfAndReturn("failed to generate key: %w", err)
		}

		kp := result.KeyPair
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, kp.PublicKey)
		if generatePrintPrivK {
			fmt.Fprintln(out, kp.PrivateKey)
		}

		spinner.FinalMSG = fmt.Sprintf("%s Generated %d-bit key %s\n   ID: %s\n   Fingerprint: %s\n   Max bytes per chunk: %d",
			ui.Success.Sprint("✓"), kp.KeySizeBits, ui.KeyRef.Sprint(displayName(kp.Label, kp.ID)),
			kp.ID, ui.Muted.Sprint(result.Fingerprint), result.ChunkLimit)
		return nil
	},
}

// displayName prefers the label and falls back to the short ID.
func displayName(label, id string) string {
	if label != "" {
		return label
	}
	return ui.ShortID(id)
}
