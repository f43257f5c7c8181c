package cmd

import (
	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/MohiZzine/rsa-encryption-app/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	decryptFileKeys   keyFlags
	decryptFileOutDir string
	decryptFileDryRun bool
)

func init() {
	decryptFileCmd.Flags().StringVarP(&decryptFileKeys.ref, "key", "k", "", "stored key ID, ID prefix, or label")
	decryptFileCmd.Flags().StringVar(&decryptFileKeys.privateKeyFile, "private-key", "", "path to a private key (PKCS#1, PKCS#8 or OpenSSH)")
	decryptFileCmd.MarkFlagsMutuallyExclusive("key", "private-key")
	decryptFileCmd.Flags().StringVarP(&decryptFileOutDir, "out-dir", "o", "", "restore files here instead of next to each .rsa file")
	decryptFileCmd.Flags().BoolVar(&decryptFileDryRun, "dry-run", false, "preview which files would be decrypted without writing them")
}

var decryptFileCmd = &cobra.Command{
	Use:   "decrypt-file <path|glob>...",
	Short: "Restore files encrypted with encrypt-file",
	Long: `Decrypts .rsa files and restores each one under the name recorded when it
was encrypted. Restored names are reduced to a base name, so a payload can
never write outside the output directory.

Examples:
  rsakit decrypt-file --key work report.pdf.rsa
  rsakit decrypt-file --key work vault/ --out-dir restored`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt-file command")
		ctx, stop := commandContext(cmd)
		defer stop()

		privatePEM, passphrase, err := decryptFileKeys.privateKey(cmd)
		if err != nil {
			return err
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		spinner, cleanup := startSpinner("Decrypting files...")
		defer cleanup()

		result, err := workflows.DecryptFiles(ctx, env, workflows.DecryptFilesOptions{
			KeyRef:        decryptFileKeys.ref,
			PrivateKeyPEM: privatePEM,
			Passphrase:    passphrase,
			Patterns:      args,
			OutDir:        decryptFileOutDir,
			DryRun:        decryptFileDryRun,
		})
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " " + describeError(err)
			if result != nil && len(result.Files) > 0 {
				spinner.FinalMSG += "\nFiles written before the failure:" + writtenPaths(result.Files)
			}
			return Logger.ErrorfAndReturn("failed to decrypt files: %w", err)
		}

		spinner.FinalMSG = formatFileResults(result.Files, result.DryRun, "Decrypted")
		return nil
	},
}
