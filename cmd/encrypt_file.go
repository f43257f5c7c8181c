package cmd

import (
	"fmt"
	"strings"

	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/MohiZzine/rsa-encryption-app/internal/utils"
	"github.com/MohiZzine/rsa-encryption-app/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	encryptFileKeys   keyFlags
	encryptFileOutDir string
	encryptFileDryRun bool
)

func init() {
	encryptFileKeys.addPublic(encryptFileCmd)
	encryptFileCmd.Flags().StringVarP(&encryptFileOutDir, "out-dir", "o", "", "write .rsa files here instead of next to each source")
	encryptFileCmd.Flags().BoolVar(&encryptFileDryRun, "dry-run", false, "preview which files would be encrypted without writing them")
}

var encryptFileCmd = &cobra.Command{
	Use:   "encrypt-file <path|glob>...",
	Short: "Encrypt files of any type",
	Long: `Encrypts files with a public key. Each file is wrapped in a JSON payload
recording its name and type, encrypted in chunks, and written as <name>.rsa
with mode 0600. The source file is left untouched.

Arguments may be files, directories (searched recursively, skipping hidden
directories), or glob patterns such as "docs/**/*.pdf".

Examples:
  rsakit encrypt-file --key work report.pdf
  rsakit encrypt-file --key work "photos/*.jpg" --out-dir vault
  rsakit encrypt-file --public-key alice.pem docs/ --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt-file command")
		ctx, stop := commandContext(cmd)
		defer stop()

		publicPEM, err := encryptFileKeys.publicKeyPEM()
		if err != nil {
			return err
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		spinner, cleanup := startSpinner("Encrypting files...")
		defer cleanup()

		result, err := workflows.EncryptFiles(ctx, env, workflows.EncryptFilesOptions{
			KeyRef:       encryptFileKeys.ref,
			PublicKeyPEM: publicPEM,
			Patterns:     args,
			OutDir:       encryptFileOutDir,
			DryRun:       encryptFileDryRun,
		})
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " " + describeError(err)
			if result != nil && len(result.Files) > 0 {
				spinner.FinalMSG += "\nFiles written before the failure:" + writtenPaths(result.Files)
			}
			return Logger.ErrorfAndReturn("failed to encrypt files: %w", err)
		}

		spinner.FinalMSG = formatFileResults(result.Files, result.DryRun, "Encrypted")
		return nil
	},
}

// writtenPaths lists the outputs of files that completed.
func writtenPaths(files []workflows.FileResult) string {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Output)
	}
	return utils.FormatPaths(paths)
}

// formatFileResults renders one line per file and a summary line.
func formatFileResults(files []workflows.FileResult, dryRun bool, verb string) string {
	var b strings.Builder
	if dryRun {
		fmt.Fprintf(&b, "%s Dry run: %d file(s) would be written\n", ui.Warning.Sprint("[dry-run]"), len(files))
		for _, f := range files {
			fmt.Fprintf(&b, "  %s → %s\n", ui.Path.Sprint(f.Source), ui.Path.Sprint(f.Output))
		}
		b.WriteString(ui.Muted.Sprint("No changes made.") + "\n")
		return b.String()
	}

	if len(files) == 0 {
		return ""
	}
	for _, f := range files {
		detail := fmt.Sprintf("%s, %d chunk(s)", ui.FormatBytes(f.Bytes), f.Chunks)
		if f.MimeType != "" {
			detail = f.MimeType + ", " + detail
		}
		fmt.Fprintf(&b, "  %s %s → %s %s\n", ui.Success.Sprint("✓"), ui.Path.Sprint(f.Source),
			ui.Path.Sprint(f.Output), ui.Muted.Sprint(detail))
	}
	fmt.Fprintf(&b, "%s %s %d file(s)\n", ui.Success.Sprint("✓"), verb, len(files))
	return b.String()
}
