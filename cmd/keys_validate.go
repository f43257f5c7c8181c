package cmd

import (
	"fmt"

	"github.com/MohiZzine/rsa-encryption-app/internal/rsacrypt"
	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/MohiZzine/rsa-encryption-app/internal/utils"
	"github.com/MohiZzine/rsa-encryption-app/internal/workflows"
	"github.com/spf13/cobra"
)

var validateKind string

func init() {
	keysValidateCmd.Flags().StringVar(&validateKind, "kind", "public", "expected key kind: public or private")
}

var keysValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check that a key has the expected PEM armor",
	Long: `Checks whether a key file (or stdin) carries the PEM armor rsakit expects
for the given kind, and whether the key actually parses.

Exits with an error when the key is not valid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys validate command")
		ctx, stop := commandContext(cmd)
		defer stop()

		kind, err := rsacrypt.ParseKeyKind(validateKind)
		if err != nil {
			return err
		}

		var text string
		if len(args) == 1 {
			text, err = readKeyFile(args[0])
		} else {
			var data []byte
			data, err = utils.ReadInput(cmd.InOrStdin(), "pass a key file or pipe a key to this command")
			text = string(data)
		}
		if err != nil {
			return err
		}

		result, err := workflows.ValidateKey(ctx, workflows.ValidateKeyOptions{Text: text, Kind: kind})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s key armor\n", ui.Mark(result.FormatValid), kind)
		fmt.Fprintf(out, "%s parses as RSA", ui.Mark(result.Parses))
		if result.KeySizeBits > 0 {
			fmt.Fprintf(out, " %s", ui.Muted.Sprintf("%d bits", result.KeySizeBits))
		}
		fmt.Fprintln(out)

		if !result.FormatValid || !result.Parses {
			return fmt.Errorf("not a valid %s key", kind)
		}
		return nil
	},
}
