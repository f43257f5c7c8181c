package cmd

import (
	"fmt"
	"strings"

	"github.com/MohiZzine/rsa-encryption-app/internal/utils"
	"github.com/MohiZzine/rsa-encryption-app/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	decryptKeys   keyFlags
	decryptInput  string
	decryptNoNewl bool
)

func init() {
	decryptKeys.addPrivate(decryptCmd)
	decryptCmd.Flags().StringVarP(&decryptInput, "input", "i", "", "envelope to decrypt (default: read from stdin)")
	decryptCmd.Flags().BoolVarP(&decryptNoNewl, "no-newline", "n", false, "do not print a trailing newline")
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt an envelope produced by encrypt",
	Long: `Decrypts an envelope with a private key and prints the plaintext.

Both the tagged envelope format and the older untagged form are accepted.

Examples:
  rsakit decrypt --key work < notes.enc
  rsakit decrypt --private-key ~/.ssh/id_rsa --input ".SGVsbG8..."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")
		ctx, stop := commandContext(cmd)
		defer stop()

		if decryptKeys.privateStdin && !cmd.Flags().Changed("input") {
			return fmt.Errorf("--private-key-stdin needs the envelope passed with --input")
		}

		envelopeText := decryptInput
		if !cmd.Flags().Changed("input") {
			data, err := utils.ReadInput(cmd.InOrStdin(), "pass --input or pipe the envelope to this command")
			if err != nil {
				return err
			}
			envelopeText = string(data)
		}

		privatePEM, passphrase, err := decryptKeys.privateKey(cmd)
		if err != nil {
			return err
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		_, cleanup := startSpinner("Decrypting envelope...")
		result, err := workflows.DecryptMessage(ctx, env, workflows.DecryptMessageOptions{
			KeyRef:        decryptKeys.ref,
			PrivateKeyPEM: privatePEM,
			Passphrase:    passphrase,
			EnvelopeText:  strings.TrimSpace(envelopeText),
		})
		cleanup()
		if err != nil {
			return explain(err)
		}

		Logger.Infof("Decrypted %d chunk(s) into %d bytes", result.Chunks, len(result.Plaintext))
		out := cmd.OutOrStdout()
		if _, err := out.Write(result.Plaintext); err != nil {
			return err
		}
		if !decryptNoNewl {
			fmt.Fprintln(out)
		}
		return nil
	},
}
