package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/MohiZzine/rsa-encryption-app/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	signKeys    keyFlags
	signMessage string
)

func init() {
	signKeys.addPrivate(signCmd)
	signCmd.Flags().StringVarP(&signMessage, "message", "m", "", "message to sign (default: read from stdin)")
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a message with SHA-256",
	Long: `Signs a message and prints a JSON document holding the message, its
SHA-256 hex digest, and the base64 signature.

The signature covers the hex digest, so messages of any length can be
signed.

Examples:
  rsakit sign --key work --message "release v1.2" > release.sig.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting sign command")
		ctx, stop := commandContext(cmd)
		defer stop()

		if signKeys.privateStdin && !cmd.Flags().Changed("message") {
			return fmt.Errorf("--private-key-stdin needs the message passed with --message")
		}
		message, err := readMessage(cmd, signMessage)
		if err != nil {
			return err
		}
		privatePEM, passphrase, err := signKeys.privateKey(cmd)
		if err != nil {
			return err
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := workflows.SignMessage(ctx, env, workflows.SignMessageOptions{
			KeyRef:        signKeys.ref,
			PrivateKeyPEM: privatePEM,
			Passphrase:    passphrase,
			Message:       string(message),
		})
		if err != nil {
			return explain(err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result.Signed)
	},
}
