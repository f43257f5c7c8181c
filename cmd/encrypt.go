package cmd

import (
	"fmt"

	"github.com/MohiZzine/rsa-encryption-app/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	encryptKeys    keyFlags
	encryptMessage string
)

func init() {
	encryptKeys.addPublic(encryptCmd)
	encryptCmd.Flags().StringVarP(&encryptMessage, "message", "m", "", "message to encrypt (default: read from stdin)")
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt a message of any length",
	Long: `Encrypts a message with a public key and prints the envelope.

Messages longer than one RSA block are split into chunks. Each chunk is
encrypted separately with PKCS#1 v1.5 padding and the envelope carries
them all.

Examples:
  rsakit encrypt --key work --message "hello"
  cat notes.txt | rsakit encrypt --public-key alice.pem > notes.enc`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")
		ctx, stop := commandContext(cmd)
		defer stop()

		message, err := readMessage(cmd, encryptMessage)
		if err != nil {
			return err
		}
		publicPEM, err := encryptKeys.publicKeyPEM()
		if err != nil {
			return err
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		_, cleanup := startSpinner("Encrypting message...")
		result, err := workflows.EncryptMessage(ctx, env, workflows.EncryptMessageOptions{
			KeyRef:       encryptKeys.ref,
			PublicKeyPEM: publicPEM,
			Message:      message,
		})
		cleanup()
		if err != nil {
			return explain(err)
		}

		Logger.Infof("Encrypted %d bytes into %d chunk(s) of at most %d bytes", len(message), result.Envelope.Len(), result.ChunkLimit)
		fmt.Fprintln(cmd.OutOrStdout(), result.Text)
		return nil
	},
}
