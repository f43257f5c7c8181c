package cmd

import (
	"fmt"

	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/MohiZzine/rsa-encryption-app/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	importKeys  keyFlags
	importLabel string
)

func init() {
	keysImportCmd.Flags().StringVar(&importKeys.publicKeyFile, "public-key", "", "path to a PEM public key")
	keysImportCmd.Flags().StringVar(&importKeys.privateKeyFile, "private-key", "", "path to a private key (PKCS#1, PKCS#8 or OpenSSH)")
	keysImportCmd.Flags().BoolVar(&importKeys.privateStdin, "private-key-stdin", false, "read the private key from stdin")
	keysImportCmd.Flags().StringVarP(&importLabel, "label", "l", "", "a human-friendly name for the key")
	keysImportCmd.MarkFlagsMutuallyExclusive("private-key", "private-key-stdin")
	keysImportCmd.MarkFlagsOneRequired("public-key", "private-key", "private-key-stdin")
}

var keysImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an existing key into the key store",
	Long: `Imports an existing RSA key.

A private key may be PKCS#1, PKCS#8 or OpenSSH. Passphrase-protected OpenSSH
keys prompt for the passphrase. The public half is derived from the private
key; when a public key is given too, the two must match.

A public key on its own can be imported to encrypt and verify.

Examples:
  rsakit keys import --private-key ~/.ssh/id_rsa --label laptop
  rsakit keys import --public-key alice.pem --label alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys import command")
		ctx, stop := commandContext(cmd)
		defer stop()

		publicPEM, err := importKeys.publicKeyPEM()
		if err != nil {
			return err
		}
		privatePEM, passphrase, err := importKeys.privateKey(cmd)
		if err != nil {
			return err
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := workflows.ImportKey(ctx, env, workflows.ImportKeyOptions{
			PublicKeyPEM:  publicPEM,
			PrivateKeyPEM: privatePEM,
			Passphrase:    passphrase,
			Label:         importLabel,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("failed to import key: %w", err)
		}

		kp := result.KeyPair
		kind := "key pair"
		if !kp.HasPrivateKey() {
			kind = "public key"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d-bit %s %s\n   ID: %s\n   Fingerprint: %s\n",
			ui.Success.Sprint("✓"), kp.KeySizeBits, kind, ui.KeyRef.Sprint(displayName(kp.Label, kp.ID)),
			kp.ID, ui.Muted.Sprint(result.Fingerprint))
		return nil
	},
}
