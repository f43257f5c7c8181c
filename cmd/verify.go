package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MohiZzine/rsa-encryption-app/internal/rsacrypt"
	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/MohiZzine/rsa-encryption-app/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	verifyKeys      keyFlags
	verifyMessage   string
	verifySignature string
	verifyFile      string
)

func init() {
	verifyKeys.addPublic(verifyCmd)
	verifyCmd.Flags().StringVarP(&verifyMessage, "message", "m", "", "the signed message")
	verifyCmd.Flags().StringVarP(&verifySignature, "signature", "s", "", "base64 signature")
	verifyCmd.Flags().StringVarP(&verifyFile, "file", "f", "", "JSON document written by sign")
	verifyCmd.MarkFlagsMutuallyExclusive("file", "message")
	verifyCmd.MarkFlagsMutuallyExclusive("file", "signature")
	verifyCmd.MarkFlagsRequiredTogether("message", "signature")
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a message signature",
	Long: `Verifies a signature produced by sign.

Pass either the message and signature, or the JSON document sign printed.
Exits with an error when the signature does not match.

Examples:
  rsakit verify --key work --file release.sig.json
  rsakit verify --public-key alice.pem -m "hi" -s "kq3..."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting verify command")
		ctx, stop := commandContext(cmd)
		defer stop()

		signed, err := signedInput(cmd)
		if err != nil {
			return err
		}
		publicPEM, err := verifyKeys.publicKeyPEM()
		if err != nil {
			return err
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := workflows.VerifyMessage(ctx, env, workflows.VerifyMessageOptions{
			KeyRef:       verifyKeys.ref,
			PublicKeyPEM: publicPEM,
			Message:      signed.Message,
			Signature:    signed.Signature,
		})
		if err != nil {
			return explain(err)
		}

		out := cmd.OutOrStdout()
		if !result.Verified {
			fmt.Fprintf(out, "%s Signature does not match\n", ui.Error.Sprint("✗"))
			return fmt.Errorf("signature verification failed")
		}
		fmt.Fprintf(out, "%s Signature verified\n   SHA-256: %s\n", ui.Success.Sprint("✓"), ui.Muted.Sprint(result.Hash))
		return nil
	},
}

func signedInput(cmd *cobra.Command) (*rsacrypt.SignedMessage, error) {
	if verifyFile == "" {
		if !cmd.Flags().Changed("message") {
			return nil, fmt.Errorf("pass %s or both %s and %s",
				ui.Flag.Sprint("--file"), ui.Flag.Sprint("--message"), ui.Flag.Sprint("--signature"))
		}
		return &rsacrypt.SignedMessage{Message: verifyMessage, Signature: verifySignature}, nil
	}

	data, err := os.ReadFile(verifyFile)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", verifyFile, err)
	}
	var signed rsacrypt.SignedMessage
	if err := json.Unmarshal(data, &signed); err != nil {
		return nil, fmt.Errorf("%s is not a signature document: %w", verifyFile, err)
	}
	return &signed, nil
}
