package cmd

import (
	"fmt"

	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/MohiZzine/rsa-encryption-app/internal/workflows"
	"github.com/spf13/cobra"
)

var showPrivate bool

func init() {
	keysShowCmd.Flags().BoolVar(&showPrivate, "private", false, "print the private key PEM instead of the public key")
}

var keysShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Show a stored key pair",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys show command")
		ctx, stop := commandContext(cmd)
		defer stop()

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := workflows.ShowKey(ctx, env, workflows.ShowKeyOptions{Ref: args[0]})
		if err != nil {
			return explain(err)
		}

		kp := result.KeyPair
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:           %s\n", kp.ID)
		if kp.Label != "" {
			fmt.Fprintf(out, "Label:        %s\n", kp.Label)
		}
		fmt.Fprintf(out, "Size:         %d bits\n", kp.KeySizeBits)
		fmt.Fprintf(out, "Created:      %s\n", kp.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Fingerprint:  %s\n", result.Fingerprint)
		fmt.Fprintf(out, "Chunk limit:  %d bytes %s\n", result.ChunkLimit,
			ui.Muted.Sprintf("exact %d", result.ExactChunkLimit))
		fmt.Fprintf(out, "Private key:  %s\n", ui.Mark(kp.HasPrivateKey()))
		fmt.Fprintln(out)

		if showPrivate {
			if !kp.HasPrivateKey() {
				return fmt.Errorf("key %s has no private key", ui.ShortID(kp.ID))
			}
			fmt.Fprintln(out, kp.PrivateKey)
			return nil
		}
		fmt.Fprintln(out, kp.PublicKey)
		return nil
	},
}
