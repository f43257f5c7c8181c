package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/MohiZzine/rsa-encryption-app/internal/workflows"
	"github.com/spf13/cobra"
)

var deleteYes bool

func init() {
	keysDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}

var keysDeleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Aliases: []string{"rm"},
	Short:   "Delete a stored key pair",
	Long: `Deletes a key pair from the key store.

Anything encrypted to this key can no longer be decrypted by rsakit once
the private key is gone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys delete command")
		ctx, stop := commandContext(cmd)
		defer stop()

		if !deleteYes {
			fmt.Fprintf(cmd.OutOrStdout(), "%s Delete key %s? [y/N]: ", ui.Warning.Sprint("⚠"), ui.KeyRef.Sprint(args[0]))
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer != "y" && answer != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := workflows.DeleteKey(ctx, env, workflows.DeleteKeyOptions{Ref: args[0]})
		if err != nil {
			return explain(err)
		}

		kp := result.KeyPair
		fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted key %s %s\n", ui.Success.Sprint("✓"),
			ui.KeyRef.Sprint(displayName(kp.Label, kp.ID)), ui.Muted.Sprint(kp.ID))
		return nil
	},
}
