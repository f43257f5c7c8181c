package cmd

import (
	"fmt"
	"strconv"

	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/MohiZzine/rsa-encryption-app/internal/workflows"
	"github.com/spf13/cobra"
)

var keysListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored key pairs",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keys list command")
		ctx, stop := commandContext(cmd)
		defer stop()

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := workflows.ListKeys(ctx, env)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to list keys: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(result.KeyPairs) == 0 {
			fmt.Fprintf(out, "%s No keys yet. Run %s to create one.\n", ui.Info.Sprint("ℹ"), ui.Code.Sprint("rsakit keys generate"))
			return nil
		}

		rows := make([][]string, 0, len(result.KeyPairs))
		for _, kp := range result.KeyPairs {
			private := "no"
			if kp.HasPrivateKey() {
				private = "yes"
			}
			rows = append(rows, []string{
				ui.ShortID(kp.ID),
				kp.Label,
				strconv.Itoa(kp.KeySizeBits),
				private,
				kp.CreatedAt.Local().Format("2006-01-02 15:04"),
			})
		}
		fmt.Fprint(out, ui.Table([]string{"ID", "LABEL", "BITS", "PRIVATE", "CREATED"}, rows))
		return nil
	},
}
