package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/MohiZzine/rsa-encryption-app/internal/history"
	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
	"github.com/MohiZzine/rsa-encryption-app/internal/workflows"
	"github.com/spf13/cobra"
)

var historyJSON bool

func init() {
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print the entries as JSON")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most recent operations",
	Long: `Shows the last ten operations rsakit performed, newest first, with a
count per operation type.

History never stores plaintext, ciphertext, or key material.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting history command")
		ctx, stop := commandContext(cmd)
		defer stop()

		env, err := openEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := workflows.History(ctx, env)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read history: %w", err)
		}

		out := cmd.OutOrStdout()
		if historyJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			entries := result.Entries
			if entries == nil {
				entries = []history.Entry{}
			}
			return enc.Encode(entries)
		}

		if len(result.Entries) == 0 {
			fmt.Fprintf(out, "%s No operations recorded yet.\n", ui.Info.Sprint("ℹ"))
			return nil
		}

		rows := make([][]string, 0, len(result.Entries))
		for _, e := range result.Entries {
			rows = append(rows, []string{e.Timestamp, e.Operation, historyStatus(e), historyDetail(e)})
		}
		fmt.Fprint(out, ui.Table([]string{"TIME", "OPERATION", "STATUS", "DETAIL"}, rows))
		fmt.Fprintln(out)
		fmt.Fprintln(out, formatStats(result.Stats))
		return nil
	},
}

func historyStatus(e history.Entry) string {
	if e.Success {
		return "ok"
	}
	return "failed"
}

func historyDetail(e history.Entry) string {
	var parts []string
	if e.KeyID != "" {
		parts = append(parts, "key "+ui.ShortID(e.KeyID))
	}
	if e.KeySizeBits > 0 {
		parts = append(parts, strconv.Itoa(e.KeySizeBits)+" bits")
	}
	if e.File != "" {
		parts = append(parts, e.File)
	}
	if e.Bytes > 0 {
		parts = append(parts, ui.FormatBytes(int64(e.Bytes)))
	}
	if e.Chunks > 0 {
		parts = append(parts, strconv.Itoa(e.Chunks)+" chunk(s)")
	}
	if e.Error != "" {
		parts = append(parts, ui.Abbreviate(e.Error, 48))
	}
	return strings.Join(parts, ", ")
}

func formatStats(stats map[string]int) string {
	ops := make([]string, 0, len(stats))
	for op := range stats {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	parts := make([]string, 0, len(ops))
	for _, op := range ops {
		parts = append(parts, fmt.Sprintf("%s: %d", op, stats[op]))
	}
	return ui.Muted.Sprint(strings.Join(parts, ", "))
}
