package cmd

import (
	"github.com/spf13/cobra"
)

func init() {
	KeysCmd.AddCommand(keysGenerateCmd)
	KeysCmd.AddCommand(keysListCmd)
	KeysCmd.AddCommand(keysShowCmd)
	KeysCmd.AddCommand(keysDeleteCmd)
	KeysCmd.AddCommand(keysImportCmd)
	KeysCmd.AddCommand(keysValidateCmd)
}

// KeysCmd groups the key management commands.
var KeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate, import, and manage RSA key pairs",
	Long: `Manage the RSA key pairs rsakit keeps in its key store.

Keys can be referenced by full ID, by label, or by a unique ID prefix of
at least four characters.`,
}
