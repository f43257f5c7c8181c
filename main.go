package main

import (
	"fmt"
	"os"

	"github.com/MohiZzine/rsa-encryption-app/cmd"
	"github.com/MohiZzine/rsa-encryption-app/internal/ui"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error.Sprint("Error:"), err)
		os.Exit(1)
	}
}
