package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deckgen-ai/deckgen/internal/cli"
	"github.com/deckgen-ai/deckgen/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "deckgend",
		Short: "Deckgen daemon",
		Long:  "Deckgen daemon for running the API server and card generation worker",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
