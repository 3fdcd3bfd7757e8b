package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deckgen-ai/deckgen/internal/cli"
	"github.com/deckgen-ai/deckgen/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "deckgen",
		Short: "Deckgen CLI - Flashcard generation from study notes",
		Long: `Deckgen CLI turns notes into flashcard decks and studies them.

Environment variables:
  DECKGEN_API_KEY   API token for authentication (optional for local servers)
  DECKGEN_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-key", "", "API token for authentication (overrides env and config)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.GenerateCmd())
	rootCmd.AddCommand(client.ListCmd())
	rootCmd.AddCommand(client.GetCmd())
	rootCmd.AddCommand(client.DeleteCmd())
	rootCmd.AddCommand(client.StudyCmd())
	rootCmd.AddCommand(client.ExportCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
