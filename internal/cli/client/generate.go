package client

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Deck represents a deck from the API.
type Deck struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	TargetCards int    `json:"target_cards"`
	CardCount   int    `json:"card_count"`
	Error       string `json:"error,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// GenerateCmd creates the generate command.
func GenerateCmd() *cobra.Command {
	var name string
	var cards int
	var wait bool

	cmd := &cobra.Command{
		Use:   "generate <notes-file>",
		Short: "Generate a flashcard deck from a notes file",
		Long:  "Reads a plain-text or markdown notes file and queues flashcard generation.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runGenerate(args[0], name, cards, wait, outputJSON)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Deck name (defaults to the file name)")
	cmd.Flags().IntVarP(&cards, "cards", "n", 0, "Number of cards to generate (default 30, max 120)")
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Wait for generation to finish")

	return cmd
}

func runGenerate(notesPath, name string, cards int, wait, outputJSON bool) error {
	data, err := os.ReadFile(notesPath)
	if err != nil {
		return fmt.Errorf("failed to read notes file: %w", err)
	}

	if name == "" {
		name = notesPath
	}

	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	req := map[string]interface{}{
		"name":         name,
		"source_text":  string(data),
		"target_cards": cards,
	}

	resp, err := api.Post("/v1/decks", req)
	if err != nil {
		return fmt.Errorf("generate failed: %w", err)
	}

	var deck Deck
	if err := json.Unmarshal(resp.Data, &deck); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if wait {
		deck, err = waitForDeck(api, deck.ID)
		if err != nil {
			return err
		}
	}

	if outputJSON {
		output, _ := json.MarshalIndent(deck, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Deck: %s\n", deck.Name)
	fmt.Printf("ID: %s\n", deck.ID)
	fmt.Printf("Status: %s\n", deck.Status)
	if deck.Status == "ready" {
		fmt.Printf("Cards: %d\n", deck.CardCount)
	} else if deck.Status == "failed" {
		fmt.Printf("Error: %s\n", deck.Error)
	} else {
		fmt.Printf("Generation queued. Check progress with 'deckgen get %s'\n", deck.ID)
	}

	return nil
}

func waitForDeck(api *APIClient, deckID string) (Deck, error) {
	var deck Deck
	for {
		time.Sleep(2 * time.Second)

		resp, err := api.Get("/v1/decks/" + deckID)
		if err != nil {
			return deck, fmt.Errorf("failed to poll deck: %w", err)
		}
		if err := json.Unmarshal(resp.Data, &deck); err != nil {
			return deck, fmt.Errorf("failed to parse response: %w", err)
		}

		switch deck.Status {
		case "ready":
			return deck, nil
		case "failed":
			return deck, fmt.Errorf("generation failed: %s", deck.Error)
		}
		fmt.Printf("Status: %s...\n", deck.Status)
	}
}
