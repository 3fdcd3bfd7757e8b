package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Card represents a card from the API.
type Card struct {
	ID          string `json:"id"`
	Position    int    `json:"position"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	SourceChunk int    `json:"source_chunk"`
	StudyStatus string `json:"study_status"`
}

// CardListResponse represents the cards API response.
type CardListResponse struct {
	Items []Card `json:"items"`
}

// GetCmd creates the get command.
func GetCmd() *cobra.Command {
	var showCards bool

	cmd := &cobra.Command{
		Use:     "get <deck_id>",
		Short:   "Get a deck by ID",
		Long:    "Retrieves a deck by its ID, optionally including its cards.",
		Aliases: []string{"view"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runGet(args[0], showCards, outputJSON)
		},
	}

	cmd.Flags().BoolVar(&showCards, "cards", false, "Include the deck's cards")

	return cmd
}

func runGet(deckID string, showCards, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Get("/v1/decks/" + deckID)
	if err != nil {
		return fmt.Errorf("failed to get deck: %w", err)
	}

	var deck Deck
	if err := json.Unmarshal(resp.Data, &deck); err != nil {
		return fmt.Errorf("failed to parse deck: %w", err)
	}

	var cards []Card
	if showCards {
		cardsResp, err := api.Get("/v1/decks/" + deckID + "/cards")
		if err != nil {
			return fmt.Errorf("failed to get cards: %w", err)
		}
		var cardList CardListResponse
		if err := json.Unmarshal(cardsResp.Data, &cardList); err != nil {
			return fmt.Errorf("failed to parse cards: %w", err)
		}
		cards = cardList.Items
	}

	if outputJSON {
		result := map[string]interface{}{"deck": deck}
		if showCards {
			result["cards"] = cards
		}
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Name: %s\n", deck.Name)
	fmt.Printf("Status: %s\n", deck.Status)
	fmt.Printf("Cards: %d (target %d)\n", deck.CardCount, deck.TargetCards)
	if deck.Error != "" {
		fmt.Printf("Error: %s\n", deck.Error)
	}
	fmt.Printf("Created: %s\n", deck.CreatedAt)
	fmt.Printf("Updated: %s\n", deck.UpdatedAt)

	if showCards {
		fmt.Println()
		fmt.Println("--- Cards ---")
		for _, card := range cards {
			fmt.Printf("%d. Q: %s\n", card.Position+1, card.Question)
			fmt.Printf("   A: %s\n", card.Answer)
		}
	}

	return nil
}

// DeleteCmd creates the delete command.
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <deck_id>",
		Short: "Delete a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runDelete(args[0], outputJSON)
		},
	}

	return cmd
}

func runDelete(deckID string, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	if _, err := api.Delete("/v1/decks/" + deckID); err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(map[string]interface{}{"success": true, "id": deckID}, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Printf("Deleted deck %s\n", deckID)
	}

	return nil
}
