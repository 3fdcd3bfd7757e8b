package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// StudyCard represents the current card in a study session.
type StudyCard struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
	Status   string `json:"status"`
	Revealed bool   `json:"revealed"`
}

// StudyState represents a study session snapshot from the API.
type StudyState struct {
	DeckID      string     `json:"deck_id"`
	Position    int        `json:"position"`
	Total       int        `json:"total"`
	Correct     int        `json:"correct"`
	NeedsReview int        `json:"needs_review"`
	Complete    bool       `json:"complete"`
	Card        *StudyCard `json:"card,omitempty"`
}

// StudyCmd creates the interactive study command.
func StudyCmd() *cobra.Command {
	var shuffle bool

	cmd := &cobra.Command{
		Use:   "study <deck_id>",
		Short: "Study a deck interactively",
		Long:  "Walks through a generated deck card by card. Press enter to reveal, then grade with y/n. Cards graded wrong come back at the end.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStudy(args[0], shuffle)
		},
	}

	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "Shuffle the card order")

	return cmd
}

func runStudy(deckID string, shuffle bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	state, err := postStudy(api, "/v1/decks/"+deckID+"/study", map[string]bool{"shuffle": shuffle})
	if err != nil {
		return fmt.Errorf("failed to start study session: %w", err)
	}

	fmt.Printf("Studying %d cards. Enter reveals the answer, y/n grades it, q quits.\n", state.Total)
	reader := bufio.NewReader(os.Stdin)

	for !state.Complete {
		card := state.Card
		fmt.Printf("\n[%d/%d] Q: %s\n", state.Position+1, state.Total, card.Question)

		fmt.Print("(enter to reveal) ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "q" {
			break
		}

		state, err = postStudy(api, "/v1/decks/"+deckID+"/study/reveal", nil)
		if err != nil {
			return fmt.Errorf("reveal failed: %w", err)
		}
		fmt.Printf("A: %s\n", state.Card.Answer)

		correct, quit, err := readGrade(reader)
		if err != nil {
			return err
		}
		if quit {
			break
		}

		state, err = postStudy(api, "/v1/decks/"+deckID+"/study/grade", map[string]bool{"correct": correct})
		if err != nil {
			return fmt.Errorf("grade failed: %w", err)
		}
	}

	fmt.Printf("\nDone. Correct: %d, needs review: %d\n", state.Correct, state.NeedsReview)

	if _, err := api.Delete("/v1/decks/" + deckID + "/study"); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

func readGrade(reader *bufio.Reader) (correct, quit bool, err error) {
	for {
		fmt.Print("Correct? (y/n/q) ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, false, err
		}
		switch strings.TrimSpace(strings.ToLower(line)) {
		case "y":
			return true, false, nil
		case "n":
			return false, false, nil
		case "q":
			return false, true, nil
		}
	}
}

func postStudy(api *APIClient, path string, body interface{}) (*StudyState, error) {
	resp, err := api.Post(path, body)
	if err != nil {
		return nil, err
	}

	var state StudyState
	if err := json.Unmarshal(resp.Data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse study state: %w", err)
	}
	return &state, nil
}
