package client

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExportCmd creates the export command.
func ExportCmd() *cobra.Command {
	var format string
	var output string
	var viaStorage bool

	cmd := &cobra.Command{
		Use:   "export <deck_id>",
		Short: "Export a deck to CSV or Anki format",
		Long:  "Downloads a generated deck as front,back CSV or Anki tab-separated text.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runExport(args[0], format, output, viaStorage, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Export format (csv|anki)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output file path (defaults to the server filename)")
	cmd.Flags().BoolVar(&viaStorage, "via-storage", false, "Upload to object storage and download via presigned URL")

	return cmd
}

func runExport(deckID, format, output string, viaStorage, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	if output == "" {
		if format == "anki" {
			output = "flashcards_anki.txt"
		} else {
			output = "flashcards.csv"
		}
	}

	if viaStorage {
		resp, err := api.Post("/v1/decks/"+deckID+"/export/url?format="+format, nil)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		var result struct {
			DownloadURL string `json:"download_url"`
		}
		if err := json.Unmarshal(resp.Data, &result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		if err := api.DownloadFile(result.DownloadURL, output); err != nil {
			return err
		}
	} else {
		data, _, err := api.GetRaw("/v1/decks/" + deckID + "/export?format=" + format)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	}

	if outputJSON {
		result := map[string]interface{}{"success": true, "file": output, "format": format}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
	} else {
		fmt.Printf("Exported deck to %s\n", output)
	}

	return nil
}
