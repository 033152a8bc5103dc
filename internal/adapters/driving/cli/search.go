package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/floorwise/floorwise-cli/internal/core/domain"
	"github.com/floorwise/floorwise-cli/internal/core/services"
)

var (
	searchMachine string
	searchTopK    int
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search notes and manuals",
	Long: `Performs hybrid search across both corpora. Semantic (vector) and
keyword (BM25) scores are fused per document; results below the
confidence threshold are suppressed rather than shown.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchMachine, "machine", "m", "", "restrict retrieval to a machine by name")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "n", 0, "maximum number of results (0 = default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchOutput is the JSON rendering of one retrieval call.
type searchOutput struct {
	Hits  []domain.RetrievalHit `json:"hits"`
	Debug domain.RetrievalDebug `json:"debug"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := context.Background()
	opts := retrievalOptions(ctx, searchMachine, searchTopK)

	hits, debug, err := retrievalService.Retrieve(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(searchOutput{Hits: hits, Debug: debug}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(hits) == 0 {
		cmd.Println(emptyResultMessage(debug.Reason))
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, hit := range hits {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, services.DescribeSource(hit), hit.FusedScore)
		cmd.Printf("      %s\n", snippet(hit.Text))
		if verbose {
			cmd.Printf("      semantic=%.3f lexical=%.3f\n", hit.SemanticScore, hit.LexicalScore)
		}
		cmd.Println()
	}
	return nil
}

// snippet truncates hit text for terminal display, on a rune boundary.
func snippet(text string) string {
	const maxLen = 160
	if len(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
