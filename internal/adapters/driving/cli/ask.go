package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/floorwise/floorwise-cli/internal/core/services"
)

var (
	askMachine string
	askTopK    int
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question and get a composed answer",
	Long: `Retrieves relevant passages from notes and manuals with hybrid
(semantic + keyword) search, then asks the configured LLM to compose an
answer grounded in those passages only.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askMachine, "machine", "m", "", "restrict retrieval to a machine by name")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of passages to retrieve (0 = default)")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "list the sources the answer was grounded on")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	ctx := context.Background()
	opts := retrievalOptions(ctx, askMachine, askTopK)

	answer, err := answerService.Answer(ctx, args[0], opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)

	if len(answer.Sources) == 0 {
		if answer.Debug.Reason != "" {
			cmd.Println()
			cmd.Println(emptyResultMessage(answer.Debug.Reason))
		}
		return nil
	}

	if askSources {
		cmd.Println()
		cmd.Println("Sources:")
		for i, hit := range answer.Sources {
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, services.DescribeSource(hit), hit.FusedScore)
		}
	}
	return nil
}
