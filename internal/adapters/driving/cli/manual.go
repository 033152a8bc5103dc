package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	manualType    string
	manualURL     string
	manualMachine string
)

var manualCmd = &cobra.Command{
	Use:   "manual",
	Short: "Manage equipment manuals",
}

var manualAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Register a manual",
	Long: `Registers a manual record. Use --machine to link it to a machine so
its chunks are visible under that machine's scope, then run
"floorwise manual ingest" to process the document.`,
	Args: cobra.ExactArgs(1),
	RunE: runManualAdd,
}

var manualIngestCmd = &cobra.Command{
	Use:   "ingest [manual-id] [file]",
	Short: "Ingest a manual document",
	Long: `Processes a PDF into retrievable chunks: extracts pages, splits the
text, describes embedded figures with the vision backend when one is
configured, embeds everything and persists the result. Re-ingesting a
manual replaces all of its previous chunks.`,
	Args: cobra.ExactArgs(2),
	RunE: runManualIngest,
}

var manualLinkCmd = &cobra.Command{
	Use:   "link [manual-id] [machine-name]",
	Short: "Link a manual to a machine",
	Args:  cobra.ExactArgs(2),
	RunE:  runManualLink,
}

func init() {
	manualAddCmd.Flags().StringVarP(&manualType, "type", "t", "", "manual category (e.g. operator, maintenance)")
	manualAddCmd.Flags().StringVar(&manualURL, "url", "", "original document location")
	manualAddCmd.Flags().StringVarP(&manualMachine, "machine", "m", "", "link the manual to a machine by name")
	manualCmd.AddCommand(manualAddCmd)
	manualCmd.AddCommand(manualIngestCmd)
	manualCmd.AddCommand(manualLinkCmd)
	rootCmd.AddCommand(manualCmd)
}

func runManualAdd(cmd *cobra.Command, args []string) error {
	if machineService == nil {
		return errors.New("machine service not configured")
	}

	ctx := context.Background()
	manual, err := machineService.AddManual(ctx, args[0], manualType, manualURL)
	if err != nil {
		return fmt.Errorf("adding manual failed: %w", err)
	}

	if manualMachine != "" {
		if err := machineService.LinkManual(ctx, manualMachine, manual.ID); err != nil {
			return fmt.Errorf("linking manual failed: %w", err)
		}
	}

	cmd.Printf("Registered manual %q (%s)\n", manual.Title, manual.ID)
	cmd.Printf("Ingest it with: floorwise manual ingest %s <file.pdf>\n", manual.ID)
	return nil
}

func runManualIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	report, err := ingestService.Ingest(context.Background(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Ingested %d pages: %d text chunks, %d figure descriptions (%d figures skipped)\n",
		report.Pages, report.TextChunks, report.ImageChunks, report.ImagesSkipped)
	return nil
}

func runManualLink(cmd *cobra.Command, args []string) error {
	if machineService == nil {
		return errors.New("machine service not configured")
	}

	if err := machineService.LinkManual(context.Background(), args[1], args[0]); err != nil {
		return fmt.Errorf("linking manual failed: %w", err)
	}

	cmd.Printf("Linked manual %s to machine %q\n", args[0], args[1])
	return nil
}
