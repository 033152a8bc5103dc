package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var noteMachine string

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage shop-floor notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Record a new note",
	Long: `Records a free-text note, embeds it and makes it retrievable
immediately. Without --machine the note is global and visible under
every scope.`,
	Args: cobra.ExactArgs(1),
	RunE: runNoteAdd,
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes, newest first",
	RunE:  runNoteList,
}

func init() {
	noteAddCmd.Flags().StringVarP(&noteMachine, "machine", "m", "", "scope the note to a machine by name")
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	rootCmd.AddCommand(noteCmd)
}

func runNoteAdd(cmd *cobra.Command, args []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	note, err := noteService.Create(context.Background(), args[0], noteMachine)
	if err != nil {
		return fmt.Errorf("adding note failed: %w", err)
	}

	if noteMachine != "" {
		cmd.Printf("Added note %s for machine %q\n", note.ID, noteMachine)
	} else {
		cmd.Printf("Added global note %s\n", note.ID)
	}
	return nil
}

func runNoteList(cmd *cobra.Command, _ []string) error {
	if noteService == nil {
		return errors.New("note service not configured")
	}

	notes, err := noteService.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing notes failed: %w", err)
	}

	if len(notes) == 0 {
		cmd.Println("No notes recorded yet.")
		return nil
	}

	for _, note := range notes {
		scope := "global"
		if note.MachineID != "" {
			scope = "machine " + note.MachineID
		}
		cmd.Printf("%s  [%s]  %s\n", note.CreatedAt.Format("2006-01-02 15:04"), scope, note.Text)
	}
	return nil
}
