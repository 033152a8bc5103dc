package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var machineDescription string

var machineCmd = &cobra.Command{
	Use:   "machine",
	Short: "Manage the machine registry",
}

var machineAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Register a machine",
	Long: `Registers a machine by its unique name. Machines act as retrieval
scopes: notes and manuals attached to a machine are only visible to
queries scoped to it. Adding an existing name updates its description.`,
	Args: cobra.ExactArgs(1),
	RunE: runMachineAdd,
}

var machineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered machines",
	RunE:  runMachineList,
}

func init() {
	machineAddCmd.Flags().StringVarP(&machineDescription, "description", "d", "", "free-text description")
	machineCmd.AddCommand(machineAddCmd)
	machineCmd.AddCommand(machineListCmd)
	rootCmd.AddCommand(machineCmd)
}

func runMachineAdd(cmd *cobra.Command, args []string) error {
	if machineService == nil {
		return errors.New("machine service not configured")
	}

	id, err := machineService.AddMachine(context.Background(), args[0], machineDescription)
	if err != nil {
		return fmt.Errorf("adding machine failed: %w", err)
	}

	cmd.Printf("Registered machine %q (%s)\n", args[0], id)
	return nil
}

func runMachineList(cmd *cobra.Command, _ []string) error {
	if machineService == nil {
		return errors.New("machine service not configured")
	}

	machines, err := machineService.ListMachines(context.Background())
	if err != nil {
		return fmt.Errorf("listing machines failed: %w", err)
	}

	if len(machines) == 0 {
		cmd.Println("No machines registered yet.")
		return nil
	}

	for _, machine := range machines {
		if machine.Description != "" {
			cmd.Printf("%s - %s\n", machine.Name, machine.Description)
		} else {
			cmd.Println(machine.Name)
		}
	}
	return nil
}
