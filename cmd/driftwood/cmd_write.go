package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firesidehq/driftwood/internal/ui"
)

// writeCmd records schema drift as migration steps.
func writeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "write [table]",
		Short: "Record schema drift as migration steps",
		Long: `Compare each declared table against its recorded history and append a
reversible migration step when the declaration changed. Writing never touches
the database; apply the recorded steps with "driftwood migrate".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if len(args) == 1 {
				outcome, err := client.WriteMigration(args[0])
				if err != nil {
					return err
				}
				fmt.Println(ui.Done(fmt.Sprintf("%s: %s", args[0], outcome)))
				return nil
			}

			results, err := client.WriteAll()
			printResults(results)
			return err
		},
	}
}
