package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firesidehq/driftwood/internal/ui"
)

// dropCmd drops tables and clears their history.
func dropCmd() *cobra.Command {
	var all, force bool

	cmd := &cobra.Command{
		Use:   "drop [table]",
		Short: "Drop a table and clear its migration history",
		Long: `Drop a named table, or every declared table with --all. Dropping a table
that does not exist is an error. Recorded history is cleared only after the
drop commits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("name a table to drop, or pass --all")
			}

			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if all {
				if !force && !confirm("drop every declared table and its history?") {
					fmt.Println(ui.Dim("cancelled"))
					return nil
				}
				results, err := client.DropAll()
				printResults(results)
				return err
			}

			if !force && !confirm(fmt.Sprintf("drop table %q and its history?", args[0])) {
				fmt.Println(ui.Dim("cancelled"))
				return nil
			}
			outcome, err := client.DropTable(args[0])
			if err != nil {
				return err
			}
			fmt.Println(ui.Done(fmt.Sprintf("%s: %s", args[0], outcome)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Drop every declared table")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}
