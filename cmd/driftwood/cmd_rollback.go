package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firesidehq/driftwood/internal/ui"
	"github.com/firesidehq/driftwood/pkg/driftwood"
)

// rollbackCmd reverts applied migration steps.
func rollbackCmd() *cobra.Command {
	var target int

	cmd := &cobra.Command{
		Use:   "rollback [table]",
		Short: "Revert applied migration steps",
		Long: `Downgrade every declared table, or a single named one, to the target step
index (one step back by default, never below the creation step). A bulk
rollback runs in one transaction.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if len(args) == 1 {
				outcome, err := client.RollbackTable(args[0], target)
				if err != nil {
					return err
				}
				fmt.Println(ui.Done(fmt.Sprintf("%s: %s", args[0], outcome)))
				return nil
			}

			results, err := client.RollbackAll(target)
			printResults(results)
			return err
		},
	}

	cmd.Flags().IntVar(&target, "target", driftwood.TargetLatest, "Target step index (-1 for one step back)")
	return cmd
}
