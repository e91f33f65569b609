package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firesidehq/driftwood/internal/ui"
	"github.com/firesidehq/driftwood/pkg/driftwood"
)

// migrateCmd applies recorded migration steps forward.
func migrateCmd() *cobra.Command {
	var target int

	cmd := &cobra.Command{
		Use:   "migrate [table]",
		Short: "Apply recorded migration steps",
		Long: `Upgrade every declared table, or a single named one, to the target step
index (latest by default). A bulk migrate runs in one transaction: the first
failure rolls the whole batch back.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if len(args) == 1 {
				outcome, err := client.MigrateTable(args[0], target)
				if err != nil {
					return err
				}
				fmt.Println(ui.Done(fmt.Sprintf("%s: %s", args[0], outcome)))
				return nil
			}

			results, err := client.MigrateAll(target)
			printResults(results)
			return err
		},
	}

	cmd.Flags().IntVar(&target, "target", driftwood.TargetLatest, "Target step index (-1 for latest)")
	return cmd
}
