package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firesidehq/driftwood/internal/ui"
)

// createCmd materializes declared tables.
func createCmd() *cobra.Command {
	var noApply bool

	cmd := &cobra.Command{
		Use:   "create [table]",
		Short: "Create declared tables",
		Long: `Create every declared table, or a single named one, inside one transaction.
Creation is idempotent; tables that already exist are migrated to the latest
recorded step unless --no-apply is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			autoApply := !noApply
			if len(args) == 1 {
				outcome, err := client.CreateTable(args[0], autoApply)
				if err != nil {
					return err
				}
				fmt.Println(ui.Done(fmt.Sprintf("%s: %s", args[0], outcome)))
				return nil
			}

			results, err := client.CreateAll(autoApply)
			printResults(results)
			return err
		},
	}

	cmd.Flags().BoolVar(&noApply, "no-apply", false, "Do not migrate existing tables to the latest step")
	return cmd
}
