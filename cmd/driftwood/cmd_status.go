package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firesidehq/driftwood/internal/ui"
)

// statusCmd shows per-table migration state.
func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-table migration state",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			statuses, err := client.Status()
			if err != nil {
				return err
			}

			fmt.Println(ui.Header("Tables"))
			for _, st := range statuses {
				line := fmt.Sprintf("%-24s", st.Table)
				switch {
				case !st.Exists:
					line += ui.Warning("missing")
				case st.Applied < st.Highest:
					line += ui.Warning(fmt.Sprintf("behind (applied %d of %d)", st.Applied, st.Highest))
				default:
					line += ui.Success(fmt.Sprintf("up to date (step %d)", st.Applied))
				}
				if st.Drift {
					line += " " + ui.Info("drift pending write")
				}
				fmt.Println("  " + line)
			}
			return nil
		},
	}
}
