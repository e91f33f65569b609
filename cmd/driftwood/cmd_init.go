package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/firesidehq/driftwood/internal/ui"
)

const sampleConfig = `# driftwood configuration
# database_url supports ${VAR} interpolation.
database_url: ${DATABASE_URL}
schemas_dir: ./schemas
migrations_dir: ./migrations
`

const sampleSchema = `# Example table declaration.
table: widgets
columns:
  - name: id
    type: serial
    primary_key: true
  - name: name
    type: string
`

// initCmd scaffolds a project: config file, schemas dir, migrations dir.
func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize project structure (schemas/, migrations/)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			for _, dir := range []string{cfg.SchemasDir, cfg.MigrationsDir} {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create %s: %w", dir, err)
				}
				fmt.Println(ui.Done("created " + dir))
			}

			if _, err := os.Stat(configFile); os.IsNotExist(err) {
				if err := os.WriteFile(configFile, []byte(sampleConfig), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", configFile, err)
				}
				fmt.Println(ui.Done("created " + configFile))
			} else {
				fmt.Println(ui.Dim(configFile + " already exists, skipping"))
			}

			example := cfg.SchemasDir + "/widgets.yaml"
			if _, err := os.Stat(example); os.IsNotExist(err) {
				if err := os.WriteFile(example, []byte(sampleSchema), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", example, err)
				}
				fmt.Println(ui.Done("created " + example))
			}

			fmt.Println()
			fmt.Println(ui.Dim("next: edit your schema files, then run `driftwood create`"))
			return nil
		},
	}
}
