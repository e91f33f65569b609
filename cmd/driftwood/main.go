// Package main provides the driftwood CLI, a declarative schema and
// migration tool. Tables are declared in YAML schema files; driftwood
// materializes them, records migration history, and applies or reverts
// migration steps transactionally.
//
// Usage:
//
//	driftwood init                  # Create schemas/ and migrations/ dirs
//	driftwood create [table]        # Create declared tables
//	driftwood write [table]         # Record schema drift as migration steps
//	driftwood migrate [table]       # Apply recorded steps
//	driftwood rollback [table]      # Revert applied steps
//	driftwood drop <table>          # Drop a table (or --all)
//	driftwood status                # Show per-table migration state
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// version is set via ldflags during build: -ldflags="-X main.version=v1.0.0"
var version = "dev"

// Global flags
var (
	databaseURL   string
	configFile    string
	schemasDir    string
	migrationsDir string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "driftwood",
		Short:   "Declarative schema and migration tool",
		Long:    `Driftwood manages schema evolution from declarative table definitions: it detects drift against recorded history, writes reversible migration steps, and applies them transactionally.`,
		Version: version,
	}

	// Accept underscore spellings (--database_url) alongside the dashed ones.
	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().StringVarP(&databaseURL, "database-url", "d", "", "Database connection URL")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "driftwood.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&schemasDir, "schemas-dir", "", "Directory of YAML table declarations")
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "migrations-dir", "", "Directory of migration history files")

	rootCmd.AddCommand(
		initCmd(),
		createCmd(),
		writeCmd(),
		migrateCmd(),
		rollbackCmd(),
		dropCmd(),
		statusCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
