package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/firesidehq/driftwood/pkg/driftwood"
)

// Config represents the driftwood.yaml configuration file.
type Config struct {
	DatabaseURL   string `yaml:"database_url"`
	SchemasDir    string `yaml:"schemas_dir"`
	MigrationsDir string `yaml:"migrations_dir"`
	Dialect       string `yaml:"dialect"`
}

// loadConfig loads configuration from file, env vars, and CLI flags.
// Precedence: CLI flags > env vars > config file > defaults
func loadConfig() (*Config, error) {
	cfg := &Config{
		SchemasDir:    "./schemas",
		MigrationsDir: "./migrations",
	}

	if data, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		// Handle env var interpolation in database_url
		cfg.DatabaseURL = expandEnvVars(cfg.DatabaseURL)
	}

	// Override with env vars
	if envURL := os.Getenv("DATABASE_URL"); envURL != "" && databaseURL == "" {
		cfg.DatabaseURL = envURL
	}
	if envSchemas := os.Getenv("DRIFTWOOD_SCHEMAS_DIR"); envSchemas != "" && schemasDir == "" {
		cfg.SchemasDir = envSchemas
	}
	if envMigrations := os.Getenv("DRIFTWOOD_MIGRATIONS_DIR"); envMigrations != "" && migrationsDir == "" {
		cfg.MigrationsDir = envMigrations
	}

	// Override with CLI flags (highest priority)
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if schemasDir != "" {
		cfg.SchemasDir = schemasDir
	}
	if migrationsDir != "" {
		cfg.MigrationsDir = migrationsDir
	}

	return cfg, nil
}

// expandEnvVars expands ${VAR} patterns in a string.
func expandEnvVars(s string) string {
	return os.Expand(s, os.Getenv)
}

// newClient creates a driftwood client from config and registers every table
// declared in the schemas directory.
func newClient() (*driftwood.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required (flag --database-url, env DATABASE_URL, or %s)", configFile)
	}

	opts := []driftwood.Option{
		driftwood.WithDatabaseURL(cfg.DatabaseURL),
		driftwood.WithMigrationsDir(cfg.MigrationsDir),
	}
	if cfg.Dialect != "" {
		opts = append(opts, driftwood.WithDialect(cfg.Dialect))
	}

	client, err := driftwood.New(opts...)
	if err != nil {
		return nil, err
	}

	if err := client.RegisterDir(cfg.SchemasDir); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
