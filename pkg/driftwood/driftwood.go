// Package driftwood is the embedding API for the schema and migration engine.
// Applications declare tables, register them with a Client, and drive
// creation, migration writing, and transactional apply through it.
//
// Example:
//
//	client, err := driftwood.New(
//	    driftwood.WithDatabaseURL("postgres://localhost/mydb"),
//	    driftwood.WithMigrationsDir("./migrations"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	guilds, _ := driftwood.NewTable("guilds",
//	    driftwood.PrimaryKeyColumn(),
//	    driftwood.StringColumn("name"),
//	)
//	client.Register(guilds)
//
//	if _, err := client.CreateAll(true); err != nil {
//	    log.Fatal(err)
//	}
package driftwood

import (
	"context"
	"database/sql"
	"time"

	"github.com/firesidehq/driftwood/internal/dialect"
	"github.com/firesidehq/driftwood/internal/dwerr"
	"github.com/firesidehq/driftwood/internal/engine"
	"github.com/firesidehq/driftwood/internal/history"
	"github.com/firesidehq/driftwood/internal/pool"
	"github.com/firesidehq/driftwood/internal/registry"
	"github.com/firesidehq/driftwood/internal/schema"
)

// Client is the entry point for the migration engine. Create one with New and
// release it with Close.
type Client struct {
	cfg    *Config
	pool   *pool.Pool
	engine *engine.Engine
}

// New creates a Client, opens the connection pool, and verifies the database
// is reachable. WithDatabaseURL is required.
func New(opts ...Option) (*Client, error) {
	cfg := &Config{
		MigrationsDir: "./migrations",
		Timeout:       30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.DatabaseURL == "" {
		return nil, dwerr.New(dwerr.ErrConnection, "database URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	p, err := pool.Open(ctx, cfg.DatabaseURL, pool.Options{
		MaxOpenConns: cfg.MaxOpenConns,
		PingTimeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	dialectName := cfg.Dialect
	if dialectName == "" {
		dialectName = p.Dialect()
	}
	d := dialect.Get(dialectName)
	if d == nil {
		p.Close()
		return nil, dwerr.Newf(dwerr.ErrConnection, "unsupported dialect %q", dialectName)
	}

	reg := registry.NewRegistry()
	hist := history.NewStore(cfg.MigrationsDir)

	return &Client{
		cfg:    cfg,
		pool:   p,
		engine: engine.New(reg, hist, d, cfg.Logger),
	}, nil
}

// Register adds a table declaration to the client's registry. Each name may
// be registered once.
func (c *Client) Register(t *Table) error {
	return c.engine.Registry().Register(t)
}

// RegisterDir loads every YAML schema file in dir and registers the resulting
// tables in file-name order.
func (c *Client) RegisterDir(dir string) error {
	tables, err := schema.LoadDir(dir)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if err := c.engine.Registry().Register(t); err != nil {
			return err
		}
	}
	return nil
}

// Tables returns the registered table declarations in declaration order.
func (c *Client) Tables() []*Table {
	return c.engine.Registry().All()
}

// DB exposes the underlying pool handle for application queries.
func (c *Client) DB() *sql.DB {
	return c.pool.DB()
}

// Dialect returns the active dialect name.
func (c *Client) Dialect() string {
	return c.engine.Dialect().Name()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.pool.Close()
}

func (c *Client) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.cfg.Timeout)
}

// inTransaction runs fn in a dedicated transaction, rolling back on error.
func (c *Client) inTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.pool.DB().BeginTx(ctx, nil)
	if err != nil {
		return dwerr.Wrap(dwerr.ErrTransaction, err, "failed to begin transaction")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return dwerr.Wrap(dwerr.ErrTransaction, err, "failed to commit transaction")
	}
	return nil
}
