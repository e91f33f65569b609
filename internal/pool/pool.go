// Package pool owns database connectivity: DSN parsing, driver selection,
// connection pool limits, and checkout of individual connections. The rest of
// the engine receives connections from here and never opens its own.
package pool

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/firesidehq/driftwood/internal/dwerr"
)

// Options tune the underlying sql.DB pool. Zero values fall back to the
// defaults below.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// PingTimeout bounds the reachability check performed by Open.
	PingTimeout time.Duration
}

const (
	defaultMaxOpenConns = 10
	defaultMaxIdleConns = 5
	defaultMaxLifetime  = 30 * time.Minute
	defaultPingTimeout  = 5 * time.Second
)

// Pool wraps a sql.DB opened for a specific dialect.
type Pool struct {
	db      *sql.DB
	dialect string
}

// DetectDialect infers the dialect name and driver name from a DSN.
// postgres:// and postgresql:// URLs use lib/pq; sqlite: URLs, :memory:, and
// bare file paths use the sqlite driver.
func DetectDialect(dsn string) (dialectName, driverName string, err error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", "postgres", nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite", "sqlite", nil
	case strings.HasPrefix(dsn, "sqlite:"):
		return "sqlite", "sqlite", nil
	case dsn == ":memory:", strings.HasPrefix(dsn, "file:"), strings.HasSuffix(dsn, ".db"), strings.HasSuffix(dsn, ".sqlite"):
		return "sqlite", "sqlite", nil
	default:
		return "", "", dwerr.New(dwerr.ErrConnection, "cannot infer database dialect from DSN").
			With("dsn", Redact(dsn))
	}
}

// Open creates a pool for the given DSN, applies limits, and verifies the
// database is reachable before returning.
func Open(ctx context.Context, dsn string, opts Options) (*Pool, error) {
	dialectName, driverName, err := DetectDialect(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, stripScheme(dsn))
	if err != nil {
		return nil, dwerr.Wrap(dwerr.ErrConnection, err, "failed to open database").
			With("dialect", dialectName)
	}

	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = defaultMaxOpenConns
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = defaultMaxIdleConns
	}
	if opts.ConnMaxLifetime == 0 {
		opts.ConnMaxLifetime = defaultMaxLifetime
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)

	// In-memory SQLite keeps its schema only while a connection is open; a
	// pool that cycles connections would silently lose tables.
	if dialectName == "sqlite" && strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}

	pingTimeout := opts.PingTimeout
	if pingTimeout == 0 {
		pingTimeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, dwerr.Wrap(dwerr.ErrConnection, err, "database is unreachable").
			With("dialect", dialectName)
	}

	return &Pool{db: db, dialect: dialectName}, nil
}

// DB returns the shared pool handle.
func (p *Pool) DB() *sql.DB { return p.db }

// Dialect returns the dialect name the pool was opened for.
func (p *Pool) Dialect() string { return p.dialect }

// Acquire checks a single connection out of the pool. The caller must close
// it to return it.
func (p *Pool) Acquire(ctx context.Context) (*sql.Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, dwerr.Wrap(dwerr.ErrConnection, err, "failed to acquire connection")
	}
	return conn, nil
}

// Close releases the pool and all idle connections.
func (p *Pool) Close() error {
	return p.db.Close()
}

// stripScheme removes the sqlite:// prefix so the driver sees a plain path.
// Postgres URLs pass through untouched; lib/pq parses them itself.
func stripScheme(dsn string) string {
	if rest, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(dsn, "sqlite:"); ok {
		return rest
	}
	return dsn
}

// Redact masks the password portion of a URL-style DSN for logs and errors.
func Redact(dsn string) string {
	at := strings.Index(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at == -1 || scheme == -1 || at < scheme {
		return dsn
	}
	auth := dsn[scheme+3 : at]
	if colon := strings.Index(auth, ":"); colon != -1 {
		return dsn[:scheme+3] + auth[:colon] + ":***" + dsn[at:]
	}
	return dsn
}
