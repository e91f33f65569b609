package driftwood

import (
	"database/sql"

	"github.com/firesidehq/driftwood/internal/engine"
)

// TargetLatest asks the engine to resolve the target index itself: the
// highest recorded index when migrating, one step back when rolling back.
const TargetLatest = engine.TargetLatest

// CreateTable materializes one registered table in its own transaction.
// Creation is idempotent; if the table already exists and autoApply is set,
// it is migrated to the latest recorded index instead.
func (c *Client) CreateTable(name string, autoApply bool) (string, error) {
	t, err := c.engine.Registry().Get(name)
	if err != nil {
		return "", err
	}

	ctx, cancel := c.opContext()
	defer cancel()

	var outcome engine.Outcome
	err = c.inTransaction(ctx, func(tx *sql.Tx) error {
		outcome, err = c.engine.Create(ctx, tx, t, autoApply)
		return err
	})
	return string(outcome), err
}

// CreateAll materializes every registered table in one transaction; the first
// failure rolls the whole batch back.
func (c *Client) CreateAll(autoApply bool) ([]Result, error) {
	ctx, cancel := c.opContext()
	defer cancel()
	return c.engine.CreateAll(ctx, c.pool.DB(), autoApply)
}

// WriteMigration diffs one registered table against its recorded history and
// appends a migration step if the declaration drifted. It never touches the
// database.
func (c *Client) WriteMigration(name string) (string, error) {
	t, err := c.engine.Registry().Get(name)
	if err != nil {
		return "", err
	}
	outcome, err := c.engine.WriteMigration(t)
	return string(outcome), err
}

// WriteAll writes pending migration steps for every registered table.
func (c *Client) WriteAll() ([]Result, error) {
	return c.engine.WriteAll()
}

// MigrateTable upgrades one table to the target index (TargetLatest for the
// newest) in its own transaction.
func (c *Client) MigrateTable(name string, target int) (string, error) {
	return c.applyTable(name, target, engine.Up)
}

// RollbackTable downgrades one table to the target index (TargetLatest for
// one step back) in its own transaction.
func (c *Client) RollbackTable(name string, target int) (string, error) {
	return c.applyTable(name, target, engine.Down)
}

func (c *Client) applyTable(name string, target int, dir engine.Direction) (string, error) {
	if _, err := c.engine.Registry().Get(name); err != nil {
		return "", err
	}

	ctx, cancel := c.opContext()
	defer cancel()

	var outcome engine.Outcome
	err := c.inTransaction(ctx, func(tx *sql.Tx) error {
		var err error
		outcome, err = c.engine.Migrate(ctx, tx, name, target, dir)
		return err
	})
	return string(outcome), err
}

// MigrateAll upgrades every registered table to the target index in one
// transaction; a failure on any table discards every applied-index update.
func (c *Client) MigrateAll(target int) ([]Result, error) {
	ctx, cancel := c.opContext()
	defer cancel()
	return c.engine.MigrateAll(ctx, c.pool.DB(), target, engine.Up)
}

// RollbackAll downgrades every registered table to the target index in one
// transaction.
func (c *Client) RollbackAll(target int) ([]Result, error) {
	ctx, cancel := c.opContext()
	defer cancel()
	return c.engine.MigrateAll(ctx, c.pool.DB(), target, engine.Down)
}

// DropTable drops one live table in its own transaction and, once committed,
// clears its recorded history. Dropping a table that does not exist is an
// error naming the table.
func (c *Client) DropTable(name string) (string, error) {
	if _, err := c.engine.Registry().Get(name); err != nil {
		return "", err
	}

	ctx, cancel := c.opContext()
	defer cancel()

	var outcome engine.Outcome
	err := c.inTransaction(ctx, func(tx *sql.Tx) error {
		var err error
		outcome, err = c.engine.Drop(ctx, tx, name)
		return err
	})
	if err != nil {
		return "", err
	}
	if err := c.engine.History().Clear(name); err != nil {
		return "", err
	}
	return string(outcome), nil
}

// DropAll drops every registered table in one transaction, clearing history
// only after the transaction commits.
func (c *Client) DropAll() ([]Result, error) {
	ctx, cancel := c.opContext()
	defer cancel()
	return c.engine.DropAll(ctx, c.pool.DB())
}

// Status reports existence, applied index, highest recorded index, and drift
// for every registered table.
func (c *Client) Status() ([]TableStatus, error) {
	ctx, cancel := c.opContext()
	defer cancel()
	return c.engine.Status(ctx, c.pool.DB())
}
