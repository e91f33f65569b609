// Package history is the durable migration history store: one ordered,
// append-only log of migration steps per table, persisted as a JSON document
// under the migrations directory. The latest step's column snapshot is the
// differ's baseline, so computing drift never replays the whole log.
package history

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/firesidehq/driftwood/internal/dwerr"
	"github.com/firesidehq/driftwood/internal/schema"
)

// Step is one immutable, table-scoped migration record. Indices are
// monotonically increasing from 0; index 0 is always the table's creation
// shape and carries empty operation lists. Downgrade holds the exact inverses
// of Upgrade, already in reverse order, so the applier replays either list
// front-to-back.
type Step struct {
	Index     int                `json:"index"`
	Upgrade   []schema.Operation `json:"upgrade,omitempty"`
	Downgrade []schema.Operation `json:"downgrade,omitempty"`
	Snapshot  []*schema.Column   `json:"snapshot"`
	CreatedAt time.Time          `json:"created_at"`
}

// tableLog is the on-disk document for one table.
type tableLog struct {
	Table string `json:"table"`
	Steps []Step `json:"steps"`
}

// Store reads and writes per-table migration logs in a directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on the
// first append.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the migrations directory the store is rooted at.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(table string) string {
	return filepath.Join(s.dir, table+".json")
}

// Load returns the recorded steps for a table in index order. A table with no
// recorded history returns an empty slice, not an error.
func (s *Store) Load(table string) ([]Step, error) {
	data, err := os.ReadFile(s.path(table))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, dwerr.Wrap(dwerr.ErrHistoryCorrupt, err, "failed to read migration history").
			WithTable(table)
	}

	var log tableLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, dwerr.Wrap(dwerr.ErrHistoryCorrupt, err, "failed to decode migration history").
			WithTable(table)
	}

	// Indices must be dense and start at 0; anything else means the log was
	// edited by hand or truncated.
	for i, step := range log.Steps {
		if step.Index != i {
			return nil, dwerr.New(dwerr.ErrHistoryCorrupt, "migration history is out of order").
				WithTable(table).
				With("expected_index", i).
				With("found_index", step.Index)
		}
	}

	return log.Steps, nil
}

// Latest returns the most recent step, or nil if the table has no history.
func (s *Store) Latest(table string) (*Step, error) {
	steps, err := s.Load(table)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, nil
	}
	latest := steps[len(steps)-1]
	return &latest, nil
}

// Append persists a new step at the end of the table's log. The step's index
// must be exactly the next sequential index. The write is atomic and synced
// before Append returns, so a crash afterwards is recoverable by re-reading
// history.
func (s *Store) Append(table string, step Step) error {
	steps, err := s.Load(table)
	if err != nil {
		return err
	}
	if step.Index != len(steps) {
		return dwerr.New(dwerr.ErrHistoryCorrupt, "step index is not sequential").
			WithTable(table).
			With("expected_index", len(steps)).
			With("found_index", step.Index)
	}

	log := tableLog{Table: table, Steps: append(steps, step)}
	return s.write(table, log)
}

// Clear removes a table's history entirely. Clearing a table that has no
// history is a no-op.
func (s *Store) Clear(table string) error {
	err := os.Remove(s.path(table))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return dwerr.Wrap(dwerr.ErrHistoryCorrupt, err, "failed to remove migration history").
			WithTable(table)
	}
	return nil
}

// write replaces a table's log atomically: write to a temp file in the same
// directory, sync, then rename over the old document.
func (s *Store) write(table string, log tableLog) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return dwerr.Wrap(dwerr.ErrHistoryCorrupt, err, "failed to create migrations directory").
			With("dir", s.dir)
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return dwerr.Wrap(dwerr.ErrHistoryCorrupt, err, "failed to encode migration history").
			WithTable(table)
	}

	tmp, err := os.CreateTemp(s.dir, table+".*.tmp")
	if err != nil {
		return dwerr.Wrap(dwerr.ErrHistoryCorrupt, err, "failed to create temp history file").
			WithTable(table)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return dwerr.Wrap(dwerr.ErrHistoryCorrupt, err, "failed to write migration history").
			WithTable(table)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return dwerr.Wrap(dwerr.ErrHistoryCorrupt, err, "failed to sync migration history").
			WithTable(table)
	}
	if err := tmp.Close(); err != nil {
		return dwerr.Wrap(dwerr.ErrHistoryCorrupt, err, "failed to close migration history").
			WithTable(table)
	}

	if err := os.Rename(tmpName, s.path(table)); err != nil {
		return dwerr.Wrap(dwerr.ErrHistoryCorrupt, err, "failed to replace migration history").
			WithTable(table)
	}
	return nil
}
