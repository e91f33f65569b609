package engine

// Outcome is the operator-facing status of one engine operation on one table.
type Outcome string

const (
	// OutcomeCreated reports a table that did not exist and was created.
	OutcomeCreated Outcome = "created"

	// OutcomeNoWork reports an apply that had nothing to do: the table was
	// already at the requested index.
	OutcomeNoWork Outcome = "no work needed"

	// OutcomeMigrated reports a successful apply or a newly written step.
	OutcomeMigrated Outcome = "migrated"

	// OutcomeNoChanges reports a migration write that found no drift.
	OutcomeNoChanges Outcome = "found no changes"

	// OutcomeDropped reports a dropped table.
	OutcomeDropped Outcome = "dropped"
)

// Result is the per-table report of a batch operation. Err is non-nil for the
// table whose failure aborted the batch.
type Result struct {
	Table   string
	Outcome Outcome
	Err     error
}
