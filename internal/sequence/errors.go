package sequence

import "fmt"

// ValidationError means the draft fails a submission invariant. Nothing was
// persisted; the caller fixes the draft and retries.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid draft: %s: %s", e.Field, e.Reason)
}

// ConflictError means the child already has an active sequence. Callers can
// offer editing the existing sequence instead.
type ConflictError struct {
	ChildID    int64
	SequenceID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("child %d already has active sequence %d; complete or cancel it first, or edit it instead", e.ChildID, e.SequenceID)
}

// PersistenceError wraps a store failure during materialization, tagged with
// the step that failed. The write is transactional, so a PersistenceError
// means the store was left untouched.
type PersistenceError struct {
	Step string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("materialize: %s: %v", e.Step, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a missing entity: a vanished sequence on
// load-for-editing, or stale template ids in a draft.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}
