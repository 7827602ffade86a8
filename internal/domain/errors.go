package domain

import "fmt"

// ValidationError reports bad or missing submission input. Detected
// before any mutation; nothing is persisted and no mail is sent.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError reports an unknown reservation identifier.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("reservation #%d not found", e.ID)
}

// AlreadyConfirmedError reports a confirm on an already-confirmed
// reservation. Surfaced as a warning, never as a failure.
type AlreadyConfirmedError struct {
	ID int64
}

func (e *AlreadyConfirmedError) Error() string {
	return fmt.Sprintf("reservation #%d has already been confirmed", e.ID)
}

// InvalidTransitionError reports a moderation action that is not legal
// from the reservation's current status.
type InvalidTransitionError struct {
	ID      int64
	Action  Action
	Current Status
}

func (e *InvalidTransitionError) Error() string {
	verb := "denied"
	if e.Action == ActionConfirm {
		verb = "confirmed"
	}
	return fmt.Sprintf("reservation #%d cannot be %s as its current status is %q", e.ID, verb, e.Current)
}

// PersistenceError wraps a store failure. The in-flight mutation is
// not assumed committed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("reservation store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
