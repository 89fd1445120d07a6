package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTable is returned by save operations before any table is loaded.
	ErrNoTable = errors.New("no table loaded")

	// ErrNoPath is returned by Save when the session has no path and no
	// destination prompt is configured.
	ErrNoPath = errors.New("no destination path")

	// ErrCanceled is returned when the destination prompt is dismissed.
	ErrCanceled = errors.New("save canceled")
)

// LoadError records a primary read failure. It is not returned by Open on its
// own; it triggers the repair read and is reported through LoadResult.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RepairError is returned by Open when both the primary and the repair read
// failed. The session is left as it was before the call.
type RepairError struct {
	Path    string
	Primary error
	Repair  error
}

func (e *RepairError) Error() string {
	return fmt.Sprintf("failed to open %s: %v; repair failed: %v", e.Path, e.Primary, e.Repair)
}

func (e *RepairError) Unwrap() []error { return []error{e.Primary, e.Repair} }

// SaveError is returned when a table could not be written. The in-memory
// table and the session path are unchanged.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }
