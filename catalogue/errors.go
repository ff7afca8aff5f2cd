package catalogue

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a point lookup or targeted update
	// matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID is returned when an insert would reuse an existing id.
	ErrDuplicateID = errors.New("id already exists")

	// ErrNoReferences means an author already has no books. That state
	// breaks the catalogue invariant and is never expected.
	ErrNoReferences = errors.New("author has no referencing books")
)

// StoreError wraps a failure of the underlying record store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// ConsistencyWarning reports a cascade whose primary mutation was
// persisted but whose orphan-author delete failed. The author row is left
// without books and needs manual cleanup.
type ConsistencyWarning struct {
	Author Author
	Err    error
}

func (w *ConsistencyWarning) Error() string {
	return fmt.Sprintf("orphan author %d (%s) could not be removed: %v", w.Author.ID, w.Author.Name, w.Err)
}

func (w *ConsistencyWarning) Unwrap() error { return w.Err }
