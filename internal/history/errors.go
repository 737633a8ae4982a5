package history

import (
	"errors"
	"fmt"
)

// StoreError reports a transport-level failure talking to the backing
// store. The documented tolerant cases (loading an absent log, deleting an
// absent log) are not errors and never produce one.
type StoreError struct {
	Op         string
	Collection string
	Name       string
	Err        error
}

func (e *StoreError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("history: %s %s: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("history: %s %s/%s: %v", e.Op, e.Collection, e.Name, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// errNotExist marks a blob lookup miss inside a backend. The store maps it
// to the tolerant empty-result behaviour instead of surfacing it.
var errNotExist = errors.New("blob does not exist")
