package llm

import (
	"fmt"

	"github.com/h0ng79/Botcare/internal/models"
)

// ModelError reports a failed model invocation (timeout, quota, malformed
// response). Not retried; callers decide.
type ModelError struct {
	Backend models.Backend
	Err     error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("llm: %s invocation: %v", e.Backend, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }
