package retrieval

import "fmt"

// RetrievalError reports a vector-index failure during a similarity
// search. Not retried; callers decide.
type RetrievalError struct {
	Query string
	Err   error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval: search %q: %v", e.Query, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }
