package graph

import "fmt"

// QueryError reports a failure from the underlying data source. It is
// propagated unchanged to callers; retry policy, if any, belongs to them.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("graph: %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
