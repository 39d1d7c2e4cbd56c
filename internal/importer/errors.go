// billing-api/internal/importer/errors.go
package importer

import "fmt"

// ValidationError marks a per-record failure: missing required field,
// malformed currency value, unresolvable required reference. The record is
// skipped and the batch continues.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// InfrastructureError marks a batch-fatal failure: connectivity loss, failed
// commit. The whole run is rolled back and the caller gets a single failure
// instead of a per-row summary.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("bulk load failed during %s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}
