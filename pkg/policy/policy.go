// Package policy applies the log-and-suppress or propagate decision at a layer boundary.
package policy

import (
	"storecheck/pkg/logging"
)

// Policy is the error tolerance of one layer (engine or provider).
type Policy struct {
	IgnoreErrors bool
	Logger       *logging.Logger
}

// Apply returns (value, nil) when err is nil. Otherwise it either logs err as a warning
// and returns the zero value with a nil error, or returns err unchanged.
func Apply[T any](p Policy, scope string, value T, err error) (T, error) {
	if err == nil {
		return value, nil
	}

	var zero T
	if p.IgnoreErrors {
		logging.OrNoOp(p.Logger).Warn(scope+" failed, result ignored", "error", err)
		return zero, nil
	}
	return zero, err
}
