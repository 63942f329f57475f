package ffi

import (
	"errors"
	"fmt"

	"github.com/btcffi/btcffi/ffierr"
)

// ErrNotStable is returned when lowering an error that is not a variant of
// any ffierr family.
var ErrNotStable = errors.New("error is not a stable error")

// AsStableError returns the family variant held by err.
func AsStableError(err error) (ffierr.StableError, bool) {
	var stable ffierr.StableError
	if !errors.As(err, &stable) {
		return nil, false
	}

	return stable, true
}

// LowerError serializes the family variant returned by a wrapper so that it
// can cross the boundary.
func LowerError(err error) ([]byte, error) {
	stable, ok := AsStableError(err)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotStable, err)
	}

	return ffierr.Lower(stable)
}
