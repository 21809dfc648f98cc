package winconsole

import (
	"errors"
	"fmt"
)

// ErrUnsupported is wrapped by Open on platforms without a Windows console.
var ErrUnsupported = errors.New("windows console is not available on this platform")

// InitError reports a failure while acquiring the console: the standard
// output handle, its buffer geometry, or the alternate screen buffer.
// The CLI checks for it to suggest the portable backend.
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string {
	if e == nil {
		return "console init failed"
	}
	if e.Err == nil {
		return fmt.Sprintf("console init: %s failed", e.Op)
	}
	return fmt.Sprintf("console init: %s: %v", e.Op, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

func IsInitError(err error) bool {
	var e *InitError
	return errors.As(err, &e)
}
