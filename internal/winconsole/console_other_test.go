//go:build !windows

package winconsole

import (
	"errors"
	"testing"
)

func TestOpen_UnsupportedPlatform(t *testing.T) {
	t.Parallel()

	c, err := Open()
	if c != nil {
		t.Fatalf("expected nil console")
	}
	if !IsInitError(err) || !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected InitError wrapping ErrUnsupported, got %v", err)
	}
}
