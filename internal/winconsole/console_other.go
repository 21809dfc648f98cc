//go:build !windows

package winconsole

import "github.com/fchimpan/textloop/internal/screen"

// Console is unavailable outside Windows; Open always fails.
type Console struct{}

func Open() (*Console, error) {
	return nil, &InitError{Op: "open console", Err: ErrUnsupported}
}

func (c *Console) Close() error { return nil }

func (c *Console) Info() (screen.BufferInfo, error) { return screen.BufferInfo{}, ErrUnsupported }

func (c *Console) ReadRegion(screen.Rect, []screen.Cell, screen.Size, screen.Point) error {
	return ErrUnsupported
}

func (c *Console) WriteRegion(screen.Rect, []screen.Cell, screen.Size, screen.Point) error {
	return ErrUnsupported
}

func (c *Console) Activate(bool) error { return ErrUnsupported }

func (c *Console) SetCursorVisible(bool) error { return ErrUnsupported }

func (c *Console) KeyAvailable() bool { return false }

func (c *Console) ReadKey() (int, error) { return 0, ErrUnsupported }
