package screen

// Console is the set of screen-buffer capabilities the compositor needs.
// A backend owns two buffers: the primary one the host process writes its
// standard output to, and an alternate one the compositor paints frames
// into.
type Console interface {
	// Info reports the primary buffer's size, cursor and visible window.
	Info() (BufferInfo, error)

	// ReadRegion copies the src rectangle of the primary buffer into dst,
	// a row-major grid of dstSize, placing src's top-left cell at at.
	// Cells falling outside dst are dropped.
	ReadRegion(src Rect, dst []Cell, dstSize Size, at Point) error

	// WriteRegion copies cells from src, a row-major grid of srcSize
	// starting at at, into the dst rectangle of the alternate buffer.
	WriteRegion(dst Rect, src []Cell, srcSize Size, at Point) error

	// Activate makes the alternate buffer visible when alt is true and
	// the primary buffer visible otherwise.
	Activate(alt bool) error

	SetCursorVisible(visible bool) error
}
