package screen

import (
	"errors"
	"fmt"
)

var ErrOrigin = errors.New("screen: overlay origin outside the frame")

// noOverlay is the watermark before any overlay has been painted, so a
// single-row overlay (bottom row 0) stays distinguishable from none.
const noOverlay = -1

// Compositor paints overlay text into a private copy buffer, stitches the
// tail of the primary buffer underneath it and presents the result on the
// console's alternate buffer.
//
// A Compositor is owned by the loop goroutine; it is not safe for
// concurrent use.
type Compositor struct {
	console Console
	size    Size

	// buf is the copy buffer. It is allocated once in NewCompositor with
	// exactly size.Cells() entries and overwritten in place afterwards.
	buf []Cell

	bottom  int
	overlay Rect
}

// NewCompositor captures the frame size from the primary buffer's visible
// window. The size is fixed for the compositor's lifetime.
func NewCompositor(c Console) (*Compositor, error) {
	if c == nil {
		return nil, errors.New("screen: nil console")
	}
	info, err := c.Info()
	if err != nil {
		return nil, fmt.Errorf("query screen buffer: %w", err)
	}
	size := Size{W: info.Window.Width(), H: info.Window.Height()}
	if size.Cells() == 0 {
		return nil, fmt.Errorf("screen buffer has no visible cells (%dx%d)", size.W, size.H)
	}

	buf := make([]Cell, size.Cells())
	for i := range buf {
		buf[i] = Blank
	}
	return &Compositor{
		console: c,
		size:    size,
		buf:     buf,
		bottom:  noOverlay,
		overlay: Rect{Left: 0, Top: 0, Right: -1, Bottom: -1},
	}, nil
}

// Size returns the frame dimensions.
func (c *Compositor) Size() Size { return c.size }

// OverlayBottom returns the last row the overlay occupies. It starts at -1,
// not 0, meaning no overlay has been painted yet.
func (c *Compositor) OverlayBottom() int { return c.bottom }

// Overlay returns the rectangle painted by the last SetOverlay call, clipped
// to the frame.
func (c *Compositor) Overlay() Rect { return c.overlay }

// Cell reads back one cell of the copy buffer.
func (c *Compositor) Cell(x, y int) (Cell, bool) {
	if x < 0 || y < 0 || x >= c.size.W || y >= c.size.H {
		return Cell{}, false
	}
	return c.buf[y*c.size.W+x], true
}

func (c *Compositor) set(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= c.size.W || y >= c.size.H {
		return
	}
	c.buf[y*c.size.W+x] = cell
}

func (c *Compositor) fill(r Rect, cell Cell) {
	r = r.Intersect(Rect{Left: 0, Top: 0, Right: c.size.W - 1, Bottom: c.size.H - 1})
	if r.Empty() {
		return
	}
	for y := r.Top; y <= r.Bottom; y++ {
		row := c.buf[y*c.size.W : (y+1)*c.size.W]
		for x := r.Left; x <= r.Right; x++ {
			row[x] = cell
		}
	}
}

// SetOverlay paints lines as the overlay, starting at column x of row 0,
// and presents the recomposed frame. Lines beyond the frame height are
// dropped and columns beyond the frame width are clipped. Each line is
// treated as a byte string: one byte per cell.
func (c *Compositor) SetOverlay(lines []string, x int) error {
	if x < 0 || x >= c.size.W {
		return fmt.Errorf("%w: x=%d, width=%d", ErrOrigin, x, c.size.W)
	}

	if len(lines) > c.size.H {
		lines = lines[:c.size.H]
	}
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	// Overlay rows are not scraped, so blank them across the full width:
	// cells beside the panel would otherwise keep an older frame's output.
	// Rows of a previous, taller overlay are below the new bottom and get
	// refreshed by CopyStandardOutput.
	c.fill(Rect{Left: 0, Top: 0, Right: c.size.W - 1, Bottom: len(lines) - 1}, Blank)

	paintW := min(maxLen, c.size.W-x)
	for row, line := range lines {
		for col := 0; col < paintW; col++ {
			cell := Blank
			if col < len(line) {
				cell = Cell{Char: rune(line[col]), Attr: AttrNormal}
			}
			c.set(x+col, row, cell)
		}
	}

	c.overlay = Rect{Left: x, Top: 0, Right: x + paintW - 1, Bottom: len(lines) - 1}
	c.bottom = len(lines) - 1
	if len(lines) == 0 {
		c.bottom = noOverlay
	}
	return c.CopyStandardOutput()
}

// CopyStandardOutput refreshes the rows below the overlay with the most
// recent rows of the primary buffer, ending at its cursor row, and writes
// the whole copy buffer to the alternate buffer.
func (c *Compositor) CopyStandardOutput() error {
	top := c.bottom + 1
	remaining := c.size.H - 1 - c.bottom
	if remaining > 0 {
		c.fill(Rect{Left: 0, Top: top, Right: c.size.W - 1, Bottom: c.size.H - 1}, Blank)

		info, err := c.console.Info()
		if err != nil {
			return fmt.Errorf("query primary buffer: %w", err)
		}
		cursor := min(info.Cursor.Y, info.Size.H-1)
		rows := min(remaining, cursor+1)
		if rows > 0 {
			src := Rect{
				Left:   info.Window.Left,
				Top:    cursor - rows + 1,
				Right:  min(info.Window.Left+c.size.W, info.Size.W) - 1,
				Bottom: cursor,
			}
			if !src.Empty() {
				if err := c.console.ReadRegion(src, c.buf, c.size, Point{X: 0, Y: top}); err != nil {
					return fmt.Errorf("read primary buffer: %w", err)
				}
			}
		}
	}

	frame := Rect{Left: 0, Top: 0, Right: c.size.W - 1, Bottom: c.size.H - 1}
	if err := c.console.WriteRegion(frame, c.buf, c.size, Point{}); err != nil {
		return fmt.Errorf("write alternate buffer: %w", err)
	}
	return nil
}
