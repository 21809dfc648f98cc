package screen

// Attr is a console display attribute using the Win32 bit layout:
// foreground in the low nibble, background in the next.
type Attr uint16

const (
	FgBlue      Attr = 0x0001
	FgGreen     Attr = 0x0002
	FgRed       Attr = 0x0004
	FgIntensity Attr = 0x0008
	BgBlue      Attr = 0x0010
	BgGreen     Attr = 0x0020
	BgRed       Attr = 0x0040
	BgIntensity Attr = 0x0080

	// AttrNormal is light grey on black, the attribute every overlay cell uses.
	AttrNormal = FgRed | FgGreen | FgBlue
)

// Foreground returns the 4-bit foreground color index.
func (a Attr) Foreground() int { return int(a & 0x0F) }

// Background returns the 4-bit background color index.
func (a Attr) Background() int { return int(a>>4) & 0x0F }

// Cell is one character position of a screen buffer.
type Cell struct {
	Char rune
	Attr Attr
}

// Blank is the cell used to clear vacated positions.
var Blank = Cell{Char: ' ', Attr: AttrNormal}

type Point struct {
	X int
	Y int
}

type Size struct {
	W int
	H int
}

// Cells returns the number of cells in a grid of this size.
func (s Size) Cells() int {
	if s.W <= 0 || s.H <= 0 {
		return 0
	}
	return s.W * s.H
}

// Rect is an inclusive rectangle, the same convention the Windows console
// uses for SMALL_RECT.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

func (r Rect) Width() int  { return r.Right - r.Left + 1 }
func (r Rect) Height() int { return r.Bottom - r.Top + 1 }

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Intersect returns the overlap of r and o; the result may be Empty.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
}

// BufferInfo describes the primary output buffer at one instant.
type BufferInfo struct {
	Size   Size
	Cursor Point
	Window Rect
}
