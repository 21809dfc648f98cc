package winconsole

import (
	"unicode/utf16"

	"github.com/fchimpan/textloop/internal/screen"
)

// charInfo mirrors CHAR_INFO with the wide-character member of the union.
type charInfo struct {
	char uint16
	attr uint16
}

// smallRect mirrors SMALL_RECT.
type smallRect struct {
	left   int16
	top    int16
	right  int16
	bottom int16
}

func toSmallRect(r screen.Rect) smallRect {
	return smallRect{
		left:   int16(r.Left),
		top:    int16(r.Top),
		right:  int16(r.Right),
		bottom: int16(r.Bottom),
	}
}

func (r smallRect) rect() screen.Rect {
	return screen.Rect{Left: int(r.left), Top: int(r.top), Right: int(r.right), Bottom: int(r.bottom)}
}

// coordArg packs a COORD for APIs that take it by value.
func coordArg(x, y int) uintptr {
	return uintptr(uint32(uint16(int16(x))) | uint32(uint16(int16(y)))<<16)
}

func cellToCharInfo(c screen.Cell) charInfo {
	r := c.Char
	if r == 0 {
		r = ' '
	}
	if r > 0xFFFF || utf16.IsSurrogate(r) {
		r = '?'
	}
	return charInfo{char: uint16(r), attr: uint16(c.Attr)}
}

func charInfoToCell(ci charInfo) screen.Cell {
	return screen.Cell{Char: rune(ci.char), Attr: screen.Attr(ci.attr)}
}

// packCells copies a w x h window of src (a grid of srcSize, window origin
// at) into dst, row-major. Cells outside src become blanks.
func packCells(dst []charInfo, src []screen.Cell, srcSize screen.Size, at screen.Point, w, h int) {
	for y := 0; y < h; y++ {
		sy := at.Y + y
		for x := 0; x < w; x++ {
			sx := at.X + x
			cell := screen.Blank
			if sx >= 0 && sy >= 0 && sx < srcSize.W && sy < srcSize.H {
				cell = src[sy*srcSize.W+sx]
			}
			dst[y*w+x] = cellToCharInfo(cell)
		}
	}
}

// unpackCells copies a w x h block out of src, a row-major grid with the
// given stride whose block starts at from, into dst (a grid of dstSize)
// with the block's top-left cell landing at at. Cells outside dst are
// dropped.
func unpackCells(dst []screen.Cell, dstSize screen.Size, at screen.Point, src []charInfo, stride int, from screen.Point, w, h int) {
	for y := 0; y < h; y++ {
		dy := at.Y + y
		if dy < 0 || dy >= dstSize.H {
			continue
		}
		row := (from.Y + y) * stride
		for x := 0; x < w; x++ {
			dx := at.X + x
			if dx < 0 || dx >= dstSize.W {
				continue
			}
			dst[dy*dstSize.W+dx] = charInfoToCell(src[row+from.X+x])
		}
	}
}

// growScratch returns buf resized to n entries, reallocating only when it
// is too small.
func growScratch(buf []charInfo, n int) []charInfo {
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]charInfo, n)
}
