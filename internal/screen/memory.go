package screen

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

const tabWidth = 8

// Memory is a Console kept entirely in memory. The primary buffer behaves
// like a minimal scrolling terminal fed through Write; escape sequences are
// stripped so only printable text lands in cells.
//
// Write may be called from any goroutine; the remaining methods are safe
// for concurrent use as well.
type Memory struct {
	mu sync.Mutex

	size    Size
	primary []Cell
	alt     []Cell
	cursor  Point

	altActive     bool
	cursorVisible bool
}

// NewMemory returns a console whose primary and alternate buffers both
// measure size.
func NewMemory(size Size) *Memory {
	m := &Memory{
		size:          size,
		primary:       make([]Cell, size.Cells()),
		alt:           make([]Cell, size.Cells()),
		cursorVisible: true,
	}
	for i := range m.primary {
		m.primary[i] = Blank
		m.alt[i] = Blank
	}
	return m
}

func (m *Memory) bounds() Rect {
	return Rect{Left: 0, Top: 0, Right: m.size.W - 1, Bottom: m.size.H - 1}
}

func (m *Memory) Info() (BufferInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return BufferInfo{Size: m.size, Cursor: m.cursor, Window: m.bounds()}, nil
}

func (m *Memory) ReadRegion(src Rect, dst []Cell, dstSize Size, at Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(dst) < dstSize.Cells() {
		return fmt.Errorf("destination holds %d cells, size needs %d", len(dst), dstSize.Cells())
	}
	clipped := src.Intersect(m.bounds())
	if clipped.Empty() {
		return nil
	}
	for y := clipped.Top; y <= clipped.Bottom; y++ {
		dy := at.Y + y - src.Top
		if dy < 0 || dy >= dstSize.H {
			continue
		}
		for x := clipped.Left; x <= clipped.Right; x++ {
			dx := at.X + x - src.Left
			if dx < 0 || dx >= dstSize.W {
				continue
			}
			dst[dy*dstSize.W+dx] = m.primary[y*m.size.W+x]
		}
	}
	return nil
}

func (m *Memory) WriteRegion(dst Rect, src []Cell, srcSize Size, at Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(src) < srcSize.Cells() {
		return fmt.Errorf("source holds %d cells, size needs %d", len(src), srcSize.Cells())
	}
	clipped := dst.Intersect(m.bounds())
	if clipped.Empty() {
		return nil
	}
	for y := clipped.Top; y <= clipped.Bottom; y++ {
		sy := at.Y + y - dst.Top
		if sy < 0 || sy >= srcSize.H {
			continue
		}
		for x := clipped.Left; x <= clipped.Right; x++ {
			sx := at.X + x - dst.Left
			if sx < 0 || sx >= srcSize.W {
				continue
			}
			m.alt[y*m.size.W+x] = src[sy*srcSize.W+sx]
		}
	}
	return nil
}

func (m *Memory) Activate(alt bool) error {
	m.mu.Lock()
	m.altActive = alt
	m.mu.Unlock()
	return nil
}

func (m *Memory) SetCursorVisible(visible bool) error {
	m.mu.Lock()
	m.cursorVisible = visible
	m.mu.Unlock()
	return nil
}

// Active reports whether the alternate buffer is the visible one.
func (m *Memory) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.altActive
}

func (m *Memory) CursorVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursorVisible
}

// Write feeds host output into the primary buffer.
func (m *Memory) Write(p []byte) (int, error) {
	text := ansi.Strip(string(p))

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.size.Cells() == 0 {
		return len(p), nil
	}
	for _, r := range text {
		switch r {
		case '\n':
			m.newline()
		case '\r':
			m.cursor.X = 0
		case '\t':
			next := (m.cursor.X/tabWidth + 1) * tabWidth
			for m.cursor.X < next && m.cursor.X < m.size.W {
				m.put(' ')
			}
		case '\b':
			if m.cursor.X > 0 {
				m.cursor.X--
			}
		default:
			if r < 0x20 || r == 0x7f {
				continue
			}
			m.put(r)
		}
	}
	return len(p), nil
}

func (m *Memory) put(r rune) {
	if m.cursor.X >= m.size.W {
		m.newline()
	}
	m.primary[m.cursor.Y*m.size.W+m.cursor.X] = Cell{Char: r, Attr: AttrNormal}
	m.cursor.X++
}

func (m *Memory) newline() {
	m.cursor.X = 0
	if m.cursor.Y < m.size.H-1 {
		m.cursor.Y++
		return
	}
	copy(m.primary, m.primary[m.size.W:])
	last := m.primary[(m.size.H-1)*m.size.W:]
	for i := range last {
		last[i] = Blank
	}
}

// Snapshot returns a copy of one buffer as rows of cells.
func (m *Memory) Snapshot(alt bool) [][]Cell {
	m.mu.Lock()
	defer m.mu.Unlock()

	src := m.primary
	if alt {
		src = m.alt
	}
	rows := make([][]Cell, m.size.H)
	for y := range rows {
		rows[y] = append([]Cell(nil), src[y*m.size.W:(y+1)*m.size.W]...)
	}
	return rows
}

// Lines returns one buffer as text with trailing blanks trimmed.
func (m *Memory) Lines(alt bool) []string {
	rows := m.Snapshot(alt)
	out := make([]string, len(rows))
	var b strings.Builder
	for y, row := range rows {
		b.Reset()
		for _, cell := range row {
			b.WriteRune(cell.Char)
		}
		out[y] = strings.TrimRight(b.String(), " ")
	}
	return out
}
