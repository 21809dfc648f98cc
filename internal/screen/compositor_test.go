package screen

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func newTestCompositor(t *testing.T, w, h int) (*Compositor, *Memory) {
	t.Helper()

	mem := NewMemory(Size{W: w, H: h})
	c, err := NewCompositor(mem)
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}
	return c, mem
}

func rowText(c *Compositor, y int) string {
	var b strings.Builder
	for x := 0; x < c.Size().W; x++ {
		cell, _ := c.Cell(x, y)
		b.WriteRune(cell.Char)
	}
	return b.String()
}

func TestNewCompositor_SizedToWindow(t *testing.T) {
	t.Parallel()

	c, _ := newTestCompositor(t, 12, 5)
	if got := c.Size(); got != (Size{W: 12, H: 5}) {
		t.Fatalf("size = %+v", got)
	}
	if len(c.buf) != 60 {
		t.Fatalf("copy buffer has %d cells, want 60", len(c.buf))
	}
	if c.OverlayBottom() != -1 {
		t.Fatalf("fresh compositor should report no overlay, got %d", c.OverlayBottom())
	}
}

func TestNewCompositor_RejectsEmptyWindow(t *testing.T) {
	t.Parallel()

	if _, err := NewCompositor(NewMemory(Size{})); err == nil {
		t.Fatalf("expected error for zero-sized console")
	}
	if _, err := NewCompositor(nil); err == nil {
		t.Fatalf("expected error for nil console")
	}
}

func TestSetOverlay_PaintsCellsAndWatermark(t *testing.T) {
	t.Parallel()

	c, mem := newTestCompositor(t, 10, 4)
	if err := c.SetOverlay([]string{"AB", "CD"}, 0); err != nil {
		t.Fatalf("SetOverlay: %v", err)
	}

	want := [][]rune{{'A', 'B'}, {'C', 'D'}}
	for y, row := range want {
		for x, ch := range row {
			cell, ok := c.Cell(x, y)
			if !ok {
				t.Fatalf("Cell(%d,%d) out of bounds", x, y)
			}
			if cell.Char != ch || cell.Attr != AttrNormal {
				t.Fatalf("Cell(%d,%d) = %+v, want %q with normal attr", x, y, cell, ch)
			}
		}
	}
	if c.OverlayBottom() != 1 {
		t.Fatalf("OverlayBottom = %d, want 1", c.OverlayBottom())
	}
	if got := c.Overlay(); got != (Rect{Left: 0, Top: 0, Right: 1, Bottom: 1}) {
		t.Fatalf("Overlay = %+v", got)
	}

	alt := mem.Lines(true)
	if alt[0] != "AB" || alt[1] != "CD" {
		t.Fatalf("alternate buffer not presented: %q", alt)
	}
}

func TestSetOverlay_ShortLinesBlankToMaxWidth(t *testing.T) {
	t.Parallel()

	c, _ := newTestCompositor(t, 10, 4)
	if err := c.SetOverlay([]string{"ABCD", "E"}, 2); err != nil {
		t.Fatalf("SetOverlay: %v", err)
	}
	if got := rowText(c, 1); got != "  E       " {
		t.Fatalf("row 1 = %q", got)
	}
	for x := 3; x <= 5; x++ {
		cell, _ := c.Cell(x, 1)
		if cell != Blank {
			t.Fatalf("Cell(%d,1) = %+v, want blank", x, cell)
		}
	}
	if got := c.Overlay(); got.Left != 2 || got.Right != 5 {
		t.Fatalf("Overlay = %+v, want columns 2..5", got)
	}
}

func TestSetOverlay_TruncatesToWidth(t *testing.T) {
	t.Parallel()

	c, _ := newTestCompositor(t, 8, 3)
	long := strings.Repeat("X", 50)
	if err := c.SetOverlay([]string{long}, 3); err != nil {
		t.Fatalf("SetOverlay: %v", err)
	}
	if got := rowText(c, 0); got != "   XXXXX" {
		t.Fatalf("row 0 = %q", got)
	}
	if got := c.Overlay(); got.Right != 7 {
		t.Fatalf("overlay should be clipped at the last column, got %+v", got)
	}
	if len(c.buf) != 24 {
		t.Fatalf("copy buffer must never grow, has %d cells", len(c.buf))
	}
}

func TestSetOverlay_ClampsLineCount(t *testing.T) {
	t.Parallel()

	c, _ := newTestCompositor(t, 6, 3)
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = fmt.Sprintf("L%d", i)
	}
	if err := c.SetOverlay(lines, 0); err != nil {
		t.Fatalf("SetOverlay: %v", err)
	}
	if c.OverlayBottom() != 2 {
		t.Fatalf("OverlayBottom = %d, want 2", c.OverlayBottom())
	}
	for y := 0; y < 3; y++ {
		if got, want := strings.TrimRight(rowText(c, y), " "), fmt.Sprintf("L%d", y); got != want {
			t.Fatalf("row %d = %q, want %q", y, got, want)
		}
	}
}

func TestSetOverlay_ShrinkLeavesNoStaleCells(t *testing.T) {
	t.Parallel()

	c, _ := newTestCompositor(t, 10, 6)
	if err := c.SetOverlay([]string{"ABCDEFG", "HIJKLMN", "OPQRSTU"}, 1); err != nil {
		t.Fatalf("SetOverlay: %v", err)
	}
	if err := c.SetOverlay([]string{"xy"}, 1); err != nil {
		t.Fatalf("SetOverlay: %v", err)
	}

	if got := rowText(c, 0); got != " xy       " {
		t.Fatalf("row 0 = %q", got)
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			cell, _ := c.Cell(x, y)
			if strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTU", cell.Char) {
				t.Fatalf("stale %q left at (%d,%d)", cell.Char, x, y)
			}
		}
	}
	if c.OverlayBottom() != 0 {
		t.Fatalf("OverlayBottom = %d, want 0", c.OverlayBottom())
	}
}

func TestSetOverlay_CellsBesideOverlayDropOldOutput(t *testing.T) {
	t.Parallel()

	c, mem := newTestCompositor(t, 10, 4)
	fmt.Fprint(mem, "OLDOLDOLD1")
	if err := c.CopyStandardOutput(); err != nil {
		t.Fatalf("CopyStandardOutput: %v", err)
	}
	if got := mem.Lines(true)[0]; got != "OLDOLDOLD1" {
		t.Fatalf("first frame row 0 = %q", got)
	}

	for i := 0; i < 8; i++ {
		fmt.Fprintf(mem, "new%d\n", i)
	}
	if err := c.SetOverlay([]string{"AB"}, 3); err != nil {
		t.Fatalf("SetOverlay: %v", err)
	}

	got := mem.Lines(true)
	want := []string{"   AB", "new6", "new7", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("alt buffer = %q, want %q", got, want)
		}
	}
}

func TestSetOverlay_InvalidOrigin(t *testing.T) {
	t.Parallel()

	c, _ := newTestCompositor(t, 5, 3)
	for _, x := range []int{-1, 5, 99} {
		if err := c.SetOverlay([]string{"A"}, x); !errors.Is(err, ErrOrigin) {
			t.Fatalf("SetOverlay(x=%d) error = %v, want ErrOrigin", x, err)
		}
	}
	if c.OverlayBottom() != -1 {
		t.Fatalf("rejected call must not move the watermark")
	}
}

func TestSetOverlay_EmptyClearsOverlay(t *testing.T) {
	t.Parallel()

	c, mem := newTestCompositor(t, 6, 3)
	fmt.Fprint(mem, "out")
	if err := c.SetOverlay([]string{"AAA"}, 0); err != nil {
		t.Fatalf("SetOverlay: %v", err)
	}
	if err := c.SetOverlay(nil, 0); err != nil {
		t.Fatalf("SetOverlay: %v", err)
	}
	if c.OverlayBottom() != -1 {
		t.Fatalf("OverlayBottom = %d, want -1", c.OverlayBottom())
	}
	if got := mem.Lines(true)[0]; got != "out" {
		t.Fatalf("scraped output should fill the frame, row 0 = %q", got)
	}
}

func TestCopyStandardOutput_StitchesTailBelowOverlay(t *testing.T) {
	t.Parallel()

	c, mem := newTestCompositor(t, 10, 6)
	fmt.Fprint(mem, "one\ntwo\n")

	if err := c.SetOverlay([]string{"AB", "CD"}, 0); err != nil {
		t.Fatalf("SetOverlay: %v", err)
	}
	got := mem.Lines(true)
	want := []string{"AB", "CD", "one", "two", "", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("alt buffer = %q, want %q", got, want)
		}
	}
}

func TestCopyStandardOutput_KeepsMostRecentRows(t *testing.T) {
	t.Parallel()

	c, mem := newTestCompositor(t, 10, 5)
	for i := 0; i < 20; i++ {
		fmt.Fprintf(mem, "line%d\n", i)
	}
	fmt.Fprint(mem, "tail")

	if err := c.SetOverlay([]string{"OV"}, 0); err != nil {
		t.Fatalf("SetOverlay: %v", err)
	}
	got := mem.Lines(true)
	want := []string{"OV", "line17", "line18", "line19", "tail"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("alt buffer = %q, want %q", got, want)
		}
	}
}

func TestCopyStandardOutput_FullOverlaySkipsScrape(t *testing.T) {
	t.Parallel()

	c, mem := newTestCompositor(t, 4, 2)
	fmt.Fprint(mem, "zzzz\nzzzz")
	if err := c.SetOverlay([]string{"a", "b"}, 0); err != nil {
		t.Fatalf("SetOverlay: %v", err)
	}
	got := mem.Lines(true)
	if got[0] != "a" || got[1] != "b" {
		t.Fatalf("overlay should own the whole frame, got %q", got)
	}
}

type failingConsole struct {
	*Memory
	failInfo  bool
	failWrite bool
	infoCalls int
}

func (f *failingConsole) Info() (BufferInfo, error) {
	f.infoCalls++
	if f.failInfo && f.infoCalls > 1 {
		return BufferInfo{}, errors.New("info failed")
	}
	return f.Memory.Info()
}

func (f *failingConsole) WriteRegion(dst Rect, src []Cell, srcSize Size, at Point) error {
	if f.failWrite {
		return errors.New("write failed")
	}
	return f.Memory.WriteRegion(dst, src, srcSize, at)
}

func TestCopyStandardOutput_PropagatesConsoleErrors(t *testing.T) {
	t.Parallel()

	fc := &failingConsole{Memory: NewMemory(Size{W: 4, H: 4}), failInfo: true}
	c, err := NewCompositor(fc)
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}
	if err := c.CopyStandardOutput(); err == nil || !strings.Contains(err.Error(), "query primary buffer") {
		t.Fatalf("expected wrapped info error, got %v", err)
	}

	fc.failInfo = false
	fc.failWrite = true
	if err := c.SetOverlay([]string{"x"}, 0); err == nil || !strings.Contains(err.Error(), "write alternate buffer") {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
}
