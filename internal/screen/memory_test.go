package screen

import (
	"fmt"
	"testing"
)

func TestMemory_WriteScrollsAndTracksCursor(t *testing.T) {
	t.Parallel()

	m := NewMemory(Size{W: 5, H: 3})
	fmt.Fprint(m, "a\nb\nc\nd")

	got := m.Lines(false)
	want := []string{"b", "c", "d"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("primary = %q, want %q", got, want)
		}
	}
	info, err := m.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Cursor != (Point{X: 1, Y: 2}) {
		t.Fatalf("cursor = %+v", info.Cursor)
	}
	if info.Window != (Rect{Left: 0, Top: 0, Right: 4, Bottom: 2}) {
		t.Fatalf("window = %+v", info.Window)
	}
}

func TestMemory_WrapsLongLines(t *testing.T) {
	t.Parallel()

	m := NewMemory(Size{W: 4, H: 3})
	fmt.Fprint(m, "abcdefg")
	got := m.Lines(false)
	if got[0] != "abcd" || got[1] != "efg" {
		t.Fatalf("primary = %q", got)
	}
}

func TestMemory_StripsEscapeSequences(t *testing.T) {
	t.Parallel()

	m := NewMemory(Size{W: 10, H: 2})
	fmt.Fprint(m, "\x1b[31mred\x1b[0m\r\nok\tx")
	got := m.Lines(false)
	if got[0] != "red" {
		t.Fatalf("row 0 = %q", got[0])
	}
	if got[1] != "ok      x" {
		t.Fatalf("row 1 = %q", got[1])
	}
}

func TestMemory_RegionsClipAndActivate(t *testing.T) {
	t.Parallel()

	m := NewMemory(Size{W: 4, H: 2})
	fmt.Fprint(m, "wxyz\nWXYZ")

	dst := make([]Cell, 6)
	if err := m.ReadRegion(Rect{Left: 2, Top: 0, Right: 9, Bottom: 9}, dst, Size{W: 3, H: 2}, Point{X: 1, Y: 0}); err != nil {
		t.Fatalf("ReadRegion: %v", err)
	}
	if dst[1].Char != 'y' || dst[2].Char != 'z' || dst[4].Char != 'Y' || dst[5].Char != 'Z' {
		t.Fatalf("unexpected read: %+v", dst)
	}
	if dst[0].Char != 0 || dst[3].Char != 0 {
		t.Fatalf("cells outside the source must stay untouched: %+v", dst)
	}

	src := []Cell{{Char: 'Q', Attr: AttrNormal}, {Char: 'R', Attr: AttrNormal}}
	if err := m.WriteRegion(Rect{Left: 3, Top: 1, Right: 4, Bottom: 1}, src, Size{W: 2, H: 1}, Point{}); err != nil {
		t.Fatalf("WriteRegion: %v", err)
	}
	if got := m.Lines(true)[1]; got != "   Q" {
		t.Fatalf("alt row 1 = %q", got)
	}

	if err := m.ReadRegion(Rect{Right: 1, Bottom: 1}, dst[:1], Size{W: 3, H: 2}, Point{}); err == nil {
		t.Fatalf("expected error for undersized destination")
	}

	if m.Active() {
		t.Fatalf("primary should be active initially")
	}
	_ = m.Activate(true)
	_ = m.SetCursorVisible(false)
	if !m.Active() || m.CursorVisible() {
		t.Fatalf("Activate/SetCursorVisible not recorded")
	}
}
