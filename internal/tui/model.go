package tui

import (
	"bytes"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fchimpan/textloop/internal/keys"
	"github.com/fchimpan/textloop/internal/loop"
	"github.com/fchimpan/textloop/internal/screen"
)

// Model runs a loop.Driver inside a Bubble Tea program. The driver talks to
// an in-memory console; Bubble Tea owns the real terminal, feeds key
// presses into the driver's queue and paints whichever buffer is active.
type Model struct {
	driver   *loop.Driver
	handler  loop.Handler
	console  *screen.Memory
	input    *keys.Queue
	interval time.Duration

	started bool
	done    bool
	err     error

	viewBuf bytes.Buffer
	styles  map[screen.Attr]lipgloss.Style
}

func NewModel(driver *loop.Driver, console *screen.Memory, input *keys.Queue, h loop.Handler) *Model {
	return &Model{
		driver:   driver,
		handler:  h,
		console:  console,
		input:    input,
		interval: driver.Interval(),
		styles:   make(map[screen.Attr]lipgloss.Style),
	}
}

type tickMsg time.Time

// tickCmd fires immediately for d <= 0 so the first tick is not delayed.
func tickCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return tickMsg(time.Now()) }
	}
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	if err := m.driver.Begin(); err != nil {
		m.err = err
		m.finish()
		return tea.Quit
	}
	m.started = true
	return tickCmd(0)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done {
		return m, nil
	}
	switch msg := msg.(type) {
	case tickMsg:
		cont, err := m.driver.Step(m.handler)
		if err != nil {
			m.err = err
		}
		if err != nil || !cont {
			m.finish()
			return m, tea.Quit
		}
		return m, tickCmd(m.interval)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.finish()
			return m, tea.Quit
		}
		m.input.Push(rawKey(tea.Key(msg))...)
		return m, nil
	default:
		return m, nil
	}
}

// Close restores the console if the program exited without the loop
// finishing, e.g. when its context was cancelled. It returns the first
// error the loop hit.
func (m *Model) Close() error {
	m.finish()
	return m.err
}

func (m *Model) finish() {
	if m.done {
		return
	}
	m.done = true
	if err := m.driver.End(); err != nil && m.err == nil {
		m.err = err
	}
}

func (m *Model) View() string {
	if !m.started || m.done {
		return ""
	}

	m.viewBuf.Reset()
	b := &m.viewBuf
	rows := m.console.Snapshot(m.console.Active())
	for y, row := range rows {
		// Emit runs of equal attributes so each style renders once per run.
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].Attr == row[start].Attr {
				continue
			}
			b.WriteString(m.style(row[start].Attr).Render(cellText(row[start:x])))
			start = x
		}
		if y < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func cellText(cells []screen.Cell) string {
	buf := make([]rune, len(cells))
	for i, c := range cells {
		buf[i] = c.Char
		if c.Char == 0 {
			buf[i] = ' '
		}
	}
	return string(buf)
}

func (m *Model) style(a screen.Attr) lipgloss.Style {
	if st, ok := m.styles[a]; ok {
		return st
	}
	st := lipgloss.NewStyle()
	if a != screen.AttrNormal {
		st = st.Foreground(consoleColor(a.Foreground()))
		if bg := a.Background(); bg != 0 {
			st = st.Background(consoleColor(bg))
		}
	}
	m.styles[a] = st
	return st
}

// consoleColor maps a console color index (blue=1, green=2, red=4,
// intensity=8) onto the ANSI 16-color palette (red=1, green=2, blue=4,
// bright=+8).
func consoleColor(idx int) lipgloss.Color {
	ansi := (idx&4)>>2 | idx&2 | (idx&1)<<2
	if idx&8 != 0 {
		ansi += 8
	}
	return lipgloss.Color(strconv.Itoa(ansi))
}

// rawKey encodes a key press the way the console input device reports it:
// printable characters and control keys as one byte, navigation and
// function keys as a sentinel pair. Keys the device cannot produce yield
// nothing.
func rawKey(k tea.Key) []int {
	if scan, ok := extendedScan[k.Type]; ok {
		return []int{keys.SentinelExtended, scan}
	}
	if scan, ok := nullScan[k.Type]; ok {
		return []int{keys.SentinelNull, scan}
	}

	switch k.Type {
	case tea.KeyRunes:
		out := make([]int, 0, len(k.Runes))
		for _, r := range k.Runes {
			if r > 0 && r < 0x80 {
				out = append(out, int(r))
			}
		}
		return out
	case tea.KeySpace:
		return []int{' '}
	case tea.KeyBackspace:
		return []int{'\b'}
	}
	if k.Type > 0 && k.Type < 0x80 {
		return []int{int(k.Type)}
	}
	return nil
}

var extendedScan = map[tea.KeyType]int{
	tea.KeyHome:   71,
	tea.KeyUp:     72,
	tea.KeyPgUp:   73,
	tea.KeyLeft:   75,
	tea.KeyRight:  77,
	tea.KeyEnd:    79,
	tea.KeyDown:   80,
	tea.KeyPgDown: 81,
	tea.KeyInsert: 82,
	tea.KeyDelete: 83,
	tea.KeyF11:    133,
	tea.KeyF12:    134,
}

var nullScan = map[tea.KeyType]int{
	tea.KeyF1:  59,
	tea.KeyF2:  60,
	tea.KeyF3:  61,
	tea.KeyF4:  62,
	tea.KeyF5:  63,
	tea.KeyF6:  64,
	tea.KeyF7:  65,
	tea.KeyF8:  66,
	tea.KeyF9:  67,
	tea.KeyF10: 68,
}
