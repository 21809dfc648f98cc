package demo

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/fchimpan/textloop/internal/keys"
)

// recentKeys is how many key names the panel remembers.
const recentKeys = 6

// panelWidth is the inner width of the status panel.
const panelWidth = 28

// Overlayer is the part of loop.Driver the demo needs.
type Overlayer interface {
	SetOverlay(lines []string, x int) error
}

// panelBorder keeps the panel single-byte so every character maps to one
// cell.
var panelBorder = lipgloss.Border{
	Top:         "-",
	Bottom:      "-",
	Left:        "|",
	Right:       "|",
	TopLeft:     "+",
	TopRight:    "+",
	BottomLeft:  "+",
	BottomRight: "+",
}

var panelStyle = lipgloss.NewStyle().
	Border(panelBorder).
	Padding(0, 1).
	Width(panelWidth)

// Demo is the loop body the CLI runs. Each tick it repaints a status panel
// in the overlay and echoes every key press to out, which ends up in the
// host output the compositor shows under the panel.
type Demo struct {
	out    io.Writer
	x      int
	target Overlayer

	ticks  int
	recent []keys.Code
	err    error
}

func New(out io.Writer, x int) *Demo {
	if out == nil {
		out = io.Discard
	}
	return &Demo{out: out, x: x}
}

// Bind sets where the panel is drawn. An unbound demo only echoes keys.
func (d *Demo) Bind(o Overlayer) { d.target = o }

// Ticks returns the number of ticks seen so far.
func (d *Demo) Ticks() int { return d.ticks }

// Err returns the overlay error that stopped the demo, if any.
func (d *Demo) Err() error { return d.err }

func (d *Demo) OnTick(pressed []keys.Code) bool {
	d.ticks++

	quit := false
	for _, k := range pressed {
		fmt.Fprintf(d.out, "key %-10s code %d\n", k, int(k))
		if k == keys.Escape || k == 'Q' {
			quit = true
		}
	}
	d.recent = append(d.recent, pressed...)
	if n := len(d.recent); n > recentKeys {
		d.recent = append(d.recent[:0], d.recent[n-recentKeys:]...)
	}

	if d.target != nil {
		if err := d.target.SetOverlay(d.Panel(), d.x); err != nil {
			d.err = fmt.Errorf("draw panel: %w", err)
			return false
		}
	}
	return !quit
}

// Panel renders the status panel as overlay lines.
func (d *Demo) Panel() []string {
	names := make([]string, 0, len(d.recent))
	for _, k := range d.recent {
		names = append(names, k.String())
	}
	last := "-"
	if len(names) > 0 {
		last = ansi.Truncate(strings.Join(names, " "), panelWidth-2-len("keys "), "~")
	}

	body := strings.Join([]string{
		fmt.Sprintf("textloop  tick %d", d.ticks),
		"keys " + last,
		"Esc/Q quit",
	}, "\n")

	rendered := ansi.Strip(panelStyle.Render(body))
	return strings.Split(rendered, "\n")
}
