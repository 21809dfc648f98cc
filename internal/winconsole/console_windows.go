//go:build windows

package winconsole

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/fchimpan/textloop/internal/screen"
)

var (
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	msvcrt   = windows.NewLazySystemDLL("msvcrt.dll")

	procCreateConsoleScreenBuffer    = kernel32.NewProc("CreateConsoleScreenBuffer")
	procSetConsoleActiveScreenBuffer = kernel32.NewProc("SetConsoleActiveScreenBuffer")
	procSetConsoleScreenBufferSize   = kernel32.NewProc("SetConsoleScreenBufferSize")
	procReadConsoleOutputW           = kernel32.NewProc("ReadConsoleOutputW")
	procWriteConsoleOutputW          = kernel32.NewProc("WriteConsoleOutputW")
	procGetConsoleCursorInfo         = kernel32.NewProc("GetConsoleCursorInfo")
	procSetConsoleCursorInfo         = kernel32.NewProc("SetConsoleCursorInfo")

	procKbhit = msvcrt.NewProc("_kbhit")
	procGetch = msvcrt.NewProc("_getch")
)

const consoleTextmodeBuffer = 0x1

type cursorInfo struct {
	size    uint32
	visible int32
}

// Console drives the real Windows console: the process's standard output
// buffer is the primary buffer and a buffer created by Open is the
// alternate one. Keyboard input comes from the C runtime's _kbhit/_getch,
// which already produce the 0x00/0xE0 extended-key sequences.
type Console struct {
	stdout windows.Handle
	alt    windows.Handle

	scratch []charInfo
}

// Open acquires the standard output buffer and creates an alternate buffer
// sized to the visible window.
func Open() (*Console, error) {
	stdout, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return nil, &InitError{Op: "get standard output handle", Err: err}
	}
	if stdout == 0 || stdout == windows.InvalidHandle {
		return nil, &InitError{Op: "get standard output handle", Err: windows.ERROR_INVALID_HANDLE}
	}

	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(stdout, &info); err != nil {
		return nil, &InitError{Op: "query standard output buffer", Err: err}
	}

	r, _, err := procCreateConsoleScreenBuffer.Call(
		uintptr(windows.GENERIC_READ|windows.GENERIC_WRITE),
		uintptr(windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE),
		0,
		consoleTextmodeBuffer,
		0,
	)
	alt := windows.Handle(r)
	if alt == windows.InvalidHandle || alt == 0 {
		return nil, &InitError{Op: "create screen buffer", Err: err}
	}

	w := int(info.Window.Right-info.Window.Left) + 1
	h := int(info.Window.Bottom-info.Window.Top) + 1
	// Shrinking can fail when the new buffer's window is larger than w x h;
	// the buffer is then at least as large as the frame, which is enough.
	_, _, _ = procSetConsoleScreenBufferSize.Call(uintptr(alt), coordArg(w, h))

	return &Console{stdout: stdout, alt: alt}, nil
}

// Close releases the alternate buffer. The primary buffer must be active.
func (c *Console) Close() error {
	if c.alt == 0 {
		return nil
	}
	err := windows.CloseHandle(c.alt)
	c.alt = 0
	return err
}

func (c *Console) Info() (screen.BufferInfo, error) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(c.stdout, &info); err != nil {
		return screen.BufferInfo{}, fmt.Errorf("GetConsoleScreenBufferInfo: %w", err)
	}
	return screen.BufferInfo{
		Size:   screen.Size{W: int(info.Size.X), H: int(info.Size.Y)},
		Cursor: screen.Point{X: int(info.CursorPosition.X), Y: int(info.CursorPosition.Y)},
		Window: screen.Rect{
			Left:   int(info.Window.Left),
			Top:    int(info.Window.Top),
			Right:  int(info.Window.Right),
			Bottom: int(info.Window.Bottom),
		},
	}, nil
}

func (c *Console) ReadRegion(src screen.Rect, dst []screen.Cell, dstSize screen.Size, at screen.Point) error {
	if src.Empty() {
		return nil
	}
	if len(dst) < dstSize.Cells() {
		return fmt.Errorf("destination holds %d cells, size needs %d", len(dst), dstSize.Cells())
	}
	w, h := src.Width(), src.Height()
	c.scratch = growScratch(c.scratch, w*h)

	region := toSmallRect(src)
	r, _, err := procReadConsoleOutputW.Call(
		uintptr(c.stdout),
		uintptr(unsafe.Pointer(&c.scratch[0])),
		coordArg(w, h),
		coordArg(0, 0),
		uintptr(unsafe.Pointer(&region)),
	)
	if r == 0 {
		return fmt.Errorf("ReadConsoleOutputW: %w", err)
	}

	// The console clips region to the buffer; shift the destination by the
	// rows and columns it cut from the top-left.
	read := region.rect()
	skip := screen.Point{X: read.Left - src.Left, Y: read.Top - src.Top}
	offset := screen.Point{X: at.X + skip.X, Y: at.Y + skip.Y}
	unpackCells(dst, dstSize, offset, c.scratch, w, skip, read.Width(), read.Height())
	return nil
}

func (c *Console) WriteRegion(dst screen.Rect, src []screen.Cell, srcSize screen.Size, at screen.Point) error {
	if dst.Empty() {
		return nil
	}
	if len(src) < srcSize.Cells() {
		return fmt.Errorf("source holds %d cells, size needs %d", len(src), srcSize.Cells())
	}
	w, h := dst.Width(), dst.Height()
	c.scratch = growScratch(c.scratch, w*h)
	packCells(c.scratch, src, srcSize, at, w, h)

	region := toSmallRect(dst)
	r, _, err := procWriteConsoleOutputW.Call(
		uintptr(c.alt),
		uintptr(unsafe.Pointer(&c.scratch[0])),
		coordArg(w, h),
		coordArg(0, 0),
		uintptr(unsafe.Pointer(&region)),
	)
	if r == 0 {
		return fmt.Errorf("WriteConsoleOutputW: %w", err)
	}
	return nil
}

func (c *Console) Activate(alt bool) error {
	h := c.stdout
	if alt {
		h = c.alt
	}
	r, _, err := procSetConsoleActiveScreenBuffer.Call(uintptr(h))
	if r == 0 {
		return fmt.Errorf("SetConsoleActiveScreenBuffer: %w", err)
	}
	return nil
}

// SetCursorVisible toggles the cursor of the alternate buffer, the only one
// the compositor ever shows.
func (c *Console) SetCursorVisible(visible bool) error {
	var ci cursorInfo
	r, _, err := procGetConsoleCursorInfo.Call(uintptr(c.alt), uintptr(unsafe.Pointer(&ci)))
	if r == 0 {
		return fmt.Errorf("GetConsoleCursorInfo: %w", err)
	}
	ci.visible = 0
	if visible {
		ci.visible = 1
	}
	r, _, err = procSetConsoleCursorInfo.Call(uintptr(c.alt), uintptr(unsafe.Pointer(&ci)))
	if r == 0 {
		return fmt.Errorf("SetConsoleCursorInfo: %w", err)
	}
	return nil
}

func (c *Console) KeyAvailable() bool {
	r, _, _ := procKbhit.Call()
	return r != 0
}

func (c *Console) ReadKey() (int, error) {
	r, _, _ := procGetch.Call()
	return int(int32(r)), nil
}
