package hal

import (
	"errors"
	"io"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Time provides a base tick stream.
//
// The tick duration is platform-defined; higher-level timers live in userland.
type Time interface {
	Ticks() <-chan uint64
}

// Serial is a byte stream to the outside world (UART on devices, stdio on host).
type Serial interface {
	io.Reader
	io.Writer
}

// HAL provides the only contact point between the OS and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Time() Time
	Serial() Serial
}

// App is what the host runners drive: Step once per tick, then Stop once when
// the run ends. Stop returns after the app has finished drawing.
type App interface {
	Step() error
	Stop()
}

// AppFunc adapts a step function that has nothing to stop.
type AppFunc func() error

func (f AppFunc) Step() error {
	if f == nil {
		return nil
	}
	return f()
}

func (AppFunc) Stop() {}
