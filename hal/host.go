package hal

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultWidth  = 320
	defaultHeight = 320
)

// HostConfig configures the host HAL.
type HostConfig struct {
	Width  int
	Height int

	// LogLevel is a zerolog level name ("debug", "info", "warn", ...).
	LogLevel  string
	LogOutput io.Writer

	// SerialInput and SerialOutput default to stdin and stdout.
	SerialInput  io.Reader
	SerialOutput io.Writer
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	t      *hostTime
	serial *hostSerial
}

// NewHost returns a host HAL implementation.
func NewHost(cfg HostConfig) HAL {
	return newHostHAL(cfg)
}

func newHostHAL(cfg HostConfig) *hostHAL {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	if cfg.LogOutput == nil {
		cfg.LogOutput = os.Stderr
	}
	if cfg.SerialInput == nil {
		cfg.SerialInput = os.Stdin
	}
	if cfg.SerialOutput == nil {
		cfg.SerialOutput = os.Stdout
	}
	return &hostHAL{
		logger: newHostLogger(cfg.LogOutput, cfg.LogLevel),
		fb:     newHostFramebuffer(cfg.Width, cfg.Height),
		t:      newHostTime(),
		serial: &hostSerial{r: cfg.SerialInput, w: cfg.SerialOutput},
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Time() Time       { return h.t }
func (h *hostHAL) Serial() Serial   { return h.serial }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

// hostLogger forwards task log lines to zerolog. An "error: ", "warn: " or "debug: "
// prefix selects the level; everything else logs at info.
type hostLogger struct {
	zl zerolog.Logger
}

func newHostLogger(w io.Writer, level string) *hostLogger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	return &hostLogger{zl: zl}
}

func (l *hostLogger) WriteLineString(s string) {
	ev := l.zl.Info()
	switch {
	case strings.HasPrefix(s, "error: "):
		ev = l.zl.Error()
		s = strings.TrimPrefix(s, "error: ")
	case strings.HasPrefix(s, "warn: "):
		ev = l.zl.Warn()
		s = strings.TrimPrefix(s, "warn: ")
	case strings.HasPrefix(s, "debug: "):
		ev = l.zl.Debug()
		s = strings.TrimPrefix(s, "debug: ")
	}
	ev.Msg(s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}

type hostSerial struct {
	mu sync.Mutex
	r  io.Reader
	w  io.Writer
}

func (s *hostSerial) Read(p []byte) (int, error) {
	if s.r == nil {
		return 0, ErrNotImplemented
	}
	return s.r.Read(p)
}

func (s *hostSerial) Write(p []byte) (int, error) {
	if s.w == nil {
		return 0, ErrNotImplemented
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
