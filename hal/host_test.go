package hal

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGB565RoundTrip(t *testing.T) {
	for _, c := range [][3]uint8{{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255}} {
		r, g, b := RGB888(RGB565(c[0], c[1], c[2]))
		assert.Equal(t, c, [3]uint8{r, g, b})
	}
}

func TestHostFramebufferClear(t *testing.T) {
	fb := newHostFramebuffer(4, 2)
	assert.Equal(t, 8, fb.StrideBytes())
	assert.Len(t, fb.Buffer(), 16)

	fb.ClearRGB(255, 0, 0)
	img := fb.image()
	assert.Equal(t, uint8(255), img.RGBAAt(3, 1).R)
	assert.Equal(t, uint8(0), img.RGBAAt(3, 1).G)

	require.NoError(t, fb.Present())
	assert.Equal(t, uint64(1), fb.presentCount())
}

func TestHostLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newHostLogger(&buf, "warn")

	l.WriteLineString("calcview: started")
	assert.Empty(t, buf.String(), "info should be filtered at warn level")

	l.WriteLineString("warn: calcfeed: bad line 3")
	assert.Contains(t, buf.String(), "calcfeed: bad line 3")
	assert.Contains(t, buf.String(), "WRN")
}

func TestHostSerial(t *testing.T) {
	var out bytes.Buffer
	h := NewHost(HostConfig{
		LogOutput:    io.Discard,
		SerialInput:  strings.NewReader("ping"),
		SerialOutput: &out,
	})

	b, err := io.ReadAll(h.Serial())
	require.NoError(t, err)
	assert.Equal(t, "ping", string(b))

	_, err = h.Serial().Write([]byte("pong"))
	require.NoError(t, err)
	assert.Equal(t, "pong", out.String())
}

type recordingApp struct {
	h       HAL
	steps   int
	stopped int
}

func (a *recordingApp) Step() error {
	a.steps++
	a.h.Display().Framebuffer().ClearRGB(0, 0, 255)
	return nil
}

// Stop leaves a green frame behind so the dump shows whether it ran first.
func (a *recordingApp) Stop() {
	a.stopped++
	a.h.Display().Framebuffer().ClearRGB(0, 255, 0)
}

func TestRunHeadlessStopsAppBeforeDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	cfg := HeadlessConfig{
		Host:    HostConfig{Width: 32, Height: 16, LogOutput: io.Discard, SerialInput: strings.NewReader("")},
		Hz:      1000,
		Ticks:   3,
		DumpPNG: path,
	}

	var app *recordingApp
	err := RunHeadless(context.Background(), func(h HAL) App {
		app = &recordingApp{h: h}
		return app
	}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, app.steps)
	assert.Equal(t, 1, app.stopped)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0, 0xFFFF, 0}, [3]uint32{r, g, b})
}

func TestRunHeadlessCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var app *recordingApp
	err := RunHeadless(ctx, func(h HAL) App {
		app = &recordingApp{h: h}
		return app
	}, HeadlessConfig{
		Host: HostConfig{LogOutput: io.Discard, SerialInput: strings.NewReader("")},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, app.stopped)
}

func TestRunHeadlessNilApp(t *testing.T) {
	err := RunHeadless(context.Background(), func(HAL) App { return nil }, HeadlessConfig{
		Host:  HostConfig{LogOutput: io.Discard, SerialInput: strings.NewReader("")},
		Hz:    1000,
		Ticks: 1,
	})
	assert.NoError(t, err)
}

func TestAppFunc(t *testing.T) {
	calls := 0
	var app App = AppFunc(func() error {
		calls++
		return nil
	})
	require.NoError(t, app.Step())
	app.Stop()
	assert.Equal(t, 1, calls)

	assert.NoError(t, AppFunc(nil).Step())
}
