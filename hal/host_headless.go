package hal

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Host HostConfig

	Hz    int
	Ticks uint64

	// DumpPNG, when set, receives the last frame after the run ends.
	DumpPNG string
}

// RunHeadless runs the OS without opening a window.
// The app is stopped before the frame is dumped.
func RunHeadless(ctx context.Context, newApp func(HAL) App, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := newHostHAL(cfg.Host)
	app := newApp(h)
	if app == nil {
		app = AppFunc(nil)
	}

	err := runTicks(ctx, h, app.Step, d, cfg.Ticks)
	app.Stop()
	if cfg.DumpPNG != "" {
		if derr := dumpPNG(h.fb, cfg.DumpPNG); derr != nil && err == nil {
			err = derr
		}
	}
	return err
}

func runTicks(ctx context.Context, h *hostHAL, step func() error, d time.Duration, limit uint64) error {
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.t.step(1)
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if limit > 0 && tick >= limit {
				return nil
			}
		}
	}
}

func dumpPNG(fb *hostFramebuffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump frame: %w", err)
	}
	if err := png.Encode(f, fb.image()); err != nil {
		f.Close()
		return fmt.Errorf("dump frame: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("dump frame: %w", err)
	}
	return nil
}
