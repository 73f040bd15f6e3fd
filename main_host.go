package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"pocketcalc/app"
	"pocketcalc/hal"
	"pocketcalc/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("pocketcalc", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file.")
	headless := fs.Bool("headless", false, "Run without a window.")
	hz := fs.Int("hz", 0, "Tick rate in headless mode.")
	ticks := fs.Uint64("ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	scale := fs.Int("scale", 0, "Window scale factor.")
	feed := fs.String("feed", "", `JSON-lines state snapshots ("-" = stdin).`)
	feedDelay := fs.Duration("feed-delay", 0, "Pause between snapshots.")
	dump := fs.String("dump", "", "Write the last headless frame to this PNG file.")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error).")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "headless":
			cfg.Headless = *headless
		case "hz":
			cfg.Hz = *hz
		case "ticks":
			cfg.Ticks = *ticks
		case "scale":
			cfg.Scale = *scale
		case "feed":
			cfg.Feed = *feed
		case "feed-delay":
			cfg.FeedDelay = *feedDelay
		case "dump":
			cfg.Dump = *dump
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	appCfg := app.Config{
		FeedDelayTicks: cfg.FeedDelayTicks(),
		FeedRetry:      cfg.FeedRetry,
	}
	hostCfg := hal.HostConfig{
		Width:    cfg.Width,
		Height:   cfg.Height,
		LogLevel: cfg.LogLevel,
	}
	switch cfg.Feed {
	case "":
	case "-":
		appCfg.FeedSerial = true
		hostCfg.SerialInput = os.Stdin
		hostCfg.SerialOutput = io.Discard
	default:
		f, err := os.Open(cfg.Feed)
		if err != nil {
			return fmt.Errorf("open feed: %w", err)
		}
		defer f.Close()
		appCfg.Feed = f
	}

	newApp := func(h hal.HAL) hal.App {
		return app.NewWithConfig(h, appCfg)
	}

	if cfg.Headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{
			Host:    hostCfg,
			Hz:      cfg.Hz,
			Ticks:   cfg.Ticks,
			DumpPNG: cfg.Dump,
		})
	}
	return hal.RunWindow(newApp, hostCfg, cfg.Scale)
}
