package app

import (
	"io"
	"sync"

	"pocketcalc/hal"
	"pocketcalc/internal/buildinfo"
	"pocketcalc/sparkos/kernel"
	"pocketcalc/sparkos/proto"
	"pocketcalc/sparkos/services/logger"
	"pocketcalc/sparkos/tasks/calcfeed"
	"pocketcalc/sparkos/tasks/calcview"
)

// App is the running OS as the host runners see it.
type App struct {
	k *kernel.Kernel

	logEP  kernel.Capability
	viewEP kernel.Capability

	logTask  kernel.TaskID
	viewTask kernel.TaskID

	stopOnce sync.Once
}

var _ hal.App = (*App)(nil)

type Config struct {
	// Feed supplies JSON-lines state snapshots. FeedSerial reads them from
	// the HAL serial line instead.
	Feed       io.Reader
	FeedSerial bool

	FeedDelayTicks uint64
	FeedRetry      int
}

// NewWithConfig initializes and starts the OS.
func NewWithConfig(h hal.HAL, cfg Config) *App {
	installPanicHandler(h)

	k := kernel.New()
	a := &App{
		k:      k,
		logEP:  k.NewEndpoint(kernel.RightSend | kernel.RightRecv),
		viewEP: k.NewEndpoint(kernel.RightSend | kernel.RightRecv),
	}
	logSend := a.logEP.Restrict(kernel.RightSend)

	a.logTask, _ = k.AddTask(logger.New(h.Logger(), a.logEP.Restrict(kernel.RightRecv)))
	a.viewTask, _ = k.AddTask(calcview.New(h.Display(), a.viewEP.Restrict(kernel.RightRecv), logSend))

	feed := cfg.Feed
	if cfg.FeedSerial {
		feed = h.Serial()
	}
	if feed != nil {
		k.AddTask(calcfeed.New(feed, a.viewEP.Restrict(kernel.RightSend), logSend, calcfeed.Config{
			DelayTicks: cfg.FeedDelayTicks,
			RetryLimit: cfg.FeedRetry,
		}))
	}

	if ht := h.Time(); ht != nil {
		if ch := ht.Ticks(); ch != nil {
			go func() {
				for seq := range ch {
					k.TickTo(seq)
				}
			}()
		}
	}

	if l := h.Logger(); l != nil {
		l.WriteLineString("pocketcalc " + buildinfo.Short() + " started")
	}
	return a
}

func (a *App) Step() error { return nil }

// Stop shuts the display task down and waits until it has drawn its last
// frame, then drains and stops the logger. The feed task is left alone: it
// may be blocked reading its input, and its sends fail once the display
// endpoint is gone.
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		if res := a.k.SendToCapResult(a.viewEP, uint16(proto.MsgAppShutdown), nil, kernel.Capability{}); res != kernel.SendOK {
			a.k.CloseEndpoint(a.viewEP)
		}
		<-a.k.Done(a.viewTask)
		a.k.CloseEndpoint(a.viewEP)

		a.k.CloseEndpoint(a.logEP)
		<-a.k.Done(a.logTask)
	})
}
