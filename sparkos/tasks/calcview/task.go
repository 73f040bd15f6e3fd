package calcview

import (
	"fmt"

	"pocketcalc/hal"
	logclient "pocketcalc/sparkos/client/logger"
	"pocketcalc/sparkos/calc"
	"pocketcalc/sparkos/kernel"
	"pocketcalc/sparkos/proto"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

// Task owns the framebuffer and draws the calculator output panel for every
// state snapshot it receives.
type Task struct {
	disp   hal.Display
	ep     kernel.Capability
	logCap kernel.Capability

	fb hal.Framebuffer

	small  tinyfont.Fonter
	medium tinyfont.Fonter
	large  tinyfont.Fonter

	state  calc.State
	frames uint64
}

func New(disp hal.Display, ep kernel.Capability, logCap kernel.Capability) *Task {
	return &Task{disp: disp, ep: ep, logCap: logCap}
}

func (t *Task) Run(ctx *kernel.Context) {
	ch, ok := ctx.RecvChan(t.ep)
	if !ok {
		return
	}
	if t.disp == nil {
		return
	}
	t.fb = t.disp.Framebuffer()
	if t.fb == nil {
		return
	}
	t.initFonts()
	t.render(ctx)

	for msg := range ch {
		switch proto.Kind(msg.Kind) {
		case proto.MsgAppShutdown:
			logclient.Log(ctx, t.logCap, fmt.Sprintf("calcview: shutdown after %d frames", t.frames))
			return

		case proto.MsgCalcState:
			s, ok := proto.DecodeCalcStatePayload(msg.Payload())
			if !ok {
				logclient.Log(ctx, t.logCap, fmt.Sprintf("warn: calcview: bad state payload (%d bytes)", msg.Len))
				continue
			}
			t.state = s
			t.render(ctx)
		}
	}
}

func (t *Task) initFonts() {
	t.small = &proggy.TinySZ8pt7b
	t.medium = &freemono.Bold9pt7b
	t.large = &freemono.Bold12pt7b
}

func (t *Task) render(ctx *kernel.Context) {
	if kernel.InPanicMode() {
		return
	}
	view := calc.Render(t.state)
	t.draw(view)
	t.frames++
	if err := t.fb.Present(); err != nil {
		logclient.Log(ctx, t.logCap, "error: calcview: present: "+err.Error())
		return
	}
	logclient.Log(ctx, t.logCap, fmt.Sprintf("debug: calcview: op=%s entry=%q", t.state.Op, calc.Format(t.state.Entry)))
}
