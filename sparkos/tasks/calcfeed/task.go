// Package calcfeed plays calculator state snapshots into the display.
//
// Input is JSON lines, one snapshot per line:
//
//	{"op": "add", "entry": 12.5, "operandA": "12.5"}
//
// "op" is one of add, subtract, multiply, divide or empty; "entry" and
// "operandA" may be null or missing. Blank lines and lines starting with '#'
// are ignored.
package calcfeed

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	logclient "pocketcalc/sparkos/client/logger"
	"pocketcalc/sparkos/calc"
	"pocketcalc/sparkos/kernel"
	"pocketcalc/sparkos/proto"
)

const maxLineBytes = 4096

// Config tunes playback.
type Config struct {
	// DelayTicks is waited between two snapshots.
	DelayTicks uint64
	// RetryLimit bounds the tick-spaced resends while the display queue is full.
	RetryLimit int
}

type Task struct {
	r      io.Reader
	to     kernel.Capability
	logCap kernel.Capability
	cfg    Config

	sent    int
	skipped int
	dropped int
}

func New(r io.Reader, to kernel.Capability, logCap kernel.Capability, cfg Config) *Task {
	return &Task{r: r, to: to, logCap: logCap, cfg: cfg}
}

// DecodeSnapshot parses one JSON snapshot line.
func DecodeSnapshot(b []byte) (calc.State, error) {
	var s calc.State
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return calc.State{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if !s.Op.Valid() {
		return calc.State{}, fmt.Errorf("decode snapshot: invalid operator %d", s.Op)
	}
	return s, nil
}

func (t *Task) Run(ctx *kernel.Context) {
	if t.r == nil || !t.to.Valid() {
		return
	}

	sc := bufio.NewScanner(t.r)
	sc.Buffer(make([]byte, 0, 256), maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		s, err := DecodeSnapshot(line)
		if err != nil {
			t.skipped++
			logclient.Log(ctx, t.logCap, fmt.Sprintf("warn: calcfeed: line %d: %v", lineNo, err))
			continue
		}

		if t.sent > 0 {
			t.wait(ctx)
		}
		res := ctx.SendToCapRetry(t.to, uint16(proto.MsgCalcState), proto.CalcStatePayload(s), kernel.Capability{}, t.cfg.RetryLimit)
		if res != kernel.SendOK {
			t.dropped++
			logclient.Log(ctx, t.logCap, fmt.Sprintf("warn: calcfeed: line %d: send: %s", lineNo, res))
			continue
		}
		t.sent++
	}
	if err := sc.Err(); err != nil {
		logclient.Log(ctx, t.logCap, fmt.Sprintf("error: calcfeed: read: %v", err))
	}
	logclient.Log(ctx, t.logCap, fmt.Sprintf("calcfeed: done sent=%d skipped=%d dropped=%d", t.sent, t.skipped, t.dropped))
}

func (t *Task) wait(ctx *kernel.Context) {
	last := ctx.NowTick()
	for i := uint64(0); i < t.cfg.DelayTicks; i++ {
		last = ctx.WaitTick(last)
	}
}
