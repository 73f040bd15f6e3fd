package logger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logclient "pocketcalc/sparkos/client/logger"
	"pocketcalc/sparkos/kernel"
	"pocketcalc/sparkos/proto"
)

type memLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *memLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, s)
}

func (l *memLogger) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

type logTask struct {
	to    kernel.Capability
	stop  func()
	lines []string
}

func (t *logTask) Run(ctx *kernel.Context) {
	for _, line := range t.lines {
		logclient.Log(ctx, t.to, line)
	}
	ctx.SendToCapResult(t.to, uint16(proto.MsgCalcState), []byte{1}, kernel.Capability{})
	t.stop()
}

func TestServiceWritesLogLines(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	log := &memLogger{}

	_, ok := k.AddTask(New(log, ep.Restrict(kernel.RightRecv)))
	require.True(t, ok)
	_, ok = k.AddTask(&logTask{
		to:    ep.Restrict(kernel.RightSend),
		stop:  func() { k.CloseEndpoint(ep) },
		lines: []string{"calcview: started", "warn: calcfeed: bad line"},
	})
	require.True(t, ok)

	k.Wait()
	assert.Equal(t, []string{"calcview: started", "warn: calcfeed: bad line"}, log.lines)
}
