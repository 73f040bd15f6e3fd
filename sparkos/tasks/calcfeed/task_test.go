package calcfeed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketcalc/sparkos/calc"
	"pocketcalc/sparkos/kernel"
	"pocketcalc/sparkos/proto"
)

func TestDecodeSnapshot(t *testing.T) {
	s, err := DecodeSnapshot([]byte(`{"op":"subtract","entry":1.5,"operandA":"3"}`))
	require.NoError(t, err)
	assert.Equal(t, calc.OpSubtract, s.Op)
	require.NotNil(t, s.Entry)
	assert.Equal(t, 1.5, *s.Entry)
	require.NotNil(t, s.OperandA)
	assert.Equal(t, "3", *s.OperandA)

	s, err = DecodeSnapshot([]byte(`{"entry":null}`))
	require.NoError(t, err)
	assert.Equal(t, calc.State{}, s)
}

func TestDecodeSnapshotErrors(t *testing.T) {
	for _, in := range []string{
		`{"op":"modulo"}`,
		`{"entry":"12"}`,
		`{"value":1}`,
		`{"op":`,
	} {
		_, err := DecodeSnapshot([]byte(in))
		assert.Error(t, err, in)
	}
}

type collector struct {
	from kernel.Capability
	want int
	got  []calc.State
}

func (c *collector) Run(ctx *kernel.Context) {
	for len(c.got) < c.want {
		msg, ok := ctx.Recv(c.from)
		if !ok {
			return
		}
		if proto.Kind(msg.Kind) != proto.MsgCalcState {
			continue
		}
		s, ok := proto.DecodeCalcStatePayload(msg.Payload())
		if ok {
			c.got = append(c.got, s)
		}
	}
}

func TestRunForwardsSnapshots(t *testing.T) {
	input := strings.Join([]string{
		`# demo`,
		`{"op":"","entry":null}`,
		``,
		`{"op":"add","entry":12,"operandA":"12"}`,
		`not json`,
		`{"op":"add","entry":0.30000000000000004,"operandA":"12"}`,
	}, "\n")

	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	c := &collector{from: ep.Restrict(kernel.RightRecv), want: 3}
	_, ok := k.AddTask(c)
	require.True(t, ok)

	feed := New(strings.NewReader(input), ep.Restrict(kernel.RightSend), kernel.Capability{}, Config{})
	_, ok = k.AddTask(feed)
	require.True(t, ok)

	k.Wait()
	require.Len(t, c.got, 3)
	assert.Equal(t, calc.OpNone, c.got[0].Op)
	assert.Nil(t, c.got[0].Entry)
	assert.Equal(t, calc.OpAdd, c.got[1].Op)
	assert.Equal(t, "12", c.got[1].BufferText())
	assert.Equal(t, "0.30000000000000004", calc.Format(c.got[2].Entry))

	assert.Equal(t, 3, feed.sent)
	assert.Equal(t, 1, feed.skipped)
	assert.Equal(t, 0, feed.dropped)
}

func TestRunWithoutDestination(t *testing.T) {
	k := kernel.New()
	feed := New(strings.NewReader(`{"op":"add"}`), kernel.Capability{}, kernel.Capability{}, Config{})
	_, ok := k.AddTask(feed)
	require.True(t, ok)
	k.Wait()
	assert.Zero(t, feed.sent)
}
