package kernel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcTask func(*Context)

func (f funcTask) Run(ctx *Context) { f(ctx) }

func TestAddTaskRunsAndRecoversPanic(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)

	got := make(chan PanicInfo, 1)
	SetPanicHandler(func(info PanicInfo) { got <- info })
	defer SetPanicHandler(nil)

	_, ok := k.AddTask(funcTask(func(ctx *Context) {
		msg, ok := ctx.Recv(ep)
		if ok && msg.Kind == 99 {
			panic("boom")
		}
	}))
	require.True(t, ok)

	sender := &Context{k: k}
	require.Equal(t, SendOK, sender.SendToCapResult(ep, 99, nil, Capability{}))

	select {
	case info := <-got:
		assert.Equal(t, "boom", info.Value)
		assert.NotEmpty(t, info.Stack)
	case <-time.After(time.Second):
		t.Fatal("panic handler not called")
	}
	k.Wait()
	assert.True(t, InPanicMode())
}

func TestDoneClosesWhenTaskReturns(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)

	var got []uint16
	id, ok := k.AddTask(funcTask(func(ctx *Context) {
		ch, ok := ctx.RecvChan(ep.Restrict(RightRecv))
		if !ok {
			return
		}
		for msg := range ch {
			got = append(got, msg.Kind)
			if msg.Kind == 2 {
				return
			}
		}
	}))
	require.True(t, ok)

	select {
	case <-k.Done(id):
		t.Fatal("task reported done before it returned")
	default:
	}

	require.Equal(t, SendOK, k.SendToCapResult(ep, 1, nil, Capability{}))
	require.Equal(t, SendOK, k.SendToCapResult(ep, 2, nil, Capability{}))

	select {
	case <-k.Done(id):
	case <-time.After(time.Second):
		t.Fatal("task did not finish")
	}
	assert.Equal(t, []uint16{1, 2}, got)

	select {
	case <-k.Done(TaskID(maxTasks - 1)):
	default:
		t.Fatal("unknown task should report done")
	}
}

func TestKernelSendToCapResultChecksRights(t *testing.T) {
	k := New()
	ep := k.NewEndpoint(RightSend | RightRecv)

	assert.Equal(t, SendErrInvalidToCap, k.SendToCapResult(Capability{}, 1, nil, Capability{}))
	assert.Equal(t, SendErrToNoSendRight, k.SendToCapResult(ep.Restrict(RightRecv), 1, nil, Capability{}))
	assert.Equal(t, SendErrPayloadTooLarge, k.SendToCapResult(ep, 1, make([]byte, MaxMessageBytes+1), Capability{}))
	assert.Equal(t, SendOK, k.SendToCapResult(ep.Restrict(RightSend), 1, []byte("x"), Capability{}))
}
