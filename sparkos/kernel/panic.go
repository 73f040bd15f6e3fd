package kernel

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// PanicInfo describes a panic recovered from a task goroutine.
type PanicInfo struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

var (
	panicActive  atomic.Bool
	panicOnce    sync.Once
	panicHandler atomic.Pointer[func(PanicInfo)]
)

// InPanicMode reports whether a task has panicked. Renderers should stop
// drawing once it is set so the panic screen stays visible.
func InPanicMode() bool {
	return panicActive.Load()
}

// SetPanicHandler installs a process-wide panic handler.
//
// The handler is invoked at most once (on the first panic), on the goroutine
// of the panicking task. It must not panic.
func SetPanicHandler(fn func(PanicInfo)) {
	if fn == nil {
		panicHandler.Store(nil)
		return
	}
	panicHandler.Store(&fn)
}

func triggerPanic(info PanicInfo) {
	panicOnce.Do(func() {
		panicActive.Store(true)
		info.Stack = debug.Stack()
		if fn := panicHandler.Load(); fn != nil {
			(*fn)(info)
		}
	})
}
