package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgCalcState
	MsgAppShutdown
)

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgCalcState:
		return "calc_state"
	case MsgAppShutdown:
		return "app_shutdown"
	default:
		return "unknown"
	}
}

// LogLinePayload encodes a MsgLogLine payload: UTF-8 bytes without a trailing
// newline. The slice is copied so the caller may reuse b.
func LogLinePayload(b []byte) []byte {
	if b == nil {
		return nil
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
