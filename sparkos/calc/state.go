package calc

// State is one snapshot of the calculator as seen by the display.
type State struct {
	Op       Op       `json:"op"`
	Entry    *float64 `json:"entry"`
	OperandA *string  `json:"operandA"`
}

// Active reports whether op is the pending operator.
func (s State) Active(op Op) bool {
	return s.Op != OpNone && s.Op == op
}

// BufferText is the first operand while an operator is pending, else "".
func (s State) BufferText() string {
	if s.Op == OpNone || s.OperandA == nil {
		return ""
	}
	return *s.OperandA
}
