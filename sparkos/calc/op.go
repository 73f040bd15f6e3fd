package calc

import "fmt"

// Op is the pending arithmetic operator.
type Op uint8

const (
	OpNone Op = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

// Ops lists the operators in indicator order.
var Ops = [...]Op{OpAdd, OpSubtract, OpMultiply, OpDivide}

var opLabels = [...]string{
	OpAdd:      "+",
	OpSubtract: "-",
	OpMultiply: "*",
	OpDivide:   "/",
}

var opNames = [...]string{
	OpNone:     "",
	OpAdd:      "add",
	OpSubtract: "subtract",
	OpMultiply: "multiply",
	OpDivide:   "divide",
}

// Valid reports whether op is OpNone or one of Ops.
func (op Op) Valid() bool { return op <= OpDivide }

// Label returns the indicator text for op, or "" for OpNone.
func (op Op) Label() string {
	if op == OpNone || !op.Valid() {
		return ""
	}
	return opLabels[op]
}

func (op Op) String() string {
	if !op.Valid() {
		return fmt.Sprintf("op(%d)", uint8(op))
	}
	if op == OpNone {
		return "none"
	}
	return opNames[op]
}

// ParseOp parses the text form used by state snapshots.
// Both "" and "none" map to OpNone.
func ParseOp(s string) (Op, error) {
	if s == "none" {
		return OpNone, nil
	}
	for i, name := range opNames {
		if name == s {
			return Op(i), nil
		}
	}
	return OpNone, fmt.Errorf("unknown operator %q", s)
}

func (op Op) MarshalText() ([]byte, error) {
	if !op.Valid() {
		return nil, fmt.Errorf("invalid operator %d", uint8(op))
	}
	return []byte(opNames[op]), nil
}

func (op *Op) UnmarshalText(b []byte) error {
	v, err := ParseOp(string(b))
	if err != nil {
		return err
	}
	*op = v
	return nil
}
