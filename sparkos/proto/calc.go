package proto

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"pocketcalc/sparkos/calc"
)

const (
	calcFlagEntry uint8 = 1 << iota
	calcFlagOperand
)

const calcHeaderBytes = 1 + 1 + 8 + 1

// MaxOperandBytes is the longest operand text carried by a state payload.
const MaxOperandBytes = 96

// CalcStatePayload encodes a calculator state snapshot.
//
// Layout (little-endian):
//   - u8: op
//   - u8: flags (bit0 entry present, bit1 operand present)
//   - u64: entry float64 bits (zero when absent)
//   - u8: operand length
//   - bytes: operand text, cut to MaxOperandBytes on a rune boundary
func CalcStatePayload(s calc.State) []byte {
	var operand []byte
	var flags uint8
	var bits uint64
	if s.Entry != nil {
		flags |= calcFlagEntry
		bits = math.Float64bits(*s.Entry)
	}
	if s.OperandA != nil {
		flags |= calcFlagOperand
		operand = []byte(*s.OperandA)
		if len(operand) > MaxOperandBytes {
			n := MaxOperandBytes
			for n > 0 && !utf8.RuneStart(operand[n]) {
				n--
			}
			operand = operand[:n]
		}
	}

	buf := make([]byte, calcHeaderBytes+len(operand))
	buf[0] = byte(s.Op)
	buf[1] = flags
	binary.LittleEndian.PutUint64(buf[2:10], bits)
	buf[10] = uint8(len(operand))
	copy(buf[calcHeaderBytes:], operand)
	return buf
}

// DecodeCalcStatePayload decodes a CalcStatePayload.
func DecodeCalcStatePayload(b []byte) (calc.State, bool) {
	if len(b) < calcHeaderBytes {
		return calc.State{}, false
	}
	op := calc.Op(b[0])
	flags := b[1]
	n := int(b[10])
	if !op.Valid() || flags&^(calcFlagEntry|calcFlagOperand) != 0 || len(b) != calcHeaderBytes+n {
		return calc.State{}, false
	}
	if flags&calcFlagOperand == 0 && n != 0 {
		return calc.State{}, false
	}

	s := calc.State{Op: op}
	if flags&calcFlagEntry != 0 {
		v := math.Float64frombits(binary.LittleEndian.Uint64(b[2:10]))
		s.Entry = &v
	}
	if flags&calcFlagOperand != 0 {
		operand := string(b[calcHeaderBytes:])
		s.OperandA = &operand
	}
	return s, true
}
