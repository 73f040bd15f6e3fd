package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpLabelsComplete(t *testing.T) {
	seen := map[string]bool{}
	for _, op := range Ops {
		label := op.Label()
		require.NotEmpty(t, label, "op %s has no label", op)
		assert.False(t, seen[label], "duplicate label %q", label)
		seen[label] = true
	}
	assert.Empty(t, OpNone.Label())
	assert.Empty(t, Op(42).Label())
}

func TestParseOp(t *testing.T) {
	for _, op := range Ops {
		got, err := ParseOp(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}

	got, err := ParseOp("")
	require.NoError(t, err)
	assert.Equal(t, OpNone, got)

	got, err = ParseOp("none")
	require.NoError(t, err)
	assert.Equal(t, OpNone, got)

	_, err = ParseOp("modulo")
	assert.Error(t, err)
}

func TestOpText(t *testing.T) {
	b, err := OpMultiply.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "multiply", string(b))

	var op Op
	require.NoError(t, op.UnmarshalText([]byte("divide")))
	assert.Equal(t, OpDivide, op)

	assert.Error(t, op.UnmarshalText([]byte("pow")))
	assert.Equal(t, OpDivide, op)

	_, err = Op(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "op(9)", Op(9).String())
}
