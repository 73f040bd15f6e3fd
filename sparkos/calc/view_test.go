package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func texts(n *Node) []string {
	var out []string
	for _, t := range n.Texts() {
		out = append(out, t.Text)
	}
	return out
}

func activeOps(s State) []Op {
	var out []Op
	for _, op := range Ops {
		if IndicatorColor(s, op) == ColorActive {
			out = append(out, op)
		}
	}
	return out
}

func TestRenderEmptyState(t *testing.T) {
	view := Render(State{})
	assert.Equal(t, []string{"+", "-", "*", "/", "", "Loading..."}, texts(view))
	assert.Empty(t, activeOps(State{}))

	require.Len(t, view.Children, 3)
	assert.Equal(t, KindVStack, view.Kind)
	assert.Equal(t, DisplayHeight, view.Height)
	assert.True(t, view.Border)
	assert.Equal(t, AlignCenter, view.Children[0].Align)
	assert.Equal(t, AlignRight, view.Children[1].Align)
	assert.Equal(t, AlignRight, view.Children[2].Align)
}

func TestRenderSingleActiveOperator(t *testing.T) {
	for _, op := range Ops {
		s := State{Op: op, Entry: ptr(12), OperandA: str("12")}
		assert.Equal(t, []Op{op}, activeOps(s))

		view := Render(s)
		for i, n := range view.Children[0].Children {
			if Ops[i] == op {
				assert.Equal(t, ColorActive, n.Color)
			} else {
				assert.Equal(t, ColorDimmed, n.Color)
			}
		}
	}
}

func TestBufferText(t *testing.T) {
	tests := []struct {
		name string
		s    State
		want string
	}{
		{"no operator", State{OperandA: str("5")}, ""},
		{"operator without operand", State{Op: OpAdd}, ""},
		{"operator and operand", State{Op: OpSubtract, OperandA: str("5")}, "5"},
		{"empty operand", State{Op: OpDivide, OperandA: str("")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.BufferText())
			assert.Equal(t, tt.want, Render(tt.s).Children[1].Children[0].Text)
		})
	}
}

func TestRenderEntry(t *testing.T) {
	entry := Render(State{Entry: ptr(1e20)}).Children[2].Children[0]
	assert.Equal(t, "1.00000000000000e+20", entry.Text)
	assert.Equal(t, SizeXLarge, entry.Size)
	assert.Equal(t, WeightBold, entry.Weight)
	assert.False(t, entry.Selectable)
}

func TestDump(t *testing.T) {
	got := Render(State{Op: OpAdd, Entry: ptr(3.5), OperandA: str("2")}).Dump()
	want := `vstack align=left gap=small padding=small border=thin height=96px
  hstack align=center gap=medium
    text "+" color=#FFFFFFFF
    text "-" color=#FFFFFF55
    text "*" color=#FFFFFF55
    text "/" color=#FFFFFF55
  hstack align=right
    text "2" color=#FFFFFF55
  hstack align=right
    text "3.5" color=#FFFFFFFF size=xlarge weight=bold
`
	assert.Equal(t, want, got)
}
