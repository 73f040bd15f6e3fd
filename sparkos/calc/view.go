package calc

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Kind is the node type of a view tree.
type Kind uint8

const (
	KindVStack Kind = iota
	KindHStack
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindVStack:
		return "vstack"
	case KindHStack:
		return "hstack"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Align is the horizontal alignment of a stack's children.
// Children are always vertically centered.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Spacing is a layout hint for gaps, padding and corner radius.
type Spacing uint8

const (
	SpaceNone Spacing = iota
	SpaceSmall
	SpaceMedium
)

func (s Spacing) String() string {
	switch s {
	case SpaceSmall:
		return "small"
	case SpaceMedium:
		return "medium"
	default:
		return "none"
	}
}

// TextSize is a text size hint.
type TextSize uint8

const (
	SizeNormal TextSize = iota
	SizeXLarge
)

// Weight is a font weight hint.
type Weight uint8

const (
	WeightRegular Weight = iota
	WeightBold
)

// Colors carry straight (non-premultiplied) alpha.
var (
	ColorBlack  = color.RGBA{A: 0xFF}
	ColorActive = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	ColorDimmed = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x55}
)

// DisplayHeight is the fixed height of the output panel in pixels.
const DisplayHeight = 96

// Node is one element of a view tree. Stack fields are ignored on text nodes
// and text fields are ignored on stacks.
type Node struct {
	Kind Kind

	Align      Align
	Gap        Spacing
	Padding    Spacing
	Radius     Spacing
	Border     bool
	Height     int
	Background color.RGBA
	Children   []*Node

	Text       string
	Color      color.RGBA
	Size       TextSize
	Weight     Weight
	Selectable bool
}

// IndicatorColor is the text color of op's indicator for state s.
func IndicatorColor(s State, op Op) color.RGBA {
	if s.Active(op) {
		return ColorActive
	}
	return ColorDimmed
}

// Render builds the output panel for s: operator indicators, the pending
// operand line and the formatted entry.
func Render(s State) *Node {
	ops := make([]*Node, 0, len(Ops))
	for _, op := range Ops {
		ops = append(ops, &Node{
			Kind:  KindText,
			Text:  op.Label(),
			Color: IndicatorColor(s, op),
		})
	}

	return &Node{
		Kind:       KindVStack,
		Border:     true,
		Background: ColorBlack,
		Padding:    SpaceSmall,
		Radius:     SpaceSmall,
		Gap:        SpaceSmall,
		Height:     DisplayHeight,
		Children: []*Node{
			{Kind: KindHStack, Gap: SpaceMedium, Align: AlignCenter, Children: ops},
			{Kind: KindHStack, Align: AlignRight, Children: []*Node{
				{Kind: KindText, Text: s.BufferText(), Color: ColorDimmed},
			}},
			{Kind: KindHStack, Align: AlignRight, Children: []*Node{
				{Kind: KindText, Text: Format(s.Entry), Color: ColorActive, Size: SizeXLarge, Weight: WeightBold},
			}},
		},
	}
}

// Texts returns the text nodes of the tree in depth-first order.
func (n *Node) Texts() []*Node {
	if n == nil {
		return nil
	}
	if n.Kind == KindText {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c.Texts()...)
	}
	return out
}

// Dump renders the tree as indented text, one node per line.
func (n *Node) Dump() string {
	var b strings.Builder
	n.dump(&b, 0)
	return b.String()
}

func (n *Node) dump(b *strings.Builder, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Kind.String())
	if n.Kind == KindText {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(n.Text))
		fmt.Fprintf(b, " color=%s", hexColor(n.Color))
		if n.Size == SizeXLarge {
			b.WriteString(" size=xlarge")
		}
		if n.Weight == WeightBold {
			b.WriteString(" weight=bold")
		}
		b.WriteByte('\n')
		return
	}

	fmt.Fprintf(b, " align=%s", n.Align)
	if n.Gap != SpaceNone {
		fmt.Fprintf(b, " gap=%s", n.Gap)
	}
	if n.Padding != SpaceNone {
		fmt.Fprintf(b, " padding=%s", n.Padding)
	}
	if n.Border {
		b.WriteString(" border=thin")
	}
	if n.Height > 0 {
		fmt.Fprintf(b, " height=%dpx", n.Height)
	}
	b.WriteByte('\n')
	for _, c := range n.Children {
		c.dump(b, depth+1)
	}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
