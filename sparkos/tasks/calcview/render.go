package calcview

import (
	"image/color"

	"pocketcalc/sparkos/calc"
	"pocketcalc/sparkos/gfx"

	"tinygo.org/x/tinyfont"
)

const panelMargin = 8

var screenColor = color.RGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xFF}

// textBox is a text node placed on screen.
type textBox struct {
	node     *calc.Node
	font     tinyfont.Fonter
	text     string
	x        int
	baseline int
	rect     gfx.Rect
}

func spacing(s calc.Spacing) int {
	switch s {
	case calc.SpaceSmall:
		return 4
	case calc.SpaceMedium:
		return 8
	default:
		return 0
	}
}

func (t *Task) fontFor(n *calc.Node) tinyfont.Fonter {
	if n.Size == calc.SizeXLarge || n.Weight == calc.WeightBold {
		return t.large
	}
	return t.small
}

// fit steps down from the node's own font until its text fits maxW. Text
// too wide for the smallest font is cut from the right in that font.
func (t *Task) fit(n *calc.Node, maxW int) (tinyfont.Fonter, string) {
	fonts := []tinyfont.Fonter{t.fontFor(n)}
	if fonts[0] == t.large {
		fonts = append(fonts, t.medium, t.small)
	}
	for _, f := range fonts {
		if gfx.TextWidth(f, n.Text) <= maxW {
			return f, n.Text
		}
	}
	f := fonts[len(fonts)-1]
	return f, gfx.TruncateRight(f, n.Text, maxW)
}

// panelRect is where the root stack goes: full width minus margins, at the top.
func (t *Task) panelRect(view *calc.Node) gfx.Rect {
	w := t.fb.Width() - 2*panelMargin
	h := view.Height
	if h <= 0 || h > t.fb.Height()-2*panelMargin {
		h = t.fb.Height() - 2*panelMargin
	}
	return gfx.Rect{X: panelMargin, Y: panelMargin, W: w, H: h}
}

// layout places the rows of a vstack top to bottom inside its padding and
// lines up the text of each hstack according to its alignment.
func (t *Task) layout(view *calc.Node, area gfx.Rect) []textBox {
	inner := area.Inset(spacing(view.Padding))
	if view.Border {
		inner = inner.Inset(1)
	}

	var boxes []textBox
	y := inner.Y
	for i, row := range view.Children {
		if i > 0 {
			y += spacing(view.Gap)
		}
		rowBoxes, h := t.layoutRow(row, gfx.Rect{X: inner.X, Y: y, W: inner.W})
		boxes = append(boxes, rowBoxes...)
		y += h
	}
	return boxes
}

func (t *Task) layoutRow(row *calc.Node, r gfx.Rect) ([]textBox, int) {
	texts := row.Texts()
	if len(texts) == 0 {
		return nil, 0
	}

	gap := spacing(row.Gap)
	boxes := make([]textBox, 0, len(texts))
	ascent, descent := 0, 0
	total := 0
	for i, n := range texts {
		f, text := t.fontFor(n), n.Text
		if len(texts) == 1 {
			f, text = t.fit(n, r.W)
		}
		a, d := lineMetrics(f)
		ascent = max(ascent, a)
		descent = max(descent, d)

		w := gfx.TextWidth(f, text)
		if i > 0 {
			total += gap
		}
		total += w
		boxes = append(boxes, textBox{node: n, font: f, text: text, rect: gfx.Rect{W: w}})
	}

	x := r.X
	switch row.Align {
	case calc.AlignCenter:
		x = r.X + (r.W-total)/2
	case calc.AlignRight:
		x = r.X + r.W - total
	}

	h := ascent + descent
	for i := range boxes {
		b := &boxes[i]
		b.x = x
		b.baseline = r.Y + ascent
		b.rect = gfx.Rect{X: x, Y: r.Y, W: b.rect.W, H: h}
		x += b.rect.W + gap
	}
	return boxes, h
}

// lineMetrics returns how far the digits and operator glyphs of f reach
// above and below the baseline.
func lineMetrics(f tinyfont.Fonter) (ascent, descent int) {
	for _, r := range "0123456789+-*/.eE,Ldg" {
		info := f.GetGlyph(r).Info()
		top := -int(info.YOffset)
		bottom := int(info.Height) + int(info.YOffset)
		ascent = max(ascent, top)
		descent = max(descent, bottom)
	}
	if ascent == 0 {
		ascent = int(f.GetYAdvance())
	}
	return ascent, descent
}

func (t *Task) draw(view *calc.Node) {
	t.fb.ClearRGB(screenColor.R, screenColor.G, screenColor.B)

	area := t.panelRect(view)
	bg := view.Background
	gfx.FillRect(t.fb, area, bg)
	if view.Border {
		radius := spacing(view.Radius) / 2
		gfx.StrokeRect(t.fb, area, radius, gfx.Blend(calc.ColorDimmed, bg))
	}

	d := gfx.NewDisplayer(t.fb)
	d.Clip = area
	for _, b := range t.layout(view, area) {
		if b.text == "" {
			continue
		}
		c := gfx.Blend(b.node.Color, bg)
		tinyfont.WriteLine(d, b.font, int16(b.x), int16(b.baseline), b.text, c)
	}
}
