// Package gfx draws into RGB565 framebuffers and adapts them to tinyfont.
package gfx

import (
	"image/color"
	"strings"

	"pocketcalc/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Displayer adapts a framebuffer to drivers.Displayer so tinyfont can draw
// into it. Pixels outside Clip are dropped.
type Displayer struct {
	FB   hal.Framebuffer
	Clip Rect
}

var _ drivers.Displayer = (*Displayer)(nil)

// NewDisplayer returns a Displayer clipped to the whole framebuffer.
func NewDisplayer(fb hal.Framebuffer) *Displayer {
	d := &Displayer{FB: fb}
	if fb != nil {
		d.Clip = Rect{W: fb.Width(), H: fb.Height()}
	}
	return d
}

func (d *Displayer) Size() (x, y int16) {
	if d.FB == nil {
		return 0, 0
	}
	return int16(d.FB.Width()), int16(d.FB.Height())
}

func (d *Displayer) SetPixel(x, y int16, c color.RGBA) {
	if !d.Clip.Contains(int(x), int(y)) {
		return
	}
	setPixel(d.FB, int(x), int(y), RGB565(c.R, c.G, c.B))
}

func (d *Displayer) Display() error { return nil }

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

// Inset shrinks r by n pixels on every side.
func (r Rect) Inset(n int) Rect {
	r.X += n
	r.Y += n
	r.W -= 2 * n
	r.H -= 2 * n
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}

// RGB565 packs an 8-bit color.
func RGB565(r, g, b uint8) uint16 { return hal.RGB565(r, g, b) }

// Blend mixes fg over bg using fg's straight alpha and returns an opaque color.
func Blend(fg, bg color.RGBA) color.RGBA {
	a := uint32(fg.A)
	mix := func(f, b uint8) uint8 {
		return uint8((uint32(f)*a + uint32(b)*(255-a) + 127) / 255)
	}
	return color.RGBA{R: mix(fg.R, bg.R), G: mix(fg.G, bg.G), B: mix(fg.B, bg.B), A: 0xFF}
}

// FillRect fills r with c, clipped to the framebuffer.
func FillRect(fb hal.Framebuffer, r Rect, c color.RGBA) {
	if fb == nil || r.W <= 0 || r.H <= 0 {
		return
	}
	pixel := RGB565(c.R, c.G, c.B)
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			setPixel(fb, x, y, pixel)
		}
	}
}

// StrokeRect draws a one pixel outline of r. With radius > 0 the corner
// pixels are left out to suggest rounded corners.
func StrokeRect(fb hal.Framebuffer, r Rect, radius int, c color.RGBA) {
	if fb == nil || r.W <= 0 || r.H <= 0 {
		return
	}
	pixel := RGB565(c.R, c.G, c.B)
	for x := r.X + radius; x < r.X+r.W-radius; x++ {
		setPixel(fb, x, r.Y, pixel)
		setPixel(fb, x, r.Y+r.H-1, pixel)
	}
	for y := r.Y + radius; y < r.Y+r.H-radius; y++ {
		setPixel(fb, r.X, y, pixel)
		setPixel(fb, r.X+r.W-1, y, pixel)
	}
}

// TextWidth returns the advance width of s in pixels.
func TextWidth(f tinyfont.Fonter, s string) int {
	if s == "" {
		return 0
	}
	_, w := tinyfont.LineWidth(f, s)
	return int(w)
}

// TruncateRight cuts s from the end until it fits maxW, marking the cut
// with "...". A trailing exponent ("e+21") is kept, so the sign, the leading
// digits and the magnitude of a number stay readable.
func TruncateRight(f tinyfont.Fonter, s string, maxW int) string {
	if TextWidth(f, s) <= maxW {
		return s
	}
	head, tail := s, ""
	if i := strings.LastIndexAny(s, "eE"); i > 0 {
		head, tail = s[:i], s[i:]
	}
	r := []rune(head)
	for len(r) > 0 {
		r = r[:len(r)-1]
		out := string(r) + "..." + tail
		if TextWidth(f, out) <= maxW {
			return out
		}
	}
	return ""
}

func setPixel(fb hal.Framebuffer, x, y int, pixel uint16) {
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := fb.Buffer()
	if x < 0 || x >= fb.Width() || y < 0 || y >= fb.Height() {
		return
	}
	off := y*fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}
