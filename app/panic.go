package app

import (
	"fmt"
	"image/color"
	"strings"

	"pocketcalc/hal"
	"pocketcalc/sparkos/gfx"
	"pocketcalc/sparkos/kernel"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		if l := h.Logger(); l != nil {
			l.WriteLineString(fmt.Sprintf("error: panic: task=%d panic=%v", info.TaskID, info.Value))
			for _, line := range strings.Split(string(info.Stack), "\n") {
				if line != "" {
					l.WriteLineString(line)
				}
			}
		}

		disp := h.Display()
		if disp == nil {
			return
		}
		if fb := disp.Framebuffer(); fb != nil {
			drawPanicScreen(fb, info)
		}
	})
}

// drawPanicScreen shows the panic value and as much of the stack as fits,
// black on white, wrapped at the screen width.
func drawPanicScreen(fb hal.Framebuffer, info kernel.PanicInfo) {
	fb.ClearRGB(255, 255, 255)

	font := &proggy.TinySZ8pt7b
	lineH := int(font.GetYAdvance())
	if lineH <= 0 {
		_ = fb.Present()
		return
	}

	lines := []string{
		"pocketcalc panic",
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line != "" {
				lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
			}
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	d := gfx.NewDisplayer(fb)
	fg := color.RGBA{A: 0xFF}
	maxW := fb.Width() - 4
	y := lineH
	for _, line := range lines {
		for _, chunk := range wrapLine(font, line, maxW) {
			if y > fb.Height() {
				_ = fb.Present()
				return
			}
			tinyfont.WriteLine(d, font, 2, int16(y), chunk, fg)
			y += lineH
		}
	}
	_ = fb.Present()
}

// wrapLine splits s into pieces no wider than maxW pixels.
func wrapLine(f tinyfont.Fonter, s string, maxW int) []string {
	if s == "" {
		return nil
	}
	var out []string
	r := []rune(s)
	for len(r) > 0 {
		n := len(r)
		for n > 1 && gfx.TextWidth(f, string(r[:n])) > maxW {
			n--
		}
		out = append(out, string(r[:n]))
		r = []rune(strings.TrimLeft(string(r[n:]), " "))
	}
	return out
}
