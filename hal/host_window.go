//go:build cgo

package hal

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"pocketcalc/internal/buildinfo"
)

// RunWindow starts a desktop window that displays the framebuffer.
// It blocks until the window closes, then stops the app.
func RunWindow(newApp func(HAL) App, cfg HostConfig, scale int) error {
	if scale <= 0 {
		scale = 2
	}
	h := newHostHAL(cfg)
	app := newApp(h)
	if app == nil {
		app = AppFunc(nil)
	}
	defer app.Stop()

	g := &hostGame{h: h, app: app}
	ebiten.SetWindowTitle("pocketcalc (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*scale, h.fb.height*scale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	app     App
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte

	// shown is the present count of the frame last uploaded to fbImg.
	shown uint64
}

func (g *hostGame) Update() error {
	g.h.t.step(1)
	return g.app.Step()
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
		g.shown = 0
	}

	if n := fb.presentCount(); n == 0 || n != g.shown {
		g.shown = n
		g.upload()
	}
	screen.DrawImage(g.fbImg, nil)
}

// upload converts the current framebuffer to RGBA and copies it to fbImg.
func (g *hostGame) upload() {
	fb := g.h.fb
	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := RGB888(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
