//go:build cgo

package hal

import (
	"errors"

	"coinjar/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow starts a desktop window that displays the framebuffer and forwards keyboard input.
// newApp's step runs once per ebiten Update at hz ticks per second. It blocks until the
// window closes or the step returns an error; ErrStop ends the loop cleanly. Closing the
// window is delivered to the step as an Escape press before the loop ends.
func RunWindow(opts Options, hz int, newApp NewAppFunc) error {
	if hz <= 0 {
		hz = 60
	}
	kbd := newHostKeyboard()
	h := newHost(opts, kbd)
	step, err := newApp(h)
	if err != nil {
		return err
	}

	g := &hostGame{h: h, kbd: kbd, step: step}
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetWindowTitle(buildinfo.Title(h.title))
	ebiten.SetWindowSize(h.fb.width*2, h.fb.height*2)
	ebiten.SetTPS(hz)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h     *hostHAL
	kbd   *hostKeyboard
	pix   []byte
	fbImg *ebiten.Image
	step  Step
}

func (g *hostGame) Update() error {
	closing := ebiten.IsWindowBeingClosed()
	g.kbd.poll()
	if closing {
		g.kbd.emit(KeyEvent{Code: KeyEscape, Press: true})
	}
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrStop) {
				return ebiten.Termination
			}
			return err
		}
	}
	if closing {
		return ebiten.Termination
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.fbImg == nil || len(g.pix) != fb.width*fb.height*4 {
		g.pix = make([]byte, fb.width*fb.height*4)
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGBA(g.pix)
	g.fbImg.WritePixels(g.pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
