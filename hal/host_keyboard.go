//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var ebitenKeys = []struct {
	key  ebiten.Key
	code KeyCode
}{
	{ebiten.KeyArrowUp, KeyUp},
	{ebiten.KeyArrowDown, KeyDown},
	{ebiten.KeyArrowLeft, KeyLeft},
	{ebiten.KeyArrowRight, KeyRight},
	{ebiten.KeyEnter, KeyEnter},
	{ebiten.KeyEscape, KeyEscape},
	{ebiten.KeySpace, KeySpace},
	{ebiten.KeyR, KeyR},
}

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

// poll must run inside ebiten's Update so inpututil sees this tick's edges.
func (k *hostKeyboard) poll() {
	for _, m := range ebitenKeys {
		if inpututil.IsKeyJustPressed(m.key) {
			k.emit(KeyEvent{Code: m.code, Press: true})
		}
		if inpututil.IsKeyJustReleased(m.key) {
			k.emit(KeyEvent{Code: m.code, Press: false})
		}
	}
}

func (k *hostKeyboard) emit(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}
