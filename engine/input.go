package engine

import "coinjar/hal"

// Input tracks key levels and the edges seen during the current frame.
type Input struct {
	down     map[hal.KeyCode]bool
	pressed  map[hal.KeyCode]bool
	released map[hal.KeyCode]bool
}

func newInput() *Input {
	return &Input{
		down:     make(map[hal.KeyCode]bool),
		pressed:  make(map[hal.KeyCode]bool),
		released: make(map[hal.KeyCode]bool),
	}
}

// update clears last frame's edges and drains every pending keyboard event.
func (in *Input) update(kbd hal.Keyboard) {
	clear(in.pressed)
	clear(in.released)
	if kbd == nil {
		return
	}
	ch := kbd.Events()
	for {
		select {
		case ev := <-ch:
			in.apply(ev)
		default:
			return
		}
	}
}

func (in *Input) apply(ev hal.KeyEvent) {
	if ev.Press {
		// A press while the key is already down is a repeat, not an edge.
		if !in.down[ev.Code] {
			in.pressed[ev.Code] = true
		}
		in.down[ev.Code] = true
		return
	}
	if in.down[ev.Code] {
		in.released[ev.Code] = true
	}
	in.down[ev.Code] = false
}

// JustPressed reports a released-to-pressed transition during this frame.
func (in *Input) JustPressed(k hal.KeyCode) bool { return in.pressed[k] }

// JustReleased reports a pressed-to-released transition during this frame.
func (in *Input) JustReleased(k hal.KeyCode) bool { return in.released[k] }

// Down reports whether k is currently held.
func (in *Input) Down(k hal.KeyCode) bool { return in.down[k] }
