package app

import (
	"errors"
	"strings"
	"unicode/utf8"

	"coinjar/engine"
	"coinjar/engine/canvas"
	"coinjar/hal"
)

const fatalLineHeight = 8

// guard wraps a step so that a failure is reported on the console and on the
// screen. ErrQuit passes through untouched. With hold set the fatal screen
// stays up and the step returns nil until Escape is pressed; the failure is
// returned then. Without hold it is returned at once.
func guard(h hal.HAL, step hal.Step, hold bool) hal.Step {
	var fatal error
	return func() error {
		if fatal != nil {
			if !hold || escapePressed(h) {
				return fatal
			}
			presentFatal(h)
			return nil
		}
		err := step()
		if err == nil || errors.Is(err, engine.ErrQuit) {
			return err
		}
		fatal = err
		showFatal(h, err)
		if hold {
			return nil
		}
		return err
	}
}

// escapePressed drains pending key events and reports an Escape press among them.
func escapePressed(h hal.HAL) bool {
	in := h.Input()
	if in == nil || in.Keyboard() == nil {
		return false
	}
	ch := in.Keyboard().Events()
	found := false
	for {
		select {
		case ev := <-ch:
			if ev.Code == hal.KeyEscape && ev.Press {
				found = true
			}
		default:
			return found
		}
	}
}

func presentFatal(h hal.HAL) {
	if d := h.Display(); d != nil && d.Framebuffer() != nil {
		if err := d.Framebuffer().Present(); err != nil {
			engine.Logger().Warn("present fatal screen", "err", err)
		}
	}
}

func showFatal(h hal.HAL, err error) {
	lines := []string{"coinjar: fatal error"}
	for _, l := range strings.Split(err.Error(), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	engine.Logger().Error("fatal", "err", err)

	if l := h.Logger(); l != nil {
		for _, line := range lines {
			l.WriteLineString(line)
		}
	}

	disp := h.Display()
	if disp == nil {
		return
	}
	fb := disp.Framebuffer()
	if fb == nil {
		return
	}

	c := canvas.New(fb)
	c.ClearBackground(canvas.WHITE)

	charW := c.TextWidth("0")
	if charW <= 0 {
		_ = fb.Present()
		return
	}
	cols := fb.Width() / charW
	if cols <= 0 {
		cols = 1
	}

	y := fatalLineHeight
	for i, line := range lines {
		fg := canvas.BLACK
		if i == 0 {
			fg = canvas.RED
		}
		for len(line) > 0 && y <= fb.Height() {
			chunk, rest := takeRunes(line, cols)
			c.DrawText(chunk, 1, int16(y), fg)
			y += fatalLineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	if err := fb.Present(); err != nil {
		engine.Logger().Warn("present fatal screen", "err", err)
	}
}

// takeRunes splits s after at most n runes.
func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	i, count := 0, 0
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
