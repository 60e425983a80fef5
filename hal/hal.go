package hal

import (
	"fmt"
	"strings"
)

// Logger writes newline-delimited console diagnostics.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeySpace
	KeyR
)

var keyNames = map[KeyCode]string{
	KeyUp:     "up",
	KeyDown:   "down",
	KeyLeft:   "left",
	KeyRight:  "right",
	KeyEnter:  "enter",
	KeyEscape: "escape",
	KeySpace:  "space",
	KeyR:      "r",
}

func (k KeyCode) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("key(%d)", uint16(k))
}

// ParseKeyCode maps a key name ("space", "escape", ...) to its code.
func ParseKeyCode(s string) (KeyCode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for code, name := range keyNames {
		if name == s {
			return code, nil
		}
	}
	return KeyUnknown, fmt.Errorf("unknown key %q", s)
}

// KeyEvent is a keyboard edge: Press is true on the tick the key went down and
// false on the tick it went up.
type KeyEvent struct {
	Code  KeyCode
	Press bool
}

// Keyboard provides key edge events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
}

// HAL is the only contact point between a demo and the host.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
}
