package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Options sizes the host framebuffer and picks where console lines go.
type Options struct {
	Width  int
	Height int
	Title  string

	// Console defaults to os.Stdout.
	Console io.Writer
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 320
	}
	if o.Height <= 0 {
		o.Height = 320
	}
	if o.Title == "" {
		o.Title = "coinjar"
	}
	if o.Console == nil {
		o.Console = os.Stdout
	}
	return o
}

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    keyboardSource
	title  string
}

// keyboardSource is a Keyboard that the runner advances once per tick.
type keyboardSource interface {
	Keyboard
	poll()
}

func newHost(opts Options, kbd keyboardSource) *hostHAL {
	opts = opts.withDefaults()
	return &hostHAL{
		logger: &hostLogger{w: opts.Console},
		fb:     newHostFramebuffer(opts.Width, opts.Height),
		kbd:    kbd,
		title:  opts.Title,
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd} }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd Keyboard
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
