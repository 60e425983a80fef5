package hal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStop is returned by a step to end the run loop without failure.
var ErrStop = errors.New("stop requested")

// Step advances the application by one tick.
type Step func() error

// NewAppFunc builds an application on top of a HAL and returns its per-tick step.
type NewAppFunc func(HAL) (Step, error)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	Keys    KeyScript
	Options Options
}

// RunHeadless runs the application without opening a window.
func RunHeadless(ctx context.Context, newApp NewAppFunc, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}

	h := NewHeadless(cfg.Options, cfg.Keys)
	step, err := newApp(h)
	if err != nil {
		return err
	}

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.Tick()
			if step != nil {
				if err := step(); err != nil {
					if errors.Is(err, ErrStop) {
						return nil
					}
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}

// Headless is a windowless HAL whose keyboard is fed by a KeyScript or by
// direct Press/Release calls.
type Headless struct {
	*hostHAL
	script *scriptKeyboard
}

// NewHeadless returns a HAL with an in-memory framebuffer and no window.
func NewHeadless(opts Options, keys KeyScript) *Headless {
	kbd := newScriptKeyboard(keys)
	return &Headless{hostHAL: newHost(opts, kbd), script: kbd}
}

// Tick emits the scripted key events due at the current tick.
func (h *Headless) Tick() { h.script.poll() }

// Press queues a key-down edge for the next step.
func (h *Headless) Press(code KeyCode) { h.script.emit(KeyEvent{Code: code, Press: true}) }

// Release queues a key-up edge for the next step.
func (h *Headless) Release(code KeyCode) { h.script.emit(KeyEvent{Code: code, Press: false}) }

// Framebuffer exposes the in-memory framebuffer for inspection.
func (h *Headless) Framebuffer() Framebuffer { return h.fb }
