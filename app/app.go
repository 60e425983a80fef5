// Package app holds the two demo programs: a ball bouncing on the ground, and a
// jar that fills with coins on key presses.
package app

import (
	"coinjar/engine"
	"coinjar/engine/assets"
	"coinjar/engine/physics"
	"coinjar/engine/trace"
	"coinjar/hal"
)

// Options wires a demo to its environment.
type Options struct {
	Config Config
	// Loader overrides the glTF loader rooted at AssetsDir.
	Loader    assets.Loader
	AssetsDir string
	// Trace, when set, receives one frame per tick and is closed with the world.
	Trace *trace.Writer
	// HoldFatal keeps the fatal screen up until Escape instead of ending the
	// run on the failing tick. Window runs set it.
	HoldFatal bool
}

func (o Options) loader() assets.Loader {
	if o.Loader != nil {
		return o.Loader
	}
	dir := o.AssetsDir
	if dir == "" {
		dir = "assets"
	}
	return assets.GLTFLoader{Root: dir}
}

func (o Options) engineConfig() engine.Config {
	cfg := o.Config
	return engine.Config{
		Gravity:     physics.Vec2{Y: cfg.Gravity},
		Integration: cfg.Integration(),
		MaxMeshes:   cfg.MaxMeshes,
		Loader:      o.loader(),
		Trace:       o.Trace,
	}
}

// HALOptions sizes the host for a demo.
func HALOptions(cfg Config, title string) hal.Options {
	return hal.Options{Width: cfg.Window.Width, Height: cfg.Window.Height, Title: title}
}

func quitOnEscape(w *engine.World) error {
	if w.Input.JustPressed(hal.KeyEscape) {
		engine.Logger().Info("quit requested", "tick", w.Tick())
		return engine.ErrQuit
	}
	return nil
}
