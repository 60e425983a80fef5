// Package cli holds the runner flags shared by the demo commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"coinjar/app"
	"coinjar/engine"
	"coinjar/engine/trace"
	"coinjar/hal"
	"coinjar/internal/logging"
)

// Flags are the runner options of a demo command.
type Flags struct {
	Headless bool
	Hz       int
	Ticks    uint64
	Keys     string
	Config   string
	Assets   string
	Trace    string
	LogLevel string
}

// Register defines the runner flags on fs.
func Register(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.BoolVar(&f.Headless, "headless", false, "Run without a window.")
	fs.IntVar(&f.Hz, "hz", 0, "Tick and physics step rate (0 = physics.hz from the scene config).")
	fs.Uint64Var(&f.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	fs.StringVar(&f.Keys, "keys", "", `Scripted keys in headless mode, e.g. "30:space,90:space/20".`)
	fs.StringVar(&f.Config, "config", "", "Scene YAML overriding the built-in defaults.")
	fs.StringVar(&f.Assets, "assets", "assets", "Directory holding jar.glb and coin.glb.")
	fs.StringVar(&f.Trace, "trace", "", "Write a per-tick body trace (.jsonl.zst).")
	fs.StringVar(&f.LogLevel, "log-level", "warn", "debug|info|warn|error.")
	return f
}

// config loads the scene file and applies -hz to it, so one tick always
// advances the simulation by one tick of real time.
func (f *Flags) config() (app.Config, error) {
	cfg, err := app.LoadConfig(f.Config)
	if err != nil {
		return app.Config{}, err
	}
	if f.Hz > 0 {
		cfg.Physics.Hz = f.Hz
	}
	return cfg, nil
}

// AppFunc builds a demo from its options.
type AppFunc func(app.Options) hal.NewAppFunc

// Run starts the demo in a window, or headless when requested.
func Run(ctx context.Context, title string, f *Flags, build AppFunc) error {
	level, err := logging.ParseLevel(f.LogLevel)
	if err != nil {
		return fmt.Errorf("-log-level: %w", err)
	}
	engine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := f.config()
	if err != nil {
		return err
	}
	hz := cfg.Physics.Hz

	opts := app.Options{Config: cfg, AssetsDir: f.Assets, HoldFatal: !f.Headless}
	if f.Trace != "" {
		tw, err := trace.Create(f.Trace)
		if err != nil {
			return err
		}
		defer tw.Close()
		opts.Trace = tw
	}
	newApp := build(opts)

	if f.Headless {
		keys, err := hal.ParseKeyScript(f.Keys)
		if err != nil {
			return err
		}
		return hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{
			Enabled: true,
			Hz:      hz,
			Ticks:   f.Ticks,
			Keys:    keys,
			Options: app.HALOptions(cfg, title),
		})
	}
	return hal.RunWindow(app.HALOptions(cfg, title), hz, newApp)
}
