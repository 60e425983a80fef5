// Package engine ties the physics world, the render scene and the asset server
// to a fixed-order frame driver.
//
// One Driver.Step is one tick: input edges, state hooks, update systems, exactly
// one physics step, transform read-back, render systems, trace, end of frame.
// Everything runs on the caller's goroutine; only asset decoding happens in the
// background.
package engine

import (
	"errors"
	"log/slog"

	"coinjar/hal"
	"coinjar/internal/logging"
)

var (
	// ErrQuit ends the run loop cleanly when returned from a system.
	ErrQuit = hal.ErrStop
	// ErrSceneFull is returned by Spawn when the render scene has no free slot.
	ErrSceneFull = errors.New("engine: render scene is full")
)

// SetLogger installs the structured logger used by the engine packages.
// Nil restores the silent default.
func SetLogger(l *slog.Logger) { logging.SetLogger(l) }

// Logger returns the engine logger.
func Logger() *slog.Logger { return logging.Logger() }
