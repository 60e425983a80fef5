package engine

import (
	"fmt"

	"coinjar/hal"
)

// Driver runs a Schedule against a World, one frame per Step.
type Driver struct {
	World    *World
	Schedule *Schedule

	started bool
}

// NewDriver returns a driver that enters initial on its first frame.
func NewDriver(w *World, s *Schedule, initial State) *Driver {
	if s == nil {
		s = NewSchedule()
	}
	if initial != "" {
		w.SetState(initial)
	}
	return &Driver{World: w, Schedule: s}
}

// Step runs one frame. Errors are returned unchanged in kind so callers can
// match ErrQuit with errors.Is.
func (d *Driver) Step() error {
	w, s := d.World, d.Schedule

	if !d.started {
		d.started = true
		if err := runAll(w, s.stages[StageStartup]); err != nil {
			return fmt.Errorf("startup: %w", err)
		}
	}

	var kbd hal.Keyboard
	if w.HAL != nil {
		if in := w.HAL.Input(); in != nil {
			kbd = in.Keyboard()
		}
	}
	w.Input.update(kbd)

	if w.hasNext {
		prev := w.state
		w.state, w.hasNext = w.next, false
		if prev != "" {
			if err := runAll(w, s.onExit[prev]); err != nil {
				return fmt.Errorf("exit %s: %w", prev, err)
			}
		}
		Logger().Info("state", "from", string(prev), "to", string(w.state), "tick", w.tick)
		if err := runAll(w, s.onEnter[w.state]); err != nil {
			return fmt.Errorf("enter %s: %w", w.state, err)
		}
	}
	if err := runAll(w, s.onUpdate[w.state]); err != nil {
		return fmt.Errorf("%s: %w", w.state, err)
	}

	if err := runAll(w, s.stages[StageUpdate]); err != nil {
		return fmt.Errorf("%s: %w", StageUpdate, err)
	}

	w.Physics.Step()
	w.syncTransforms()

	for _, st := range []Stage{StagePostUpdate, StageRender} {
		if err := runAll(w, s.stages[st]); err != nil {
			return fmt.Errorf("%s: %w", st, err)
		}
	}
	if w.FB != nil {
		if err := w.FB.Present(); err != nil {
			return fmt.Errorf("present: %w", err)
		}
	}
	if err := w.writeTrace(); err != nil {
		return fmt.Errorf("trace: %w", err)
	}

	if err := runAll(w, s.stages[StageLast]); err != nil {
		return fmt.Errorf("%s: %w", StageLast, err)
	}
	w.tick++
	return nil
}

// Run adapts the driver to a hal step function.
func (d *Driver) Run() hal.Step { return d.Step }
