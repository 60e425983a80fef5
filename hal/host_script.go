package hal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ScriptedKey presses Code at tick At and releases it Hold ticks later.
type ScriptedKey struct {
	At   uint64
	Code KeyCode
	Hold uint64
}

// KeyScript drives the keyboard in headless runs.
type KeyScript []ScriptedKey

// ParseKeyScript parses "tick:key[/hold],..." such as "30:space,90:space/20".
// Hold defaults to one tick.
func ParseKeyScript(s string) (KeyScript, error) {
	var out KeyScript
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		at, rest, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("key script %q: want tick:key", item)
		}
		tick, err := strconv.ParseUint(at, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("key script %q: %w", item, err)
		}
		name, holdStr, hasHold := strings.Cut(rest, "/")
		code, err := ParseKeyCode(name)
		if err != nil {
			return nil, fmt.Errorf("key script %q: %w", item, err)
		}
		hold := uint64(1)
		if hasHold {
			hold, err = strconv.ParseUint(holdStr, 10, 64)
			if err != nil || hold == 0 {
				return nil, fmt.Errorf("key script %q: bad hold %q", item, holdStr)
			}
		}
		out = append(out, ScriptedKey{At: tick, Code: code, Hold: hold})
	}
	return out, nil
}

type scriptEvent struct {
	tick uint64
	ev   KeyEvent
}

type scriptKeyboard struct {
	ch     chan KeyEvent
	events []scriptEvent
	next   int
	tick   uint64
}

func newScriptKeyboard(script KeyScript) *scriptKeyboard {
	k := &scriptKeyboard{ch: make(chan KeyEvent, 64)}
	for _, sk := range script {
		hold := sk.Hold
		if hold == 0 {
			hold = 1
		}
		k.events = append(k.events,
			scriptEvent{tick: sk.At, ev: KeyEvent{Code: sk.Code, Press: true}},
			scriptEvent{tick: sk.At + hold, ev: KeyEvent{Code: sk.Code, Press: false}},
		)
	}
	sort.SliceStable(k.events, func(i, j int) bool { return k.events[i].tick < k.events[j].tick })
	return k
}

func (k *scriptKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *scriptKeyboard) emit(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}

func (k *scriptKeyboard) poll() {
	for k.next < len(k.events) && k.events[k.next].tick <= k.tick {
		k.emit(k.events[k.next].ev)
		k.next++
	}
	k.tick++
}
