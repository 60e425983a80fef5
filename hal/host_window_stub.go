//go:build !cgo

package hal

import "errors"

// errNoWindow is returned by RunWindow in builds without cgo.
var errNoWindow = errors.New("window mode requires cgo; use -headless or build with CGO_ENABLED=1")

func RunWindow(_ Options, _ int, _ NewAppFunc) error { return errNoWindow }
