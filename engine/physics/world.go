// Package physics wraps the chipmunk2d port (github.com/jakecoffman/cp) behind
// handle-addressed bodies and colliders.
//
// Coordinates are metres with Y up. Meshes are reduced to the simulation plane
// Z = 0 before they become colliders (see SliceTriMesh).
package physics

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
)

var (
	ErrUnknownBody = errors.New("physics: unknown body handle")
	ErrEmptyShape  = errors.New("physics: shape has no area")
)

// BodyHandle addresses a body inside a World. The zero handle is never issued.
type BodyHandle uint32

// ColliderHandle addresses a collider inside a World. The zero handle is never issued.
type ColliderHandle uint32

// IntegrationParameters controls one World.Step.
type IntegrationParameters struct {
	// Dt is the simulated time advanced per Step, in seconds.
	Dt float64
	// Substeps splits Dt into equal solver steps to bound penetration.
	Substeps int
	// Iterations is the solver iteration count per substep.
	Iterations uint
	// CollisionSlop is the overlap the solver tolerates before pushing apart.
	CollisionSlop float64
}

// DefaultIntegrationParameters returns the 60 Hz defaults used by both demos.
func DefaultIntegrationParameters() IntegrationParameters {
	return IntegrationParameters{
		Dt:            1.0 / 60.0,
		Substeps:      4,
		Iterations:    10,
		CollisionSlop: 0.01,
	}
}

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X, Y float64
}

// BodyState is the transform read back after a step.
type BodyState struct {
	Translation Vec2
	Rotation    float64 // radians, counter-clockwise
	Linvel      Vec2
}

type bodyEntry struct {
	body      *cp.Body
	colliders []ColliderHandle
	dynamic   bool
}

// World owns the cp space and the handle tables.
type World struct {
	space  *cp.Space
	params IntegrationParameters

	bodies    map[BodyHandle]*bodyEntry
	colliders map[ColliderHandle][]*cp.Shape
	owner     map[ColliderHandle]BodyHandle

	nextBody     BodyHandle
	nextCollider ColliderHandle
	steps        uint64
}

// NewWorld creates an empty world with the given gravity.
func NewWorld(gravity Vec2, params IntegrationParameters) *World {
	def := DefaultIntegrationParameters()
	if params.Dt <= 0 {
		params.Dt = def.Dt
	}
	if params.Substeps <= 0 {
		params.Substeps = 1
	}
	if params.Iterations == 0 {
		params.Iterations = def.Iterations
	}
	if params.CollisionSlop <= 0 {
		params.CollisionSlop = def.CollisionSlop
	}

	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: gravity.X, Y: gravity.Y})
	space.Iterations = params.Iterations
	space.SetCollisionSlop(params.CollisionSlop)

	return &World{
		space:     space,
		params:    params,
		bodies:    make(map[BodyHandle]*bodyEntry),
		colliders: make(map[ColliderHandle][]*cp.Shape),
		owner:     make(map[ColliderHandle]BodyHandle),
	}
}

// Params returns the integration parameters in effect.
func (w *World) Params() IntegrationParameters { return w.params }

// Steps reports how many times Step has run.
func (w *World) Steps() uint64 { return w.steps }

// Step advances the simulation by exactly one Dt.
func (w *World) Step() {
	dt := w.params.Dt / float64(w.params.Substeps)
	for i := 0; i < w.params.Substeps; i++ {
		w.space.Step(dt)
	}
	w.steps++
}

// InsertBody adds a rigid body and returns its handle.
func (w *World) InsertBody(desc BodyDesc) BodyHandle {
	var body *cp.Body
	switch desc.Kind {
	case Static:
		body = cp.NewStaticBody()
	default:
		// Mass and moment are replaced once a collider is attached.
		body = cp.NewBody(1, 1)
	}
	body.SetPosition(cp.Vector{X: desc.Translation.X, Y: desc.Translation.Y})
	body.SetAngle(desc.Rotation)
	if desc.Kind == Dynamic {
		body.SetVelocity(desc.Linvel.X, desc.Linvel.Y)
	}
	w.space.AddBody(body)

	w.nextBody++
	h := w.nextBody
	body.UserData = h
	w.bodies[h] = &bodyEntry{body: body, dynamic: desc.Kind == Dynamic}
	return h
}

// InsertCollider attaches a collider to a parent body.
func (w *World) InsertCollider(desc ColliderDesc, parent BodyHandle) (ColliderHandle, error) {
	entry, ok := w.bodies[parent]
	if !ok {
		return 0, fmt.Errorf("insert collider: %w (%d)", ErrUnknownBody, parent)
	}
	shapes, mass, moment, err := desc.build(entry.body, entry.dynamic)
	if err != nil {
		return 0, err
	}
	if entry.dynamic {
		if len(entry.colliders) == 0 {
			entry.body.SetMass(mass)
			entry.body.SetMoment(moment)
		} else {
			entry.body.SetMass(entry.body.Mass() + mass)
			entry.body.SetMoment(entry.body.Moment() + moment)
		}
	}
	for _, s := range shapes {
		s.SetElasticity(desc.Restitution)
		s.SetFriction(desc.Friction)
		w.space.AddShape(s)
	}

	w.nextCollider++
	h := w.nextCollider
	w.colliders[h] = shapes
	w.owner[h] = parent
	entry.colliders = append(entry.colliders, h)
	return h, nil
}

// InsertStatic is shorthand for a static body at the origin carrying one collider.
func (w *World) InsertStatic(desc ColliderDesc, at Vec2) (BodyHandle, error) {
	h := w.InsertBody(BodyDesc{Kind: Static, Translation: at})
	if _, err := w.InsertCollider(desc, h); err != nil {
		w.RemoveBody(h)
		return 0, err
	}
	return h, nil
}

// RemoveBody removes a body and every collider attached to it.
func (w *World) RemoveBody(h BodyHandle) bool {
	entry, ok := w.bodies[h]
	if !ok {
		return false
	}
	for _, ch := range entry.colliders {
		for _, s := range w.colliders[ch] {
			w.space.RemoveShape(s)
		}
		delete(w.colliders, ch)
		delete(w.owner, ch)
	}
	w.space.RemoveBody(entry.body)
	delete(w.bodies, h)
	return true
}

// Body returns the transform of a body.
func (w *World) Body(h BodyHandle) (BodyState, bool) {
	entry, ok := w.bodies[h]
	if !ok {
		return BodyState{}, false
	}
	p := entry.body.Position()
	v := entry.body.Velocity()
	return BodyState{
		Translation: Vec2{X: p.X, Y: p.Y},
		Rotation:    entry.body.Angle(),
		Linvel:      Vec2{X: v.X, Y: v.Y},
	}, true
}

// IsDynamic reports whether h is a live dynamic body.
func (w *World) IsDynamic(h BodyHandle) bool {
	entry, ok := w.bodies[h]
	return ok && entry.dynamic
}

// Len reports the number of bodies, static ones included.
func (w *World) Len() int { return len(w.bodies) }

// DynamicLen reports the number of dynamic bodies.
func (w *World) DynamicLen() int {
	n := 0
	for _, e := range w.bodies {
		if e.dynamic {
			n++
		}
	}
	return n
}

// ColliderLen reports the number of colliders.
func (w *World) ColliderLen() int { return len(w.colliders) }
