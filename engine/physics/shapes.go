package physics

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// BodyKind selects how a body takes part in the simulation.
type BodyKind uint8

const (
	Dynamic BodyKind = iota
	Static
)

func (k BodyKind) String() string {
	switch k {
	case Static:
		return "static"
	default:
		return "dynamic"
	}
}

// BodyDesc describes a rigid body before insertion.
type BodyDesc struct {
	Kind        BodyKind
	Translation Vec2
	Rotation    float64
	Linvel      Vec2
}

// Shape is one of Ball, Cuboid or TriMesh.
type Shape interface {
	isShape()
}

// Ball is a circle centred on the body origin.
type Ball struct {
	Radius float64
}

// Cuboid is an axis-aligned box given by half extents.
type Cuboid struct {
	HalfX, HalfY float64
}

// TriMesh is a 3D triangle list. It is cut by the plane Z = 0: static bodies get
// the cross-section as segments, dynamic bodies get its convex hull.
type TriMesh struct {
	Vertices [][3]float32
	Indices  []uint32
	// Thickness is the segment radius for static meshes.
	Thickness float64
}

func (Ball) isShape()    {}
func (Cuboid) isShape()  {}
func (TriMesh) isShape() {}

// ColliderDesc describes a collider before it is attached to a body.
type ColliderDesc struct {
	Shape       Shape
	Restitution float64
	Friction    float64
	// Density is mass per square metre; zero means 1.
	Density float64
}

func (d ColliderDesc) density() float64 {
	if d.Density <= 0 {
		return 1
	}
	return d.Density
}

// build returns the cp shapes for d plus the mass and moment they contribute.
func (d ColliderDesc) build(body *cp.Body, dynamic bool) ([]*cp.Shape, float64, float64, error) {
	rho := d.density()
	switch s := d.Shape.(type) {
	case Ball:
		if s.Radius <= 0 {
			return nil, 0, 0, fmt.Errorf("ball radius %v: %w", s.Radius, ErrEmptyShape)
		}
		mass := rho * cp.AreaForCircle(0, s.Radius)
		return []*cp.Shape{cp.NewCircle(body, s.Radius, cp.Vector{})},
			mass, cp.MomentForCircle(mass, 0, s.Radius, cp.Vector{}), nil

	case Cuboid:
		if s.HalfX <= 0 || s.HalfY <= 0 {
			return nil, 0, 0, fmt.Errorf("cuboid %vx%v: %w", s.HalfX, s.HalfY, ErrEmptyShape)
		}
		w, h := 2*s.HalfX, 2*s.HalfY
		mass := rho * w * h
		return []*cp.Shape{cp.NewBox(body, w, h, 0)}, mass, cp.MomentForBox(mass, w, h), nil

	case TriMesh:
		if !dynamic {
			return d.buildStaticMesh(body, s)
		}
		return d.buildDynamicMesh(body, s, rho)

	default:
		return nil, 0, 0, fmt.Errorf("unsupported shape %T", d.Shape)
	}
}

func (d ColliderDesc) buildStaticMesh(body *cp.Body, s TriMesh) ([]*cp.Shape, float64, float64, error) {
	segs := SliceTriMesh(s.Vertices, s.Indices)
	if len(segs) == 0 {
		return nil, 0, 0, fmt.Errorf("trimesh has no cross-section at z=0: %w", ErrEmptyShape)
	}
	r := s.Thickness
	if r <= 0 {
		r = 0.02
	}
	shapes := make([]*cp.Shape, 0, len(segs))
	for _, sg := range segs {
		a := cp.Vector{X: sg.A.X, Y: sg.A.Y}
		b := cp.Vector{X: sg.B.X, Y: sg.B.Y}
		shapes = append(shapes, cp.NewSegment(body, a, b, r))
	}
	return shapes, 0, 0, nil
}

func (d ColliderDesc) buildDynamicMesh(body *cp.Body, s TriMesh, rho float64) ([]*cp.Shape, float64, float64, error) {
	hull := MeshOutline(s.Vertices, s.Indices)
	if len(hull) < 3 {
		return nil, 0, 0, fmt.Errorf("trimesh hull has %d points: %w", len(hull), ErrEmptyShape)
	}
	verts := make([]cp.Vector, len(hull))
	for i, p := range hull {
		verts[i] = cp.Vector{X: p.X, Y: p.Y}
	}
	area := cp.AreaForPoly(len(verts), verts, 0)
	if area <= 0 {
		return nil, 0, 0, fmt.Errorf("trimesh hull area %v: %w", area, ErrEmptyShape)
	}
	mass := rho * area
	moment := cp.MomentForPoly(mass, len(verts), verts, cp.Vector{}, 0)
	shape := cp.NewPolyShape(body, len(verts), verts, cp.NewTransformIdentity(), 0)
	return []*cp.Shape{shape}, mass, moment, nil
}
