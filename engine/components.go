package engine

import (
	"image/color"

	"coinjar/engine/physics"
	"coinjar/engine/quarkgl"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// BodyData links an entity to its physics body.
type BodyData struct {
	Handle physics.BodyHandle
}

// TransformData is the render-side copy of a body transform, refreshed once per
// tick after the physics step.
type TransformData struct {
	Position quarkgl.Vec3
	Angle    float32
	Scale    float32
}

// Mesh3DData is a mesh slot in the quarkgl scene.
type Mesh3DData struct {
	ID int
}

// ShapeKind selects the canvas primitive of a Shape2D.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
)

// Shape2DData is drawn by DrawShapes on the canvas.
type Shape2DData struct {
	Kind   ShapeKind
	Radius float32
	HalfW  float32
	HalfH  float32
	Color  color.RGBA
}

// NameData labels an entity for logs and lookups.
type NameData struct {
	Name string
}

var (
	Body      = donburi.NewComponentType[BodyData]()
	Transform = donburi.NewComponentType[TransformData]()
	Mesh3D    = donburi.NewComponentType[Mesh3DData]()
	Shape2D   = donburi.NewComponentType[Shape2DData]()
	Name      = donburi.NewComponentType[NameData]()
)

var (
	bodies    = donburi.NewQuery(filter.Contains(Body, Transform))
	shapes2D  = donburi.NewQuery(filter.Contains(Transform, Shape2D))
	named     = donburi.NewQuery(filter.Contains(Name))
	meshQuery = donburi.NewQuery(filter.Contains(Mesh3D))
)
