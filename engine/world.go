package engine

import (
	"errors"
	"fmt"
	"image/color"

	"coinjar/engine/assets"
	"coinjar/engine/canvas"
	"coinjar/engine/physics"
	"coinjar/engine/quarkgl"
	"coinjar/engine/trace"
	"coinjar/hal"

	"github.com/yohamta/donburi"
)

// ErrUnknownEntity is returned for entities that were never spawned or are already gone.
var ErrUnknownEntity = errors.New("engine: unknown entity")

// Config sizes a World.
type Config struct {
	Gravity     physics.Vec2
	Integration physics.IntegrationParameters

	// MaxMeshes is the render scene capacity; zero means 64.
	MaxMeshes int
	// Loader decodes assets; nil reads glTF files from ./assets.
	Loader assets.Loader
	// Trace receives one frame per tick when set. The World closes it.
	Trace *trace.Writer

	ClearColor color.RGBA
}

// World is the state shared by all systems.
type World struct {
	HAL     hal.HAL
	Console hal.Logger
	FB      hal.Framebuffer

	Physics  *physics.World
	Scene    *quarkgl.Scene
	Renderer *quarkgl.Renderer
	Canvas   *canvas.Canvas
	Assets   *assets.Server
	Input    *Input
	Entities donburi.World

	target quarkgl.RGB565Target
	trace  *trace.Writer

	tick    uint64
	state   State
	next    State
	hasNext bool
}

// NewWorld builds an empty world on top of h.
func NewWorld(h hal.HAL, cfg Config) *World {
	if cfg.MaxMeshes <= 0 {
		cfg.MaxMeshes = 64
	}
	if cfg.Loader == nil {
		cfg.Loader = assets.GLTFLoader{Root: "assets"}
	}

	w := &World{
		HAL:      h,
		Physics:  physics.NewWorld(cfg.Gravity, cfg.Integration),
		Scene:    quarkgl.CreateScene(cfg.MaxMeshes),
		Assets:   assets.NewServer(cfg.Loader),
		Input:    newInput(),
		Entities: donburi.NewWorld(),
		trace:    cfg.Trace,
	}
	if h != nil {
		w.Console = h.Logger()
		if d := h.Display(); d != nil {
			w.FB = d.Framebuffer()
		}
	}
	w.Canvas = canvas.New(w.FB)

	var fw, fh int
	if w.FB != nil {
		fw, fh = w.FB.Width(), w.FB.Height()
	}
	w.Renderer = quarkgl.NewRenderer(fw, fh, true)
	w.Renderer.ClearColor = cfg.ClearColor
	return w
}

// Tick reports the number of completed frames.
func (w *World) Tick() uint64 { return w.tick }

// State returns the active application state.
func (w *World) State() State { return w.state }

// SetState requests a transition. It takes effect at the start of the next
// frame; requesting the active or already pending state is a no-op.
func (w *World) SetState(s State) {
	if s == w.state && !w.hasNext {
		return
	}
	if w.hasNext && s == w.next {
		return
	}
	w.next = s
	w.hasNext = true
}

// Println writes one console line.
func (w *World) Println(s string) {
	if w.Console != nil {
		w.Console.WriteLineString(s)
	}
}

// Printf writes one formatted console line.
func (w *World) Printf(format string, args ...any) {
	w.Println(fmt.Sprintf(format, args...))
}

// SpawnDesc describes an entity with an optional physics body, an optional 3D
// mesh and an optional canvas shape.
type SpawnDesc struct {
	Name string

	Body physics.BodyDesc
	// Collider.Shape nil means the entity has no physics body.
	Collider physics.ColliderDesc

	Mesh     *assets.MeshData
	Material quarkgl.Material
	// Depth places the mesh on the Z axis; physics only sees Z = 0.
	Depth float32
	Scale float32

	Shape *Shape2DData
}

// Spawn creates an entity and registers it with the physics world and the
// render scene. Nothing is registered when an error is returned.
func (w *World) Spawn(d SpawnDesc) (donburi.Entity, error) {
	var none donburi.Entity
	if d.Scale == 0 {
		d.Scale = 1
	}

	meshID := -1
	if d.Mesh != nil {
		meshID = w.Scene.AddMesh(quarkgl.MeshFromTriangles(d.Mesh.Positions, d.Mesh.Indices, d.Material))
		if meshID < 0 {
			return none, fmt.Errorf("spawn %q: %w (%d meshes)", d.Name, ErrSceneFull, w.Scene.Cap())
		}
	}

	var body physics.BodyHandle
	hasBody := d.Collider.Shape != nil
	if hasBody {
		body = w.Physics.InsertBody(d.Body)
		if _, err := w.Physics.InsertCollider(d.Collider, body); err != nil {
			w.Physics.RemoveBody(body)
			if meshID >= 0 {
				w.Scene.RemoveMesh(meshID)
			}
			return none, fmt.Errorf("spawn %q: %w", d.Name, err)
		}
	}

	comps := []donburi.IComponentType{Transform, Name}
	if hasBody {
		comps = append(comps, Body)
	}
	if meshID >= 0 {
		comps = append(comps, Mesh3D)
	}
	if d.Shape != nil {
		comps = append(comps, Shape2D)
	}
	e := w.Entities.Create(comps...)
	entry := w.Entities.Entry(e)

	tr := Transform.Get(entry)
	tr.Position = quarkgl.V3(float32(d.Body.Translation.X), float32(d.Body.Translation.Y), d.Depth)
	tr.Angle = float32(d.Body.Rotation)
	tr.Scale = d.Scale
	Name.Get(entry).Name = d.Name
	if hasBody {
		Body.Get(entry).Handle = body
	}
	if meshID >= 0 {
		Mesh3D.Get(entry).ID = meshID
		w.Scene.UpdateMeshTransform(meshID, quarkgl.ModelMatrix(tr.Position, tr.Angle, tr.Scale))
	}
	if d.Shape != nil {
		*Shape2D.Get(entry) = *d.Shape
	}

	Logger().Debug("spawn", "name", d.Name, "body", body, "mesh", meshID, "tick", w.tick)
	return e, nil
}

// Despawn removes an entity together with its body and mesh.
func (w *World) Despawn(e donburi.Entity) error {
	if !w.Entities.Valid(e) {
		return fmt.Errorf("despawn: %w", ErrUnknownEntity)
	}
	entry := w.Entities.Entry(e)
	if entry.HasComponent(Body) {
		w.Physics.RemoveBody(Body.Get(entry).Handle)
	}
	if entry.HasComponent(Mesh3D) {
		w.Scene.RemoveMesh(Mesh3D.Get(entry).ID)
	}
	w.Entities.Remove(e)
	return nil
}

// DespawnBelow removes every dynamic entity whose body fell under y and returns
// how many were removed.
func (w *World) DespawnBelow(y float64) int {
	var doomed []donburi.Entity
	bodies.Each(w.Entities, func(entry *donburi.Entry) {
		h := Body.Get(entry).Handle
		if !w.Physics.IsDynamic(h) {
			return
		}
		if st, ok := w.Physics.Body(h); ok && st.Translation.Y < y {
			doomed = append(doomed, entry.Entity())
		}
	})
	for _, e := range doomed {
		_ = w.Despawn(e)
	}
	return len(doomed)
}

// Find returns the first entity with the given name.
func (w *World) Find(name string) (donburi.Entity, bool) {
	var found donburi.Entity
	ok := false
	named.Each(w.Entities, func(entry *donburi.Entry) {
		if !ok && Name.Get(entry).Name == name {
			found, ok = entry.Entity(), true
		}
	})
	return found, ok
}

// BodyState returns the physics state behind an entity.
func (w *World) BodyState(e donburi.Entity) (physics.BodyState, bool) {
	if !w.Entities.Valid(e) {
		return physics.BodyState{}, false
	}
	entry := w.Entities.Entry(e)
	if !entry.HasComponent(Body) {
		return physics.BodyState{}, false
	}
	return w.Physics.Body(Body.Get(entry).Handle)
}

// CountWithMesh reports how many entities own a scene mesh.
func (w *World) CountWithMesh() int { return meshQuery.Count(w.Entities) }

// syncTransforms copies every body transform into its render entity.
func (w *World) syncTransforms() {
	bodies.Each(w.Entities, func(entry *donburi.Entry) {
		st, ok := w.Physics.Body(Body.Get(entry).Handle)
		if !ok {
			return
		}
		tr := Transform.Get(entry)
		tr.Position = quarkgl.V3(float32(st.Translation.X), float32(st.Translation.Y), tr.Position.Z())
		tr.Angle = float32(st.Rotation)
		if entry.HasComponent(Mesh3D) {
			w.Scene.UpdateMeshTransform(Mesh3D.Get(entry).ID, quarkgl.ModelMatrix(tr.Position, tr.Angle, tr.Scale))
		}
	})
}

func (w *World) writeTrace() error {
	if w.trace == nil {
		return nil
	}
	fr := trace.Frame{Tick: w.tick, State: string(w.state)}
	bodies.Each(w.Entities, func(entry *donburi.Entry) {
		h := Body.Get(entry).Handle
		if !w.Physics.IsDynamic(h) {
			return
		}
		st, _ := w.Physics.Body(h)
		fr.Bodies = append(fr.Bodies, trace.Body{
			Entity: uint64(entry.Entity()),
			Body:   uint32(h),
			X:      st.Translation.X,
			Y:      st.Translation.Y,
			Angle:  st.Rotation,
		})
	})
	return w.trace.Write(fr)
}

// Close stops background asset loads and flushes the trace.
func (w *World) Close() error {
	w.Assets.Close()
	if w.trace != nil {
		err := w.trace.Close()
		w.trace = nil
		return err
	}
	return nil
}

// RenderScene rasterizes the 3D scene into the framebuffer, clearing it first.
func RenderScene(w *World) error {
	if w.FB == nil || w.FB.Format() != hal.PixelFormatRGB565 {
		return nil
	}
	w.target = quarkgl.RGB565Target{
		Buf:    w.FB.Buffer(),
		Stride: w.FB.StrideBytes(),
		W:      w.FB.Width(),
		H:      w.FB.Height(),
	}
	w.Renderer.Render(&w.target, w.Scene)
	return nil
}

// DrawShapes draws every Shape2D entity on the canvas with the current camera.
func DrawShapes(w *World) error {
	shapes2D.Each(w.Entities, func(entry *donburi.Entry) {
		tr := Transform.Get(entry)
		s := Shape2D.Get(entry)
		x, y := tr.Position.X(), tr.Position.Y()
		switch s.Kind {
		case ShapeCircle:
			w.Canvas.DrawCircle(x, y, s.Radius, s.Color)
		case ShapeRect:
			w.Canvas.DrawRectangle(x-s.HalfW, y-s.HalfH, 2*s.HalfW, 2*s.HalfH, s.Color)
		}
	})
	return nil
}
