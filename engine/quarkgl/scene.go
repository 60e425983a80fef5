package quarkgl

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultColor is used for meshes added without a material colour.
var DefaultColor = color.RGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}

// Material is the flat surface colour of a mesh.
type Material struct {
	Color color.RGBA
}

// LightMode defines minimal lighting options.
type LightMode uint8

const (
	LightOff LightMode = iota
	LightAmbientDirectional
)

// Light is one ambient term plus one directional term.
type Light struct {
	Mode      LightMode
	Ambient   float32 // 0..1
	Dir       Vec3    // direction *towards* the scene
	DirAmount float32 // 0..1
}

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3

	FOVYRad float32
	Near    float32
	Far     float32
}

// View returns the camera view matrix.
func (c Camera) View() Mat4 {
	up := c.Up
	if up == (Vec3{}) {
		up = V3(0, 1, 0)
	}
	return mgl32.LookAtV(c.Position, c.Target, up)
}

// Projection returns the projection matrix for a target aspect.
func (c Camera) Projection(aspect float32) Mat4 {
	if aspect == 0 {
		aspect = 1
	}
	fov := c.FOVYRad
	if fov == 0 {
		fov = 1
	}
	return mgl32.Perspective(fov, aspect, c.Near, c.Far)
}

// Mesh is a triangle list placed in the world by Transform.
type Mesh struct {
	Enabled bool

	Positions []Vec3
	Indices   []uint32

	Transform Mat4
	Material  Material
}

// MeshFromTriangles copies raw positions and a triangle index list into a mesh.
func MeshFromTriangles(positions [][3]float32, indices []uint32, mat Material) Mesh {
	pos := make([]Vec3, len(positions))
	for i, p := range positions {
		pos[i] = Vec3(p)
	}
	return Mesh{
		Positions: pos,
		Indices:   append([]uint32(nil), indices...),
		Material:  mat,
	}
}

// Scene holds a camera, a light and a fixed number of mesh slots addressed by id.
type Scene struct {
	Camera Camera
	Light  Light

	meshes []Mesh
	alive  []bool
	count  int
}

// CreateScene allocates a scene with room for maxMeshes meshes.
func CreateScene(maxMeshes int) *Scene {
	if maxMeshes < 0 {
		maxMeshes = 0
	}
	return &Scene{
		Camera: Camera{
			Position: V3(0, 0, 3),
			Target:   V3(0, 0, 0),
			Up:       V3(0, 1, 0),
			FOVYRad:  1.0,
			Near:     0.05,
			Far:      100,
		},
		Light: Light{
			Mode:      LightAmbientDirectional,
			Ambient:   0.25,
			Dir:       Normalize(V3(1, 1, 1)),
			DirAmount: 0.75,
		},
		meshes: make([]Mesh, maxMeshes),
		alive:  make([]bool, maxMeshes),
	}
}

// AddMesh stores m in the first free slot and returns its id, or -1 when every
// slot is taken.
func (s *Scene) AddMesh(m Mesh) int {
	if s == nil {
		return -1
	}
	for i := range s.meshes {
		if s.alive[i] {
			continue
		}
		if m.Transform == (Mat4{}) {
			m.Transform = mgl32.Ident4()
		}
		if m.Material.Color == (color.RGBA{}) {
			m.Material.Color = DefaultColor
		}
		m.Enabled = true
		s.meshes[i] = m
		s.alive[i] = true
		s.count++
		return i
	}
	return -1
}

// RemoveMesh frees the slot of id.
func (s *Scene) RemoveMesh(id int) {
	if !s.valid(id) {
		return
	}
	s.alive[id] = false
	s.meshes[id] = Mesh{}
	s.count--
}

// UpdateMeshTransform replaces the model matrix of id.
func (s *Scene) UpdateMeshTransform(id int, m Mat4) {
	if !s.valid(id) {
		return
	}
	s.meshes[id].Transform = m
}

// MeshTransform returns the current transform of a live mesh.
func (s *Scene) MeshTransform(id int) (Mat4, bool) {
	if !s.valid(id) {
		return Mat4{}, false
	}
	return s.meshes[id].Transform, true
}

// Len reports the number of live meshes.
func (s *Scene) Len() int {
	if s == nil {
		return 0
	}
	return s.count
}

// Cap reports the fixed mesh capacity.
func (s *Scene) Cap() int {
	if s == nil {
		return 0
	}
	return len(s.meshes)
}

func (s *Scene) valid(id int) bool {
	return s != nil && id >= 0 && id < len(s.meshes) && s.alive[id]
}

func (s *Scene) eachMesh(fn func(m *Mesh)) {
	for i := range s.meshes {
		if s.alive[i] {
			fn(&s.meshes[i])
		}
	}
}
