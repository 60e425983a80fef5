package quarkgl

import "image/color"

// Renderer rasterizes a Scene with one flat-shaded colour per triangle.
//
// Create it once and reuse it; the depth buffer is kept between frames.
type Renderer struct {
	Depth      bool
	ClearColor color.RGBA

	depthBuf []float32

	// Triangles counts rasterized triangles of the last Render call.
	Triangles int
}

// NewRenderer creates a renderer sized for a w×h target. Depth testing is
// enabled when depth is true.
func NewRenderer(w, h int, depth bool) *Renderer {
	r := &Renderer{Depth: depth, ClearColor: color.RGBA{A: 0xFF}}
	r.resize(w, h)
	return r
}

func (r *Renderer) resize(w, h int) {
	if !r.Depth || w <= 0 || h <= 0 {
		r.depthBuf = nil
		return
	}
	if cap(r.depthBuf) < w*h {
		r.depthBuf = make([]float32, w*h)
	} else {
		r.depthBuf = r.depthBuf[:w*h]
	}
}

// Render clears t and draws every enabled mesh of s.
func (r *Renderer) Render(t Target, s *Scene) {
	if r == nil || t == nil || s == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)
	r.Triangles = 0

	r.resize(w, h)
	for i := range r.depthBuf {
		r.depthBuf[i] = 1e9
	}

	viewProj := s.Camera.Projection(float32(w) / float32(h)).Mul4(s.Camera.View())
	s.eachMesh(func(m *Mesh) {
		if m.Enabled {
			r.renderMesh(t, w, h, viewProj, m, s.Light)
		}
	})
}

func (r *Renderer) renderMesh(t Target, w, h int, viewProj Mat4, m *Mesh, light Light) {
	n := len(m.Positions)
	if n == 0 {
		return
	}
	mvp := viewProj.Mul4(m.Transform)

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := int(m.Indices[i]), int(m.Indices[i+1]), int(m.Indices[i+2])
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}
		a, b, c := m.Positions[i0], m.Positions[i1], m.Positions[i2]

		// Triangles with a vertex behind the eye are dropped whole.
		p0, ok0 := project(mvp, a, w, h)
		p1, ok1 := project(mvp, b, w, h)
		p2, ok2 := project(mvp, c, w, h)
		if !ok0 || !ok1 || !ok2 {
			continue
		}

		col := m.Material.Color
		if light.Mode == LightAmbientDirectional {
			normal := m.Transform.Mul4x1(Normalize(b.Sub(a).Cross(c.Sub(a))).Vec4(0)).Vec3()
			col = shade(col, lightIntensity(light, Normalize(normal)))
		}
		r.Triangles++
		r.fillTriangle(t, w, h, [3]screenPoint{p0, p1, p2}, col)
	}
}

type screenPoint struct {
	X, Y int
	Z    float32
}

func project(mvp Mat4, v Vec3, w, h int) (screenPoint, bool) {
	p := mvp.Mul4x1(v.Vec4(1))
	if p.W() <= 0 {
		return screenPoint{}, false
	}
	inv := 1 / p.W()
	x, y := p.X()*inv, p.Y()*inv
	return screenPoint{
		X: int((x*0.5+0.5)*float32(w-1) + 0.5),
		Y: int((0.5-y*0.5)*float32(h-1) + 0.5),
		Z: p.Z() * inv,
	}, true
}

func lightIntensity(l Light, n Vec3) float32 {
	amb := Clamp01(l.Ambient)
	ld := Normalize(l.Dir)
	if ld == (Vec3{}) {
		return amb
	}
	d := n.Dot(ld.Mul(-1))
	if d < 0 {
		d = -d // winding is not consistent across loaded meshes
	}
	return Clamp01(amb + d*Clamp01(l.DirAmount))
}

func shade(c color.RGBA, s float32) color.RGBA {
	k := uint32(Clamp01(s) * 255)
	ch := func(v uint8) uint8 { return uint8(uint32(v) * k / 255) }
	return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: c.A}
}

func (r *Renderer) depthTest(w, x, y int, z float32) bool {
	if r.depthBuf == nil {
		return true
	}
	i := y*w + x
	if i < 0 || i >= len(r.depthBuf) || z >= r.depthBuf[i] {
		return false
	}
	r.depthBuf[i] = z
	return true
}

// fillTriangle scans the clipped bounding box and keeps pixels whose
// barycentric weights agree in sign, so either winding is filled.
func (r *Renderer) fillTriangle(t Target, w, h int, p [3]screenPoint, c color.RGBA) {
	minX := max(min(p[0].X, p[1].X, p[2].X), 0)
	maxX := min(max(p[0].X, p[1].X, p[2].X), w-1)
	minY := max(min(p[0].Y, p[1].Y, p[2].Y), 0)
	maxY := min(max(p[0].Y, p[1].Y, p[2].Y), h-1)
	if minX > maxX || minY > maxY {
		return
	}

	area := edge(p[0], p[1], p[2].X, p[2].Y)
	if area == 0 {
		return
	}
	sign := 1
	if area < 0 {
		sign = -1
	}
	inv := 1 / float32(area)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w0 := edge(p[1], p[2], x, y)
			w1 := edge(p[2], p[0], x, y)
			w2 := edge(p[0], p[1], x, y)
			if w0*sign < 0 || w1*sign < 0 || w2*sign < 0 {
				continue
			}
			z := (float32(w0)*p[0].Z + float32(w1)*p[1].Z + float32(w2)*p[2].Z) * inv
			if r.depthTest(w, x, y, z) {
				t.SetPixel(x, y, c)
			}
		}
	}
}

func edge(a, b screenPoint, x, y int) int {
	return (x-a.X)*(b.Y-a.Y) - (y-a.Y)*(b.X-a.X)
}
