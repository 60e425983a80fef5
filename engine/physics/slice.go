package physics

import (
	"math"
	"sort"
)

const sliceEps = 1e-6

// Segment is a 2D line segment.
type Segment struct {
	A, B Vec2
}

// SliceTriMesh intersects a triangle list with the plane Z = 0 and returns the
// resulting segments, with duplicates (shared edges) removed. Triangles lying in
// the plane contribute nothing.
func SliceTriMesh(verts [][3]float32, indices []uint32) []Segment {
	seen := make(map[[4]int64]bool)
	var out []Segment
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		if i0 >= len(verts) || i1 >= len(verts) || i2 >= len(verts) {
			continue
		}
		seg, ok := sliceTriangle(verts[i0], verts[i1], verts[i2])
		if !ok {
			continue
		}
		k := segmentKey(seg)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, seg)
	}
	return out
}

func sliceTriangle(a, b, c [3]float32) (Segment, bool) {
	tri := [3][3]float32{a, b, c}
	var pts []Vec2
	add := func(p Vec2) {
		for _, q := range pts {
			if math.Abs(p.X-q.X) < sliceEps && math.Abs(p.Y-q.Y) < sliceEps {
				return
			}
		}
		pts = append(pts, p)
	}

	onPlane := 0
	for i := 0; i < 3; i++ {
		p, q := tri[i], tri[(i+1)%3]
		dp, dq := float64(p[2]), float64(q[2])
		if math.Abs(dp) < sliceEps {
			onPlane++
			add(Vec2{X: float64(p[0]), Y: float64(p[1])})
		}
		if (dp < -sliceEps && dq > sliceEps) || (dp > sliceEps && dq < -sliceEps) {
			t := dp / (dp - dq)
			add(Vec2{
				X: float64(p[0]) + t*float64(q[0]-p[0]),
				Y: float64(p[1]) + t*float64(q[1]-p[1]),
			})
		}
	}
	if onPlane == 3 || len(pts) != 2 {
		return Segment{}, false
	}
	return Segment{A: pts[0], B: pts[1]}, true
}

func segmentKey(s Segment) [4]int64 {
	q := func(v float64) int64 { return int64(math.Round(v / 1e-5)) }
	a := [2]int64{q(s.A.X), q(s.A.Y)}
	b := [2]int64{q(s.B.X), q(s.B.Y)}
	if b[0] < a[0] || (b[0] == a[0] && b[1] < a[1]) {
		a, b = b, a
	}
	return [4]int64{a[0], a[1], b[0], b[1]}
}

// MeshOutline returns the counter-clockwise convex hull of the mesh cross-section
// at Z = 0, or of the mesh projected onto the XY plane when it does not cross it.
func MeshOutline(verts [][3]float32, indices []uint32) []Vec2 {
	var pts []Vec2
	for _, s := range SliceTriMesh(verts, indices) {
		pts = append(pts, s.A, s.B)
	}
	if len(pts) < 3 {
		pts = pts[:0]
		for _, v := range verts {
			pts = append(pts, Vec2{X: float64(v[0]), Y: float64(v[1])})
		}
	}
	return ConvexHull(pts)
}

// ConvexHull returns the counter-clockwise hull of pts (Andrew's monotone chain)
// without repeating the first point.
func ConvexHull(pts []Vec2) []Vec2 {
	if len(pts) < 3 {
		return append([]Vec2(nil), pts...)
	}
	p := append([]Vec2(nil), pts...)
	sort.Slice(p, func(i, j int) bool {
		if p[i].X != p[j].X {
			return p[i].X < p[j].X
		}
		return p[i].Y < p[j].Y
	})
	cross := func(o, a, b Vec2) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	hull := make([]Vec2, 0, 2*len(p))
	for _, pt := range p {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], pt) <= sliceEps {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pt)
	}
	lower := len(hull) + 1
	for i := len(p) - 2; i >= 0; i-- {
		pt := p[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], pt) <= sliceEps {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, pt)
	}
	return hull[:len(hull)-1]
}
