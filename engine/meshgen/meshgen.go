// Package meshgen builds the procedural jar and coin meshes shipped under assets/.
package meshgen

import (
	"math"

	"coinjar/engine/assets"
)

// Jar returns an open-top cylinder with a floor: radius r, height h, n sides,
// base centred on the origin, axis along +Y.
func Jar(r, h float32, n int) assets.MeshData {
	if n < 3 {
		n = 3
	}
	var m assets.MeshData
	bottom := ring(&m, r, 0, n)
	top := ring(&m, r, h, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		m.Indices = append(m.Indices,
			bottom+uint32(i), bottom+uint32(j), top+uint32(j),
			bottom+uint32(i), top+uint32(j), top+uint32(i),
		)
	}
	closeRing(&m, bottom, 0, n, false)
	return m
}

// Coin returns a closed disc of radius r and thickness t centred on the origin,
// axis along +Y (lying flat).
func Coin(r, t float32, n int) assets.MeshData {
	if n < 3 {
		n = 3
	}
	var m assets.MeshData
	bottom := ring(&m, r, -t/2, n)
	top := ring(&m, r, t/2, n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		m.Indices = append(m.Indices,
			bottom+uint32(i), bottom+uint32(j), top+uint32(j),
			bottom+uint32(i), top+uint32(j), top+uint32(i),
		)
	}
	closeRing(&m, bottom, -t/2, n, false)
	closeRing(&m, top, t/2, n, true)
	return m
}

// ring appends n vertices on a circle at height y and returns the first index.
// Vertex 0 sits on +X and, for even n, vertex n/2 on -X, so both lie in Z = 0.
func ring(m *assets.MeshData, r, y float32, n int) uint32 {
	first := uint32(len(m.Positions))
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		m.Positions = append(m.Positions, [3]float32{
			r * float32(math.Cos(a)),
			y,
			r * float32(math.Sin(a)),
		})
	}
	return first
}

// closeRing closes a ring with a triangle fan around a centre vertex.
func closeRing(m *assets.MeshData, ringStart uint32, y float32, n int, up bool) {
	c := uint32(len(m.Positions))
	m.Positions = append(m.Positions, [3]float32{0, y, 0})
	for i := 0; i < n; i++ {
		a := ringStart + uint32(i)
		b := ringStart + uint32((i+1)%n)
		if up {
			m.Indices = append(m.Indices, c, a, b)
		} else {
			m.Indices = append(m.Indices, c, b, a)
		}
	}
}
