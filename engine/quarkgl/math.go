package quarkgl

import "github.com/go-gl/mathgl/mgl32"

type (
	Vec3 = mgl32.Vec3
	Vec4 = mgl32.Vec4
	Mat4 = mgl32.Mat4
)

func V3(x, y, z float32) Vec3 { return Vec3{x, y, z} }

// Normalize returns the unit vector of v, or the zero vector for a zero input.
func Normalize(v Vec3) Vec3 {
	if v.Len() == 0 {
		return Vec3{}
	}
	return v.Normalize()
}

func Clamp01(v float32) float32 {
	return mgl32.Clamp(v, 0, 1)
}

// ModelMatrix composes translation, rotation about Z and uniform scale.
func ModelMatrix(pos Vec3, angleZ, scale float32) Mat4 {
	m := mgl32.Translate3D(pos[0], pos[1], pos[2]).Mul4(mgl32.HomogRotate3DZ(angleZ))
	if scale != 0 && scale != 1 {
		m = m.Mul4(mgl32.Scale3D(scale, scale, scale))
	}
	return m
}
