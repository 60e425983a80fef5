package quarkgl

import "github.com/go-gl/mathgl/mgl32"

// OrbitController places a camera on a sphere around Target.
//
// It does not depend on any input system; callers feed Rotate and Zoom.
type OrbitController struct {
	Target Vec3
	Yaw    float32
	Pitch  float32
	Radius float32

	MinRadius float32
	MaxRadius float32
}

func (c *OrbitController) Apply(cam *Camera) {
	if cam == nil {
		return
	}
	r := c.clampRadius(c.Radius)
	if r == 0 {
		r = 3
	}

	rot := mgl32.HomogRotate3DY(c.Yaw).Mul4(mgl32.HomogRotate3DX(c.Pitch))
	p := rot.Mul4x1(Vec4{0, 0, r, 1})

	cam.Position = c.Target.Add(p.Vec3())
	cam.Target = c.Target
	if cam.Up == (Vec3{}) {
		cam.Up = V3(0, 1, 0)
	}
}

func (c *OrbitController) Rotate(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch = mgl32.Clamp(c.Pitch+deltaPitch, -1.5, 1.5)
}

func (c *OrbitController) Zoom(delta float32) {
	c.Radius = c.clampRadius(c.Radius + delta)
}

func (c *OrbitController) clampRadius(r float32) float32 {
	if c.MinRadius != 0 && r < c.MinRadius {
		r = c.MinRadius
	}
	if c.MaxRadius != 0 && r > c.MaxRadius {
		r = c.MaxRadius
	}
	return r
}
