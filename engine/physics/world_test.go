package physics

import (
	"errors"
	"math"
	"testing"

	"coinjar/engine/meshgen"
)

func ballScene(t *testing.T) (*World, BodyHandle) {
	t.Helper()
	w := NewWorld(Vec2{Y: -9.81}, DefaultIntegrationParameters())
	if _, err := w.InsertStatic(ColliderDesc{Shape: Cuboid{HalfX: 100, HalfY: 0.1}, Restitution: 1}, Vec2{}); err != nil {
		t.Fatalf("ground: %v", err)
	}
	ball := w.InsertBody(BodyDesc{Kind: Dynamic, Translation: Vec2{Y: 10}})
	if _, err := w.InsertCollider(ColliderDesc{Shape: Ball{Radius: 0.5}, Restitution: 0.7}, ball); err != nil {
		t.Fatalf("ball: %v", err)
	}
	return w, ball
}

func TestBallFallsBeforeContact(t *testing.T) {
	w, ball := ballScene(t)
	prev, _ := w.Body(ball)
	for i := 0; i < 30; i++ {
		w.Step()
		cur, ok := w.Body(ball)
		if !ok {
			t.Fatal("ball vanished")
		}
		if cur.Translation.Y >= prev.Translation.Y {
			t.Fatalf("tick %d: y %v did not decrease from %v", i, cur.Translation.Y, prev.Translation.Y)
		}
		prev = cur
	}
	if w.Steps() != 30 {
		t.Fatalf("Steps = %d", w.Steps())
	}
}

func TestBallSettlesAboveGround(t *testing.T) {
	w, ball := ballScene(t)
	// Ground top is at HalfY = 0.1; the ball rests with its centre one radius above it.
	rest := 0.1 + 0.5
	floor := rest - w.Params().CollisionSlop
	minY := math.Inf(1)
	for i := 0; i < 1200; i++ {
		w.Step()
		s, _ := w.Body(ball)
		minY = math.Min(minY, s.Translation.Y)
	}
	s, _ := w.Body(ball)
	if y := s.Translation.Y; y < floor || y > rest+0.02 {
		t.Fatalf("resting y = %v, want within [%v, %v]", y, floor, rest+0.02)
	}
	if minY < floor {
		t.Fatalf("ball reached y = %v, more than the collision slop into the ground (floor %v)", minY, floor)
	}
}

func TestCoinRestsInJar(t *testing.T) {
	w := NewWorld(Vec2{Y: -9.81}, DefaultIntegrationParameters())
	jar := meshgen.Jar(2, 3, 16)
	if _, err := w.InsertStatic(ColliderDesc{
		Shape:       TriMesh{Vertices: jar.Positions, Indices: jar.Indices},
		Restitution: 0.5,
		Friction:    0.8,
	}, Vec2{}); err != nil {
		t.Fatalf("jar: %v", err)
	}

	coin := meshgen.Coin(0.5, 0.1, 16)
	h := w.InsertBody(BodyDesc{Kind: Dynamic, Translation: Vec2{Y: 4}})
	if _, err := w.InsertCollider(ColliderDesc{
		Shape:       TriMesh{Vertices: coin.Positions, Indices: coin.Indices},
		Restitution: 0.3,
		Friction:    0.8,
	}, h); err != nil {
		t.Fatalf("coin: %v", err)
	}

	for i := 0; i < 300; i++ {
		w.Step()
	}
	s, _ := w.Body(h)
	if s.Translation.Y <= 0 || s.Translation.Y > 0.5 {
		t.Fatalf("coin y = %v, want resting on the jar floor", s.Translation.Y)
	}
	if math.Abs(s.Translation.X) >= 2 {
		t.Fatalf("coin x = %v escaped the jar", s.Translation.X)
	}
}

func TestInsertColliderUnknownParent(t *testing.T) {
	w := NewWorld(Vec2{Y: -9.81}, IntegrationParameters{})
	_, err := w.InsertCollider(ColliderDesc{Shape: Ball{Radius: 1}}, 99)
	if !errors.Is(err, ErrUnknownBody) {
		t.Fatalf("err = %v, want ErrUnknownBody", err)
	}
	if p := w.Params(); p.Substeps != 1 || p.Dt != DefaultIntegrationParameters().Dt {
		t.Fatalf("zero params not defaulted: %+v", p)
	}
}

func TestEmptyShapes(t *testing.T) {
	w := NewWorld(Vec2{}, DefaultIntegrationParameters())
	cases := []Shape{
		Ball{},
		Cuboid{HalfX: 1},
		TriMesh{},
	}
	for _, s := range cases {
		if _, err := w.InsertStatic(ColliderDesc{Shape: s}, Vec2{}); !errors.Is(err, ErrEmptyShape) {
			t.Fatalf("%T: err = %v, want ErrEmptyShape", s, err)
		}
	}
	if w.Len() != 0 {
		t.Fatalf("failed inserts left %d bodies", w.Len())
	}
}

func TestRemoveBody(t *testing.T) {
	w, ball := ballScene(t)
	if w.Len() != 2 || w.DynamicLen() != 1 || w.ColliderLen() != 2 {
		t.Fatalf("len=%d dynamic=%d colliders=%d", w.Len(), w.DynamicLen(), w.ColliderLen())
	}
	if !w.RemoveBody(ball) {
		t.Fatal("RemoveBody returned false")
	}
	if w.RemoveBody(ball) {
		t.Fatal("second RemoveBody returned true")
	}
	if _, ok := w.Body(ball); ok {
		t.Fatal("removed body still readable")
	}
	if w.IsDynamic(ball) || w.DynamicLen() != 0 || w.ColliderLen() != 1 {
		t.Fatalf("dynamic=%d colliders=%d", w.DynamicLen(), w.ColliderLen())
	}
	w.Step()
}

func TestConvexHull(t *testing.T) {
	pts := []Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0.5, 0.5}, {0.5, 0}}
	hull := ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("hull = %v, want 4 corners", hull)
	}
	area := 0.0
	for i := range hull {
		a, b := hull[i], hull[(i+1)%len(hull)]
		area += a.X*b.Y - b.X*a.Y
	}
	if area <= 0 {
		t.Fatalf("hull is not counter-clockwise: %v", hull)
	}
}

func TestSliceSkipsCoplanar(t *testing.T) {
	verts := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	if segs := SliceTriMesh(verts, []uint32{0, 1, 2}); len(segs) != 0 {
		t.Fatalf("coplanar triangle produced %v", segs)
	}
	crossing := [][3]float32{{0, 0, -1}, {0, 0, 1}, {2, 0, 1}}
	segs := SliceTriMesh(crossing, []uint32{0, 1, 2})
	if len(segs) != 1 {
		t.Fatalf("crossing triangle produced %v", segs)
	}
}
