package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"coinjar/engine/assets"
	"coinjar/engine/meshgen"
	"coinjar/engine/physics"
	"coinjar/engine/trace"
	"coinjar/hal"
)

func newTestWorld(t *testing.T, cfg Config) (*World, *hal.Headless) {
	t.Helper()
	h := hal.NewHeadless(hal.Options{Width: 64, Height: 64, Console: io.Discard}, nil)
	if cfg.Gravity == (physics.Vec2{}) {
		cfg.Gravity = physics.Vec2{Y: -9.81}
	}
	if cfg.Integration == (physics.IntegrationParameters{}) {
		cfg.Integration = physics.DefaultIntegrationParameters()
	}
	if cfg.Loader == nil {
		cfg.Loader = assets.LoaderFunc(func(context.Context, string) (assets.MeshData, error) {
			return meshgen.Coin(0.5, 0.1, 8), nil
		})
	}
	w := NewWorld(h, cfg)
	t.Cleanup(func() { w.Close() })
	return w, h
}

func ballDesc() SpawnDesc {
	coin := meshgen.Coin(0.5, 0.1, 8)
	return SpawnDesc{
		Name:     "ball",
		Body:     physics.BodyDesc{Kind: physics.Dynamic, Translation: physics.Vec2{Y: 10}},
		Collider: physics.ColliderDesc{Shape: physics.Ball{Radius: 0.5}, Restitution: 0.7},
		Mesh:     &coin,
	}
}

func TestFrameOrder(t *testing.T) {
	w, _ := newTestWorld(t, Config{})
	var log []string
	rec := func(name string) System {
		return func(w *World) error {
			log = append(log, name)
			return nil
		}
	}
	s := NewSchedule().
		Add(StageStartup, rec("startup")).
		Add(StageUpdate, func(w *World) error {
			if w.Physics.Steps() != w.Tick() {
				t.Errorf("update saw %d physics steps at tick %d", w.Physics.Steps(), w.Tick())
			}
			log = append(log, "update")
			return nil
		}).
		Add(StagePostUpdate, func(w *World) error {
			if w.Physics.Steps() != w.Tick()+1 {
				t.Errorf("post-update saw %d physics steps at tick %d", w.Physics.Steps(), w.Tick())
			}
			log = append(log, "post")
			return nil
		}).
		Add(StageRender, rec("render")).
		Add(StageLast, rec("last")).
		OnEnter("main", rec("enter")).
		OnUpdate("main", rec("main"))

	d := NewDriver(w, s, "main")
	for i := 0; i < 2; i++ {
		if err := d.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	want := "startup enter main update post render last main update post render last"
	if got := strings.Join(log, " "); got != want {
		t.Fatalf("order:\n got %s\nwant %s", got, want)
	}
	if w.Tick() != 2 {
		t.Fatalf("Tick = %d", w.Tick())
	}
}

func TestStateTransitionRunsOnce(t *testing.T) {
	w, _ := newTestWorld(t, Config{})
	entered, exited := 0, 0
	s := NewSchedule().
		OnUpdate("loading", func(w *World) error { w.SetState("main"); return nil }).
		OnUpdate("main", func(w *World) error { w.SetState("main"); return nil }).
		OnEnter("main", func(*World) error { entered++; return nil }).
		OnExit("loading", func(*World) error { exited++; return nil })

	d := NewDriver(w, s, "loading")
	for i := 0; i < 10; i++ {
		if err := d.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	if entered != 1 || exited != 1 {
		t.Fatalf("entered=%d exited=%d, want 1 and 1", entered, exited)
	}
	if w.State() != "main" {
		t.Fatalf("State = %q", w.State())
	}
}

func TestJustPressedIsEdgeTriggered(t *testing.T) {
	w, h := newTestWorld(t, Config{})
	d := NewDriver(w, nil, "")
	step := func() {
		t.Helper()
		if err := d.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	h.Press(hal.KeySpace)
	step()
	if !w.Input.JustPressed(hal.KeySpace) || !w.Input.Down(hal.KeySpace) {
		t.Fatal("press not seen")
	}
	step()
	if w.Input.JustPressed(hal.KeySpace) {
		t.Fatal("held key re-triggered")
	}
	h.Press(hal.KeySpace)
	step()
	if w.Input.JustPressed(hal.KeySpace) {
		t.Fatal("repeat press while held counted as an edge")
	}
	h.Release(hal.KeySpace)
	step()
	if !w.Input.JustReleased(hal.KeySpace) || w.Input.Down(hal.KeySpace) {
		t.Fatal("release not seen")
	}
	h.Press(hal.KeySpace)
	step()
	if !w.Input.JustPressed(hal.KeySpace) {
		t.Fatal("second press after release not seen")
	}
}

func TestSpawnSyncDespawn(t *testing.T) {
	w, _ := newTestWorld(t, Config{})
	e, err := w.Spawn(ballDesc())
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if w.Physics.Len() != 1 || w.Scene.Len() != 1 || w.CountWithMesh() != 1 {
		t.Fatalf("bodies=%d meshes=%d", w.Physics.Len(), w.Scene.Len())
	}

	d := NewDriver(w, NewSchedule().Add(StageRender, RenderScene), "")
	for i := 0; i < 10; i++ {
		if err := d.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	st, ok := w.BodyState(e)
	if !ok || st.Translation.Y >= 10 {
		t.Fatalf("ball did not fall: %+v", st)
	}
	entry := w.Entities.Entry(e)
	tr := Transform.Get(entry)
	if tr.Position.Y() != float32(st.Translation.Y) {
		t.Fatalf("transform y %v, body y %v", tr.Position.Y(), st.Translation.Y)
	}
	m, ok := w.Scene.MeshTransform(Mesh3D.Get(entry).ID)
	if !ok || m.Col(3).Y() != tr.Position.Y() {
		t.Fatalf("mesh transform not refreshed: %v", m)
	}
	if found, ok := w.Find("ball"); !ok || found != e {
		t.Fatal("Find(ball) failed")
	}

	if err := w.Despawn(e); err != nil {
		t.Fatalf("Despawn: %v", err)
	}
	if w.Physics.Len() != 0 || w.Scene.Len() != 0 || w.Entities.Len() != 0 {
		t.Fatalf("leftovers: bodies=%d meshes=%d entities=%d", w.Physics.Len(), w.Scene.Len(), w.Entities.Len())
	}
	if err := w.Despawn(e); !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("second Despawn = %v", err)
	}
}

func TestSpawnSceneFull(t *testing.T) {
	w, _ := newTestWorld(t, Config{MaxMeshes: 1})
	if _, err := w.Spawn(ballDesc()); err != nil {
		t.Fatalf("first Spawn: %v", err)
	}
	_, err := w.Spawn(ballDesc())
	if !errors.Is(err, ErrSceneFull) {
		t.Fatalf("second Spawn = %v, want ErrSceneFull", err)
	}
	if w.Physics.Len() != 1 || w.Entities.Len() != 1 {
		t.Fatalf("failed spawn leaked: bodies=%d entities=%d", w.Physics.Len(), w.Entities.Len())
	}
}

func TestSpawnBadColliderLeavesNothing(t *testing.T) {
	w, _ := newTestWorld(t, Config{})
	d := ballDesc()
	d.Collider.Shape = physics.Ball{}
	if _, err := w.Spawn(d); !errors.Is(err, physics.ErrEmptyShape) {
		t.Fatalf("Spawn = %v, want ErrEmptyShape", err)
	}
	if w.Physics.Len() != 0 || w.Scene.Len() != 0 || w.Entities.Len() != 0 {
		t.Fatal("failed spawn left state behind")
	}
}

func TestDespawnBelow(t *testing.T) {
	w, _ := newTestWorld(t, Config{})
	d := ballDesc()
	d.Body.Translation.Y = -30
	if _, err := w.Spawn(d); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Spawn(ballDesc()); err != nil {
		t.Fatal(err)
	}
	if n := w.DespawnBelow(-20); n != 1 {
		t.Fatalf("DespawnBelow = %d, want 1", n)
	}
	if w.Physics.DynamicLen() != 1 {
		t.Fatalf("dynamic bodies = %d", w.Physics.DynamicLen())
	}
}

func TestQuitStopsRunner(t *testing.T) {
	calls := 0
	newApp := func(h hal.HAL) (hal.Step, error) {
		w := NewWorld(h, Config{Gravity: physics.Vec2{Y: -9.81}})
		s := NewSchedule().Add(StageUpdate, func(w *World) error {
			calls++
			if w.Tick() == 2 {
				return ErrQuit
			}
			return nil
		})
		return NewDriver(w, s, "").Run(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{Hz: 1000, Options: hal.Options{Console: io.Discard}})
	if err != nil {
		t.Fatalf("RunHeadless = %v, want nil after ErrQuit", err)
	}
	if calls != 3 {
		t.Fatalf("update ran %d times, want 3", calls)
	}
}

func TestSystemErrorIsWrapped(t *testing.T) {
	w, _ := newTestWorld(t, Config{})
	boom := errors.New("boom")
	d := NewDriver(w, NewSchedule().OnEnter("loading", func(*World) error { return boom }), "loading")
	err := d.Step()
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "enter loading") {
		t.Fatalf("Step = %v", err)
	}
}

func TestTraceFrames(t *testing.T) {
	var buf bytes.Buffer
	tw, err := trace.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	w, _ := newTestWorld(t, Config{Trace: tw})
	if _, err := w.Spawn(ballDesc()); err != nil {
		t.Fatal(err)
	}
	d := NewDriver(w, nil, "main")
	for i := 0; i < 5; i++ {
		if err := d.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	frames, err := trace.ReadAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 5 || len(frames[4].Bodies) != 1 || frames[4].State != "main" {
		t.Fatalf("frames = %+v", frames)
	}
	if frames[4].Bodies[0].Y >= frames[0].Bodies[0].Y {
		t.Fatal("trace does not show the fall")
	}
}
