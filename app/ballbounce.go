package app

import (
	"fmt"

	"coinjar/engine"
	"coinjar/engine/canvas"
	"coinjar/engine/physics"
	"coinjar/hal"

	"github.com/yohamta/donburi"
)

// BallBounce drops a ball onto a static ground and prints its altitude every tick.
type BallBounce struct {
	World  *engine.World
	Driver *engine.Driver

	cfg      Config
	ball     donburi.Entity
	altitude float64
	worldCam canvas.Camera2D
	step     hal.Step
}

// NewBallBounce builds the scene on h. Startup systems run on the first Step.
func NewBallBounce(h hal.HAL, opts Options) (*BallBounce, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	b := &BallBounce{
		World: engine.NewWorld(h, opts.engineConfig()),
		cfg:   opts.Config,
		worldCam: canvas.Camera2D{
			Target: canvas.Vec2{Y: float32(opts.Config.Ball.StartY) / 2},
			Zoom:   canvas.Vec2{X: 1 / 6.0, Y: 1 / 6.0},
		},
	}

	s := engine.NewSchedule().
		Add(engine.StageStartup, b.bootstrap).
		Add(engine.StageUpdate, quitOnEscape).
		Add(engine.StagePostUpdate, b.reportAltitude).
		Add(engine.StageRender, b.draw)
	b.Driver = engine.NewDriver(b.World, s, "")
	b.step = guard(h, b.Driver.Step, opts.HoldFatal)
	return b, nil
}

// BallBounceApp adapts NewBallBounce to the hal runners.
func BallBounceApp(opts Options) hal.NewAppFunc {
	return func(h hal.HAL) (hal.Step, error) {
		b, err := NewBallBounce(h, opts)
		if err != nil {
			return nil, err
		}
		return b.Step, nil
	}
}

// Step runs one frame.
func (b *BallBounce) Step() error { return b.step() }

// Altitude is the ball height after the last physics step.
func (b *BallBounce) Altitude() float64 { return b.altitude }

// Close releases the world.
func (b *BallBounce) Close() error { return b.World.Close() }

func (b *BallBounce) bootstrap(w *engine.World) error {
	g := b.cfg.Ground
	if _, err := w.Spawn(engine.SpawnDesc{
		Name:     "ground",
		Body:     physics.BodyDesc{Kind: physics.Static},
		Collider: physics.ColliderDesc{Shape: physics.Cuboid{HalfX: g.HalfX, HalfY: g.HalfY}, Restitution: 1},
		Shape: &engine.Shape2DData{
			Kind:  engine.ShapeRect,
			HalfW: float32(g.HalfX),
			HalfH: float32(g.HalfY),
			Color: canvas.GRAY,
		},
	}); err != nil {
		return err
	}

	bc := b.cfg.Ball
	ball, err := w.Spawn(engine.SpawnDesc{
		Name:     "ball",
		Body:     physics.BodyDesc{Kind: physics.Dynamic, Translation: physics.Vec2{Y: bc.StartY}},
		Collider: physics.ColliderDesc{Shape: physics.Ball{Radius: bc.Radius}, Restitution: bc.Restitution},
		Shape: &engine.Shape2DData{
			Kind:   engine.ShapeCircle,
			Radius: float32(bc.Radius),
			Color:  canvas.RED,
		},
	})
	if err != nil {
		return err
	}
	b.ball = ball
	b.altitude = bc.StartY
	return nil
}

func (b *BallBounce) reportAltitude(w *engine.World) error {
	st, ok := w.BodyState(b.ball)
	if !ok {
		return fmt.Errorf("ball: %w", physics.ErrUnknownBody)
	}
	b.altitude = st.Translation.Y
	w.Printf("Ball altitude: %v", float32(st.Translation.Y))
	return nil
}

func (b *BallBounce) draw(w *engine.World) error {
	c := w.Canvas
	c.ClearBackground(canvas.BLACK)

	c.SetCamera(b.worldCam)
	if err := engine.DrawShapes(w); err != nil {
		return err
	}

	c.SetCamera(canvas.DefaultCamera())
	c.DrawRectangle(-0.3, -0.2, 0.01, 1, canvas.BLUE)
	c.DrawRectangle(0.3, -0.2, 0.01, 1, canvas.YELLOW)
	c.DrawRectangle(-0.3, 0.8, 0.6, 0.02, canvas.GREEN)

	_, h := c.Size()
	c.DrawText(fmt.Sprintf("altitude %.2f", b.altitude), 2, h-2, canvas.WHITE)
	return nil
}
