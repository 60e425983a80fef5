package app

import (
	"errors"
	"fmt"
	"image/color"

	"coinjar/engine"
	"coinjar/engine/assets"
	"coinjar/engine/canvas"
	"coinjar/engine/physics"
	"coinjar/engine/quarkgl"
	"coinjar/hal"
)

const (
	LoadingState engine.State = "loading"
	MainState    engine.State = "main"
)

var (
	jarMaterial  = quarkgl.Material{Color: color.RGBA{R: 0x8C, G: 0xC8, B: 0xF0, A: 0xFF}}
	coinMaterial = quarkgl.Material{Color: canvas.YELLOW}
)

// CoinJar loads a jar and a coin mesh, then drops a coin into the jar on every
// Space press.
type CoinJar struct {
	World  *engine.World
	Driver *engine.Driver

	cfg  Config
	jar  assets.Handle
	coin assets.Handle

	// queued counts spawn requests waiting for the coin mesh.
	queued   int
	spawned  int
	lastLoad string

	orbit quarkgl.OrbitController
	step  hal.Step
}

// NewCoinJar builds the app on h. It starts in LoadingState.
func NewCoinJar(h hal.HAL, opts Options) (*CoinJar, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	cj := &CoinJar{
		World: engine.NewWorld(h, opts.engineConfig()),
		cfg:   opts.Config,
		orbit: quarkgl.OrbitController{
			Target:    quarkgl.V3(0, 2, 0),
			Pitch:     -0.35,
			Radius:    11,
			MinRadius: 4,
			MaxRadius: 30,
		},
	}

	s := engine.NewSchedule().
		Add(engine.StageStartup, cj.setupScene).
		OnEnter(LoadingState, cj.requestAssets).
		OnUpdate(LoadingState, cj.pollAssets).
		OnEnter(MainState, cj.spawnJar).
		OnUpdate(MainState, cj.reloadCoin).
		Add(engine.StageUpdate, quitOnEscape, cj.queueSpawns, cj.moveCamera, cj.serveSpawns).
		Add(engine.StagePostUpdate, cj.killPlane).
		Add(engine.StageRender, engine.RenderScene, cj.drawHUD)
	cj.Driver = engine.NewDriver(cj.World, s, LoadingState)
	cj.step = guard(h, cj.Driver.Step, opts.HoldFatal)
	return cj, nil
}

// CoinJarApp adapts NewCoinJar to the hal runners.
func CoinJarApp(opts Options) hal.NewAppFunc {
	return func(h hal.HAL) (hal.Step, error) {
		cj, err := NewCoinJar(h, opts)
		if err != nil {
			return nil, err
		}
		return cj.Step, nil
	}
}

// Step runs one frame.
func (cj *CoinJar) Step() error { return cj.step() }

// Coins reports how many coins are alive.
func (cj *CoinJar) Coins() int { return cj.World.Physics.DynamicLen() }

// Queued reports spawn requests still waiting for the coin mesh.
func (cj *CoinJar) Queued() int { return cj.queued }

func (cj *CoinJar) Close() error { return cj.World.Close() }

func (cj *CoinJar) setupScene(w *engine.World) error {
	w.Scene.Camera.FOVYRad = 0.9
	w.Scene.Camera.Far = 200
	w.Scene.Light = quarkgl.Light{
		Mode:      quarkgl.LightAmbientDirectional,
		Ambient:   0.3,
		Dir:       quarkgl.Normalize(quarkgl.V3(0.4, 1, 0.6)),
		DirAmount: 0.7,
	}
	w.Renderer.ClearColor = color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xFF}
	cj.orbit.Apply(&w.Scene.Camera)
	return nil
}

func (cj *CoinJar) requestAssets(w *engine.World) error {
	cj.jar = w.Assets.Load(cj.cfg.Jar.Path)
	cj.coin = w.Assets.Load(cj.cfg.Coin.Path)
	w.Printf("Loading %s and %s", w.Assets.Path(cj.jar), w.Assets.Path(cj.coin))
	return nil
}

func (cj *CoinJar) pollAssets(w *engine.World) error {
	switch w.Assets.GroupState(cj.jar, cj.coin) {
	case assets.Failed:
		return errors.Join(w.Assets.Err(cj.jar), w.Assets.Err(cj.coin))
	case assets.Loaded:
		w.Println("Assets loaded")
		w.SetState(MainState)
	default:
		line := fmt.Sprintf("Waiting for assets: jar %v, coin %v", w.Assets.State(cj.jar), w.Assets.State(cj.coin))
		if line != cj.lastLoad {
			w.Println(line)
			cj.lastLoad = line
		}
		engine.Logger().Debug("assets pending", "tick", w.Tick())
	}
	return nil
}

func (cj *CoinJar) spawnJar(w *engine.World) error {
	mesh, st := w.Assets.Mesh(cj.jar)
	if st != assets.Loaded {
		return fmt.Errorf("jar mesh %v: %w", st, assets.ErrLoadFailed)
	}
	_, err := w.Spawn(engine.SpawnDesc{
		Name: "jar",
		Body: physics.BodyDesc{Kind: physics.Static},
		Collider: physics.ColliderDesc{
			Shape:       physics.TriMesh{Vertices: mesh.Positions, Indices: mesh.Indices},
			Restitution: cj.cfg.Jar.Restitution,
			Friction:    cj.cfg.Jar.Friction,
		},
		Mesh:     &mesh,
		Material: jarMaterial,
	})
	return err
}

func (cj *CoinJar) queueSpawns(w *engine.World) error {
	if w.Input.JustPressed(hal.KeySpace) {
		cj.queued++
	}
	return nil
}

// serveSpawns turns queued requests into coins once the coin mesh is usable.
// Pending requests wait; a failed mesh drops them.
func (cj *CoinJar) serveSpawns(w *engine.World) error {
	if cj.queued == 0 || w.State() != MainState {
		return nil
	}
	mesh, st := w.Assets.Mesh(cj.coin)
	switch st {
	case assets.Pending:
		return nil
	case assets.Failed:
		engine.Logger().Warn("dropping coin spawns", "count", cj.queued, "err", w.Assets.Err(cj.coin))
		w.Printf("Coin asset unavailable, dropped %d spawn request(s)", cj.queued)
		cj.queued = 0
		return nil
	}

	for ; cj.queued > 0; cj.queued-- {
		sp := cj.cfg.Coin.Spawn
		_, err := w.Spawn(engine.SpawnDesc{
			Name: fmt.Sprintf("coin-%d", cj.spawned),
			Body: physics.BodyDesc{Kind: physics.Dynamic, Translation: physics.Vec2{X: sp[0], Y: sp[1]}},
			Collider: physics.ColliderDesc{
				Shape:       physics.TriMesh{Vertices: mesh.Positions, Indices: mesh.Indices},
				Restitution: cj.cfg.Coin.Restitution,
				Friction:    cj.cfg.Coin.Friction,
				Density:     cj.cfg.Coin.Density,
			},
			Mesh:     &mesh,
			Material: coinMaterial,
			Depth:    float32(sp[2]),
		})
		if errors.Is(err, engine.ErrSceneFull) {
			engine.Logger().Warn("scene full, coin dropped", "pending", cj.queued)
			w.Println("Jar is full")
			cj.queued = 0
			return nil
		}
		if err != nil {
			return err
		}
		cj.spawned++
	}
	return nil
}

func (cj *CoinJar) reloadCoin(w *engine.World) error {
	if !w.Input.JustPressed(hal.KeyR) {
		return nil
	}
	w.Printf("Reloading %s", w.Assets.Path(cj.coin))
	return w.Assets.Reload(cj.coin)
}

func (cj *CoinJar) moveCamera(w *engine.World) error {
	const rotSpeed, zoomSpeed = 0.03, 0.2
	in := w.Input
	switch {
	case in.Down(hal.KeyLeft):
		cj.orbit.Rotate(-rotSpeed, 0)
	case in.Down(hal.KeyRight):
		cj.orbit.Rotate(rotSpeed, 0)
	}
	switch {
	case in.Down(hal.KeyUp):
		cj.orbit.Zoom(-zoomSpeed)
	case in.Down(hal.KeyDown):
		cj.orbit.Zoom(zoomSpeed)
	}
	cj.orbit.Apply(&w.Scene.Camera)
	return nil
}

func (cj *CoinJar) killPlane(w *engine.World) error {
	if n := w.DespawnBelow(cj.cfg.KillY); n > 0 {
		engine.Logger().Debug("coins despawned", "count", n, "below", cj.cfg.KillY)
	}
	return nil
}

func (cj *CoinJar) drawHUD(w *engine.World) error {
	c := w.Canvas
	if w.State() == LoadingState {
		c.DrawText("loading...", 2, 8, canvas.WHITE)
		return nil
	}
	c.DrawText(fmt.Sprintf("coins %d  space: drop  esc: quit", cj.Coins()), 2, 8, canvas.WHITE)
	return nil
}
