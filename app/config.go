package app

import (
	"errors"
	"fmt"
	"os"

	"coinjar/engine/physics"

	"gopkg.in/yaml.v3"
)

// Config is the scene tuning shared by both demos. Every field has a default;
// a YAML file only needs the keys it changes.
type Config struct {
	Gravity float64       `yaml:"gravity"`
	Physics PhysicsConfig `yaml:"physics"`
	Window  WindowConfig  `yaml:"window"`

	Ball   BallConfig   `yaml:"ball"`
	Ground GroundConfig `yaml:"ground"`

	Jar  JarConfig  `yaml:"jar"`
	Coin CoinConfig `yaml:"coin"`

	// KillY despawns coins that fall below it.
	KillY float64 `yaml:"kill_y"`
	// MaxMeshes bounds the render scene and therefore the number of coins.
	MaxMeshes int `yaml:"max_meshes"`
}

type PhysicsConfig struct {
	Hz            int     `yaml:"hz"`
	Substeps      int     `yaml:"substeps"`
	Iterations    uint    `yaml:"iterations"`
	CollisionSlop float64 `yaml:"collision_slop"`
}

type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type BallConfig struct {
	Radius      float64 `yaml:"radius"`
	StartY      float64 `yaml:"start_y"`
	Restitution float64 `yaml:"restitution"`
}

type GroundConfig struct {
	HalfX float64 `yaml:"half_x"`
	HalfY float64 `yaml:"half_y"`
}

type JarConfig struct {
	Path        string  `yaml:"path"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
}

type CoinConfig struct {
	Path        string     `yaml:"path"`
	Spawn       [3]float64 `yaml:"spawn"`
	Restitution float64    `yaml:"restitution"`
	Friction    float64    `yaml:"friction"`
	Density     float64    `yaml:"density"`
}

// DefaultConfig returns the literal scene.
func DefaultConfig() Config {
	return Config{
		Gravity: -9.81,
		Physics: PhysicsConfig{Hz: 60, Substeps: 4, Iterations: 10, CollisionSlop: 0.01},
		Window:  WindowConfig{Width: 320, Height: 320},
		Ball:    BallConfig{Radius: 0.5, StartY: 10, Restitution: 0.7},
		Ground:  GroundConfig{HalfX: 100, HalfY: 0.1},
		Jar:     JarConfig{Path: "jar.glb", Restitution: 0.5, Friction: 0.8},
		Coin: CoinConfig{
			Path:        "coin.glb",
			Spawn:       [3]float64{0, 4, 0},
			Restitution: 0.3,
			Friction:    0.8,
			Density:     1,
		},
		KillY:     -20,
		MaxMeshes: 64,
	}
}

// LoadConfig reads a YAML scene file over the defaults. An empty path returns
// the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

var ErrInvalidConfig = errors.New("invalid scene config")

// Validate rejects values the simulation cannot run with.
func (c Config) Validate() error {
	bad := func(field string, v any) error {
		return fmt.Errorf("%w: %s = %v", ErrInvalidConfig, field, v)
	}
	switch {
	case c.Physics.Hz <= 0:
		return bad("physics.hz", c.Physics.Hz)
	case c.Physics.Substeps <= 0:
		return bad("physics.substeps", c.Physics.Substeps)
	case c.Physics.Iterations == 0:
		return bad("physics.iterations", c.Physics.Iterations)
	case c.Physics.CollisionSlop < 0:
		return bad("physics.collision_slop", c.Physics.CollisionSlop)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return bad("window", fmt.Sprintf("%dx%d", c.Window.Width, c.Window.Height))
	case c.Ball.Radius <= 0:
		return bad("ball.radius", c.Ball.Radius)
	case c.Ball.Restitution < 0:
		return bad("ball.restitution", c.Ball.Restitution)
	case c.Ground.HalfX <= 0 || c.Ground.HalfY <= 0:
		return bad("ground", fmt.Sprintf("%vx%v", c.Ground.HalfX, c.Ground.HalfY))
	case c.Jar.Path == "":
		return bad("jar.path", `""`)
	case c.Coin.Path == "":
		return bad("coin.path", `""`)
	case c.Coin.Density < 0:
		return bad("coin.density", c.Coin.Density)
	case c.MaxMeshes < 2:
		return bad("max_meshes", c.MaxMeshes)
	}
	return nil
}

// Integration converts the physics section.
func (c Config) Integration() physics.IntegrationParameters {
	return physics.IntegrationParameters{
		Dt:            1 / float64(c.Physics.Hz),
		Substeps:      c.Physics.Substeps,
		Iterations:    c.Physics.Iterations,
		CollisionSlop: c.Physics.CollisionSlop,
	}
}
