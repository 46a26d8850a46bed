package config

import (
	"fmt"
	"os"

	"github.com/san-kum/boxsim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEngine     = "box2d"
	DefaultIterations = 60
	DefaultPPM        = 8.0
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultTexture    = "assets/box.png"
)

type Scene struct {
	Name       string            `yaml:"name"`
	Engine     string            `yaml:"engine"`
	Gravity    dynamo.Vec2       `yaml:"gravity"`
	Step       dynamo.StepConfig `yaml:"step"`
	Iterations int               `yaml:"iterations"`
	Ground     BodyConfig        `yaml:"ground"`
	Box        BodyConfig        `yaml:"box"`
	Spawn      BodyConfig        `yaml:"spawn"`
	Impulse    dynamo.Vec2       `yaml:"impulse"`
	Viewport   ViewportConfig    `yaml:"viewport"`
	Texture    string            `yaml:"texture"`
}

// BodyConfig describes one body and its single fixture. A zero Radius means
// a box of HalfExtents.
type BodyConfig struct {
	Position    dynamo.Vec2 `yaml:"position"`
	Angle       float64     `yaml:"angle"`
	HalfExtents dynamo.Vec2 `yaml:"half_extents"`
	Radius      float64     `yaml:"radius"`
	Density     float64     `yaml:"density"`
	Friction    float64     `yaml:"friction"`
	Restitution float64     `yaml:"restitution"`
}

type ViewportConfig struct {
	PPM    float64 `yaml:"ppm"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
}

// Default is the classic hello world: a 2x2 box dropped from y=4 onto a
// 100x20 ground box centered at y=-10.
func Default() *Scene {
	return &Scene{
		Name:       "hello",
		Engine:     DefaultEngine,
		Gravity:    dynamo.Vec2{X: 0, Y: -10},
		Step:       dynamo.DefaultStep(),
		Iterations: DefaultIterations,
		Ground: BodyConfig{
			Position:    dynamo.Vec2{X: 0, Y: -10},
			HalfExtents: dynamo.Vec2{X: 50, Y: 10},
		},
		Box: BodyConfig{
			Position:    dynamo.Vec2{X: 0, Y: 4},
			HalfExtents: dynamo.Vec2{X: 1, Y: 1},
			Density:     1,
			Friction:    0.3,
		},
		Spawn: BodyConfig{
			HalfExtents: dynamo.Vec2{X: 1, Y: 1},
			Density:     1,
			Friction:    0.3,
		},
		Impulse: dynamo.Vec2{X: 0, Y: 50},
		Viewport: ViewportConfig{
			PPM:    DefaultPPM,
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Texture: DefaultTexture,
	}
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse overlays YAML on Default and validates the result.
func Parse(data []byte) (*Scene, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Scene) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Scene) Validate() error {
	if err := c.Step.Validate(); err != nil {
		return err
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	if c.Viewport.PPM <= 0 {
		return fmt.Errorf("viewport ppm must be positive, got %f", c.Viewport.PPM)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport size must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	for name, b := range map[string]BodyConfig{"ground": c.Ground, "box": c.Box, "spawn": c.Spawn} {
		if err := b.Fixture().Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Clone returns a deep copy; Scene holds only values.
func (c *Scene) Clone() *Scene {
	cp := *c
	return &cp
}

func (b BodyConfig) Shape() dynamo.Shape {
	if b.Radius > 0 {
		return dynamo.Circle(b.Radius)
	}
	return dynamo.Box(b.HalfExtents.X, b.HalfExtents.Y)
}

func (b BodyConfig) Fixture() dynamo.FixtureDef {
	return dynamo.FixtureDef{
		Shape:       b.Shape(),
		Density:     b.Density,
		Friction:    b.Friction,
		Restitution: b.Restitution,
	}
}

func (b BodyConfig) Def(t dynamo.BodyType) dynamo.BodyDef {
	return dynamo.BodyDef{Type: t, Position: b.Position, Angle: b.Angle}
}
