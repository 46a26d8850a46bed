// Package scene builds the simulation context shared by every front end:
// one world, its static ground, and the ordered list of dynamic bodies the
// user can see and poke.
package scene

import (
	"fmt"

	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/physics"
)

// Scene owns a world and the bodies tracked for rendering and input. The
// tracked list only ever holds bodies the world has already created, and
// it never shrinks.
type Scene struct {
	cfg     *config.Scene
	world   dynamo.World
	ground  dynamo.Body
	tracked []dynamo.Body
}

// New creates the engine named by cfg and populates it.
func New(cfg *config.Scene) (*Scene, error) {
	w, err := physics.New(cfg.Engine, cfg.Gravity)
	if err != nil {
		return nil, err
	}
	return Setup(w, cfg)
}

// Setup adds the static ground and the first dynamic box to an empty world.
func Setup(w dynamo.World, cfg *config.Scene) (*Scene, error) {
	ground, err := w.CreateBody(cfg.Ground.Def(dynamo.StaticBody), cfg.Ground.Fixture())
	if err != nil {
		return nil, fmt.Errorf("ground: %w", err)
	}
	s := &Scene{cfg: cfg.Clone(), world: w, ground: ground}

	box, err := w.CreateBody(cfg.Box.Def(dynamo.DynamicBody), cfg.Box.Fixture())
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}
	s.tracked = append(s.tracked, box)
	return s, nil
}

func (s *Scene) World() dynamo.World   { return s.world }
func (s *Scene) Ground() dynamo.Body   { return s.ground }
func (s *Scene) Config() *config.Scene { return s.cfg }

// Tracked returns the tracked bodies in creation order.
func (s *Scene) Tracked() []dynamo.Body {
	return append([]dynamo.Body(nil), s.tracked...)
}

func (s *Scene) Len() int { return len(s.tracked) }

// Spawn creates a dynamic body with the spawn fixture at a simulation-space
// point and appends it to the tracked list.
func (s *Scene) Spawn(at dynamo.Vec2) (dynamo.Body, error) {
	def := dynamo.BodyDef{Type: dynamo.DynamicBody, Position: at}
	b, err := s.world.CreateBody(def, s.cfg.Spawn.Fixture())
	if err != nil {
		return nil, fmt.Errorf("spawn at %v: %w", at, err)
	}
	s.tracked = append(s.tracked, b)
	return b, nil
}

// Impulse applies the same linear impulse at every tracked body's center of
// mass.
func (s *Scene) Impulse(v dynamo.Vec2) {
	for _, b := range s.tracked {
		b.ApplyImpulse(v)
	}
}

// Kick applies the configured impulse.
func (s *Scene) Kick() { s.Impulse(s.cfg.Impulse) }

func (s *Scene) Step() { s.world.Step(s.cfg.Step) }

// Reset rebuilds the scene from its configuration in a fresh world.
func (s *Scene) Reset() (*Scene, error) {
	return New(s.cfg)
}
