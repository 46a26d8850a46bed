package config

import (
	"sort"

	"github.com/san-kum/boxsim/internal/dynamo"
)

// Presets maps a name to a function producing a fresh scene, so callers may
// mutate what they get.
var Presets = map[string]func() *Scene{
	"hello": Default,
	"testbed": func() *Scene {
		s := Default()
		s.Name = "testbed"
		// 800x600 at 8 px/m is 100x75 m with the origin at screen center.
		s.Ground = BodyConfig{
			Position:    dynamo.Vec2{X: 0, Y: -32},
			HalfExtents: dynamo.Vec2{X: 45, Y: 2},
			Friction:    0.6,
		}
		s.Box.Position = dynamo.Vec2{X: 0, Y: 20}
		s.Box.HalfExtents = dynamo.Vec2{X: 2, Y: 2}
		s.Spawn.HalfExtents = dynamo.Vec2{X: 2, Y: 2}
		s.Impulse = dynamo.Vec2{X: 0, Y: 400}
		s.Iterations = 600
		return s
	},
	"bouncy": func() *Scene {
		s := Default()
		s.Name = "bouncy"
		s.Box.Restitution = 0.8
		s.Spawn.Restitution = 0.8
		s.Iterations = 240
		return s
	},
	"chipmunk": func() *Scene {
		s := Default()
		s.Name = "chipmunk"
		s.Engine = "chipmunk"
		return s
	},
	"ball": func() *Scene {
		s := Default()
		s.Name = "ball"
		s.Box.Radius = 1
		s.Box.Angle = 0
		s.Spawn.Radius = 0.5
		s.Iterations = 180
		return s
	},
	"tilted": func() *Scene {
		s := Default()
		s.Name = "tilted"
		s.Box.Position = dynamo.Vec2{X: 0, Y: 8}
		s.Box.Angle = 0.6
		s.Iterations = 240
		return s
	},
}

func GetPreset(name string) *Scene {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
