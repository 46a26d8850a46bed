package physics

import (
	"fmt"
	"sort"

	"github.com/san-kum/boxsim/internal/dynamo"
)

const DefaultEngine = "box2d"

var engines = map[string]func(gravity dynamo.Vec2) dynamo.World{
	"box2d":    func(g dynamo.Vec2) dynamo.World { return NewBox2D(g) },
	"chipmunk": func(g dynamo.Vec2) dynamo.World { return NewChipmunk(g) },
}

// New builds an empty world for the named engine. An empty name selects
// DefaultEngine.
func New(engine string, gravity dynamo.Vec2) (dynamo.World, error) {
	if engine == "" {
		engine = DefaultEngine
	}
	fn, ok := engines[engine]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownEngine, engine, Engines())
	}
	if !gravity.IsValid() {
		return nil, fmt.Errorf("%w: gravity %v", dynamo.ErrInvalidDef, gravity)
	}
	return fn(gravity), nil
}

func Engines() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validate(def dynamo.BodyDef, fixture dynamo.FixtureDef) error {
	if err := def.Validate(); err != nil {
		return err
	}
	return fixture.Validate()
}
