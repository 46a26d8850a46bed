package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/boxsim/internal/dynamo"
)

func helloWorld(t *testing.T, engine string) (dynamo.World, dynamo.Body, dynamo.Body) {
	t.Helper()
	w, err := New(engine, dynamo.Vec2{Y: -10})
	if err != nil {
		t.Fatalf("new %s: %v", engine, err)
	}
	ground, err := w.CreateBody(
		dynamo.BodyDef{Type: dynamo.StaticBody, Position: dynamo.Vec2{Y: -10}},
		dynamo.FixtureDef{Shape: dynamo.Box(50, 10)},
	)
	if err != nil {
		t.Fatalf("ground: %v", err)
	}
	box, err := w.CreateBody(
		dynamo.BodyDef{Type: dynamo.DynamicBody, Position: dynamo.Vec2{Y: 4}},
		dynamo.FixtureDef{Shape: dynamo.Box(1, 1), Density: 1, Friction: 0.3},
	)
	if err != nil {
		t.Fatalf("box: %v", err)
	}
	return w, ground, box
}

func TestEnginesFallAndRest(t *testing.T) {
	for _, engine := range Engines() {
		t.Run(engine, func(t *testing.T) {
			w, ground, box := helloWorld(t, engine)
			if w.Engine() != engine {
				t.Errorf("expected engine %s, got %s", engine, w.Engine())
			}

			groundStart := ground.Position()
			prevY := box.Position().Y
			for i := 0; i < 120; i++ {
				w.Step(dynamo.DefaultStep())
				y := box.Position().Y
				if i < 30 && y >= prevY {
					t.Fatalf("step %d: expected y to decrease, %.4f -> %.4f", i, prevY, y)
				}
				prevY = y
				if ground.Position() != groundStart {
					t.Fatalf("step %d: ground moved to %v", i, ground.Position())
				}
			}

			// Box half height is 1 and the ground's top face is at y=0.
			if math.Abs(box.Position().Y-1.0) > 0.1 {
				t.Errorf("expected box to rest near y=1, got %.4f", box.Position().Y)
			}
		})
	}
}

// One step from rest: v = g*dt, then y = y0 + v*dt, on every engine.
func TestFirstStepMovesBox(t *testing.T) {
	const dt = 1.0 / 60.0
	wantVY := -10 * dt
	wantY := 4 + wantVY*dt
	for _, engine := range Engines() {
		t.Run(engine, func(t *testing.T) {
			w, _, box := helloWorld(t, engine)
			w.Step(dynamo.DefaultStep())

			if vy := box.LinearVelocity().Y; math.Abs(vy-wantVY) > 1e-9 {
				t.Errorf("expected vy %.6f after one step, got %.6f", wantVY, vy)
			}
			if y := box.Position().Y; math.Abs(y-wantY) > 1e-9 {
				t.Errorf("expected y %.6f after one step, got %.6f", wantY, y)
			}
		})
	}
}

func TestBodyIDsAndList(t *testing.T) {
	for _, engine := range Engines() {
		w, ground, box := helloWorld(t, engine)
		if ground.ID() != 1 || box.ID() != 2 {
			t.Errorf("%s: expected ids 1,2 got %d,%d", engine, ground.ID(), box.ID())
		}
		bodies := w.Bodies()
		if len(bodies) != 2 {
			t.Fatalf("%s: expected 2 bodies, got %d", engine, len(bodies))
		}
		bodies[0] = nil
		if w.Bodies()[0] == nil {
			t.Errorf("%s: Bodies must return a copy", engine)
		}
		if ground.Type() != dynamo.StaticBody || box.Type() != dynamo.DynamicBody {
			t.Errorf("%s: unexpected body types %v %v", engine, ground.Type(), box.Type())
		}
	}
}

func TestMassFromDensity(t *testing.T) {
	for _, engine := range Engines() {
		_, ground, box := helloWorld(t, engine)
		if ground.Mass() != 0 {
			t.Errorf("%s: static body mass should be 0, got %f", engine, ground.Mass())
		}
		if math.Abs(box.Mass()-4.0) > 1e-9 {
			t.Errorf("%s: expected mass 4 for a 2x2 box of density 1, got %f", engine, box.Mass())
		}
	}
}

func TestApplyImpulse(t *testing.T) {
	for _, engine := range Engines() {
		w, ground, box := helloWorld(t, engine)
		box.ApplyImpulse(dynamo.Vec2{Y: 40})
		if v := box.LinearVelocity().Y; math.Abs(v-10) > 1e-9 {
			t.Errorf("%s: expected vy=10 after impulse 40 on mass 4, got %f", engine, v)
		}
		ground.ApplyImpulse(dynamo.Vec2{Y: 40})
		w.Step(dynamo.DefaultStep())
		if ground.LinearVelocity().Len() != 0 {
			t.Errorf("%s: static body picked up velocity %v", engine, ground.LinearVelocity())
		}
		if box.Position().Y <= 4 {
			t.Errorf("%s: expected box to rise after impulse, y=%.4f", engine, box.Position().Y)
		}
	}
}

func TestCircleFixture(t *testing.T) {
	for _, engine := range Engines() {
		w, _, _ := helloWorld(t, engine)
		ball, err := w.CreateBody(
			dynamo.BodyDef{Type: dynamo.DynamicBody, Position: dynamo.Vec2{X: 5, Y: 6}},
			dynamo.FixtureDef{Shape: dynamo.Circle(0.5), Density: 1},
		)
		if err != nil {
			t.Fatalf("%s: circle: %v", engine, err)
		}
		if math.Abs(ball.Mass()-math.Pi*0.25) > 1e-9 {
			t.Errorf("%s: unexpected circle mass %f", engine, ball.Mass())
		}
		for i := 0; i < 180; i++ {
			w.Step(dynamo.DefaultStep())
		}
		if math.Abs(ball.Position().Y-0.5) > 0.1 {
			t.Errorf("%s: expected ball to rest near y=0.5, got %.4f", engine, ball.Position().Y)
		}
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New("bullet", dynamo.Vec2{}); !errors.Is(err, dynamo.ErrUnknownEngine) {
		t.Errorf("expected ErrUnknownEngine, got %v", err)
	}
	if _, err := New("box2d", dynamo.Vec2{Y: math.NaN()}); !errors.Is(err, dynamo.ErrInvalidDef) {
		t.Errorf("expected ErrInvalidDef for NaN gravity, got %v", err)
	}
	w, err := New("", dynamo.Vec2{Y: -10})
	if err != nil {
		t.Fatalf("default engine: %v", err)
	}
	if w.Engine() != DefaultEngine {
		t.Errorf("expected default engine %s, got %s", DefaultEngine, w.Engine())
	}
}

func TestCreateBodyRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		def     dynamo.BodyDef
		fixture dynamo.FixtureDef
	}{
		{"zero box", dynamo.BodyDef{Type: dynamo.DynamicBody}, dynamo.FixtureDef{Shape: dynamo.Box(0, 1)}},
		{"negative radius", dynamo.BodyDef{Type: dynamo.DynamicBody}, dynamo.FixtureDef{Shape: dynamo.Circle(-1)}},
		{"negative density", dynamo.BodyDef{Type: dynamo.DynamicBody}, dynamo.FixtureDef{Shape: dynamo.Box(1, 1), Density: -1}},
		{"nan position", dynamo.BodyDef{Position: dynamo.Vec2{X: math.NaN()}}, dynamo.FixtureDef{Shape: dynamo.Box(1, 1)}},
		{"bad type", dynamo.BodyDef{Type: 7}, dynamo.FixtureDef{Shape: dynamo.Box(1, 1)}},
	}

	for _, engine := range Engines() {
		for _, tt := range tests {
			t.Run(engine+"/"+tt.name, func(t *testing.T) {
				w, err := New(engine, dynamo.Vec2{Y: -10})
				if err != nil {
					t.Fatal(err)
				}
				if _, err := w.CreateBody(tt.def, tt.fixture); !errors.Is(err, dynamo.ErrInvalidDef) {
					t.Errorf("expected ErrInvalidDef, got %v", err)
				}
				if len(w.Bodies()) != 0 {
					t.Errorf("rejected body must not be added")
				}
			})
		}
	}
}
