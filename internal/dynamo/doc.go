// Package dynamo defines the contract between boxsim and a rigid-body
// physics engine.
//
// The package holds the engine-neutral types every other package speaks:
//
//   - [Vec2]: a 2D vector in simulation units (meters)
//   - [BodyDef] and [FixtureDef]: typed definitions passed to a [World]
//   - [World]: owns bodies and advances them by a [StepConfig]
//   - [Body]: a handle to a body owned by a [World]
//
// Engines live in package physics. A minimal session looks like:
//
//	w, _ := physics.New("box2d", dynamo.Vec2{Y: -10})
//	ground, _ := w.CreateBody(dynamo.BodyDef{Type: dynamo.StaticBody}, dynamo.FixtureDef{
//	    Shape: dynamo.Box(50, 10),
//	})
//	w.Step(dynamo.DefaultStep())
//
// # Thread Safety
//
// Worlds and bodies are NOT thread-safe. A world must be stepped and queried
// from a single goroutine.
package dynamo
