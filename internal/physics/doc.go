// Package physics adapts external rigid-body engines to [dynamo.World].
//
// Two backends are registered:
//
//   - "box2d": the Go port of Box2D (github.com/ByteArena/box2d)
//   - "chipmunk": the Go port of Chipmunk2D (github.com/jakecoffman/cp)
//
// Both honor the same body/fixture definitions, so the hello-world and
// testbed scenes can run against either:
//
//	w, err := physics.New("chipmunk", dynamo.Vec2{Y: -10})
//
// Body ids are assigned in creation order starting at 1 and are stable for
// the lifetime of the world.
package physics
