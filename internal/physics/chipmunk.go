package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/san-kum/boxsim/internal/dynamo"
)

// Chipmunk wraps a cp.Space. Chipmunk has no separate position solver, so
// a step runs velocity+position iterations of its single solver.
//
// cp integrates positions before it applies gravity, which leaves a body
// resting in place for its first step. The space runs without gravity and
// Step adds it to each dynamic body's velocity first, so velocity is
// updated before position as in Box2D.
type Chipmunk struct {
	space   *cp.Space
	gravity dynamo.Vec2
	bodies  []dynamo.Body
	dynamic []*chipmunkBody
}

func NewChipmunk(gravity dynamo.Vec2) *Chipmunk {
	space := cp.NewSpace()
	// Same penetration allowance as Box2D's linear slop.
	space.SetCollisionSlop(0.005)
	return &Chipmunk{space: space, gravity: gravity}
}

func (w *Chipmunk) Engine() string        { return "chipmunk" }
func (w *Chipmunk) Gravity() dynamo.Vec2  { return w.gravity }
func (w *Chipmunk) Bodies() []dynamo.Body { return append([]dynamo.Body(nil), w.bodies...) }

func (w *Chipmunk) CreateBody(def dynamo.BodyDef, fixture dynamo.FixtureDef) (dynamo.Body, error) {
	if err := validate(def, fixture); err != nil {
		return nil, err
	}

	var body *cp.Body
	switch def.Type {
	case dynamo.DynamicBody:
		mass := fixture.Density * fixture.Shape.Area()
		if mass <= 0 {
			// Box2D promotes massless dynamic bodies to unit mass; match it.
			mass = 1
		}
		body = cp.NewBody(mass, moment(mass, fixture.Shape))
	case dynamo.KinematicBody:
		body = cp.NewKinematicBody()
	default:
		body = cp.NewStaticBody()
	}
	body.SetPosition(toCP(def.Position))
	body.SetAngle(def.Angle)
	w.space.AddBody(body)

	var shape *cp.Shape
	switch fixture.Shape.Kind {
	case dynamo.CircleShape:
		shape = cp.NewCircle(body, fixture.Shape.Radius, cp.Vector{})
	default:
		size := fixture.Shape.Size()
		shape = cp.NewBox(body, size.X, size.Y, 0)
	}
	shape.SetFriction(fixture.Friction)
	shape.SetElasticity(fixture.Restitution)
	w.space.AddShape(shape)

	b := &chipmunkBody{id: len(w.bodies) + 1, typ: def.Type, shape: fixture.Shape, body: body}
	w.bodies = append(w.bodies, b)
	if def.Type == dynamo.DynamicBody {
		w.dynamic = append(w.dynamic, b)
	}
	return b, nil
}

func (w *Chipmunk) Step(cfg dynamo.StepConfig) {
	dv := toCP(w.gravity.Scale(cfg.Dt))
	for _, b := range w.dynamic {
		b.body.SetVelocityVector(b.body.Velocity().Add(dv))
	}
	w.space.Iterations = uint(cfg.VelocityIterations + cfg.PositionIterations)
	w.space.Step(cfg.Dt)
}

func moment(mass float64, s dynamo.Shape) float64 {
	if s.Kind == dynamo.CircleShape {
		return cp.MomentForCircle(mass, 0, s.Radius, cp.Vector{})
	}
	size := s.Size()
	return cp.MomentForBox(mass, size.X, size.Y)
}

type chipmunkBody struct {
	id    int
	typ   dynamo.BodyType
	shape dynamo.Shape
	body  *cp.Body
}

func (b *chipmunkBody) ID() int                     { return b.id }
func (b *chipmunkBody) Type() dynamo.BodyType       { return b.typ }
func (b *chipmunkBody) Shape() dynamo.Shape         { return b.shape }
func (b *chipmunkBody) Angle() float64              { return b.body.Angle() }
func (b *chipmunkBody) Position() dynamo.Vec2       { return fromCP(b.body.Position()) }
func (b *chipmunkBody) LinearVelocity() dynamo.Vec2 { return fromCP(b.body.Velocity()) }

// Shapes are centered on the body origin, so the center of gravity is the
// position.
func (b *chipmunkBody) WorldCenter() dynamo.Vec2 { return b.Position() }

func (b *chipmunkBody) Mass() float64 {
	if b.typ != dynamo.DynamicBody {
		return 0
	}
	return b.body.Mass()
}

func (b *chipmunkBody) ApplyImpulse(impulse dynamo.Vec2) {
	if b.typ != dynamo.DynamicBody {
		return
	}
	b.body.Activate()
	b.body.ApplyImpulseAtWorldPoint(toCP(impulse), b.body.Position())
}

func toCP(v dynamo.Vec2) cp.Vector   { return cp.Vector{X: v.X, Y: v.Y} }
func fromCP(v cp.Vector) dynamo.Vec2 { return dynamo.Vec2{X: v.X, Y: v.Y} }
