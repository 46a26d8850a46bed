package physics

import (
	"github.com/ByteArena/box2d"
	"github.com/san-kum/boxsim/internal/dynamo"
)

// Box2D wraps a box2d.B2World.
type Box2D struct {
	world   box2d.B2World
	gravity dynamo.Vec2
	bodies  []dynamo.Body
}

func NewBox2D(gravity dynamo.Vec2) *Box2D {
	return &Box2D{
		world:   box2d.MakeB2World(box2d.MakeB2Vec2(gravity.X, gravity.Y)),
		gravity: gravity,
	}
}

func (w *Box2D) Engine() string        { return "box2d" }
func (w *Box2D) Gravity() dynamo.Vec2  { return w.gravity }
func (w *Box2D) Bodies() []dynamo.Body { return append([]dynamo.Body(nil), w.bodies...) }

func (w *Box2D) CreateBody(def dynamo.BodyDef, fixture dynamo.FixtureDef) (dynamo.Body, error) {
	if err := validate(def, fixture); err != nil {
		return nil, err
	}

	bd := box2d.MakeB2BodyDef()
	bd.Type = b2BodyType(def.Type)
	bd.Position.Set(def.Position.X, def.Position.Y)
	bd.Angle = def.Angle
	body := w.world.CreateBody(&bd)

	fd := box2d.MakeB2FixtureDef()
	switch fixture.Shape.Kind {
	case dynamo.CircleShape:
		circle := box2d.MakeB2CircleShape()
		circle.M_radius = fixture.Shape.Radius
		fd.Shape = &circle
	default:
		poly := box2d.MakeB2PolygonShape()
		poly.SetAsBox(fixture.Shape.HalfExtents.X, fixture.Shape.HalfExtents.Y)
		fd.Shape = &poly
	}
	fd.Density = fixture.Density
	fd.Friction = fixture.Friction
	fd.Restitution = fixture.Restitution
	body.CreateFixtureFromDef(&fd)

	b := &box2dBody{id: len(w.bodies) + 1, typ: def.Type, shape: fixture.Shape, body: body}
	w.bodies = append(w.bodies, b)
	return b, nil
}

func (w *Box2D) Step(cfg dynamo.StepConfig) {
	w.world.Step(cfg.Dt, cfg.VelocityIterations, cfg.PositionIterations)
}

func b2BodyType(t dynamo.BodyType) uint8 {
	switch t {
	case dynamo.DynamicBody:
		return box2d.B2BodyType.B2_dynamicBody
	case dynamo.KinematicBody:
		return box2d.B2BodyType.B2_kinematicBody
	}
	return box2d.B2BodyType.B2_staticBody
}

type box2dBody struct {
	id    int
	typ   dynamo.BodyType
	shape dynamo.Shape
	body  *box2d.B2Body
}

func (b *box2dBody) ID() int               { return b.id }
func (b *box2dBody) Type() dynamo.BodyType { return b.typ }
func (b *box2dBody) Shape() dynamo.Shape   { return b.shape }
func (b *box2dBody) Angle() float64        { return b.body.GetAngle() }
func (b *box2dBody) Mass() float64         { return b.body.GetMass() }
func (b *box2dBody) Position() dynamo.Vec2 { return fromB2(b.body.GetPosition()) }
func (b *box2dBody) WorldCenter() dynamo.Vec2 {
	return fromB2(b.body.GetWorldCenter())
}
func (b *box2dBody) LinearVelocity() dynamo.Vec2 {
	return fromB2(b.body.GetLinearVelocity())
}

func (b *box2dBody) ApplyImpulse(impulse dynamo.Vec2) {
	b.body.ApplyLinearImpulse(box2d.MakeB2Vec2(impulse.X, impulse.Y), b.body.GetWorldCenter(), true)
}

func fromB2(v box2d.B2Vec2) dynamo.Vec2 { return dynamo.Vec2{X: v.X, Y: v.Y} }
