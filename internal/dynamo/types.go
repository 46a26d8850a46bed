package dynamo

import (
	"fmt"
	"math"
)

type Vec2 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }
func (v Vec2) IsValid() bool        { return !isBad(v.X) && !isBad(v.Y) }
func (v Vec2) String() string       { return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y) }
func (v Vec2) Rotate(rad float64) Vec2 {
	c, s := math.Cos(rad), math.Sin(rad)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

func isBad(f float64) bool { return math.IsNaN(f) || math.IsInf(f, 0) }

type BodyType uint8

const (
	StaticBody BodyType = iota
	KinematicBody
	DynamicBody
)

func (t BodyType) String() string {
	switch t {
	case StaticBody:
		return "static"
	case KinematicBody:
		return "kinematic"
	case DynamicBody:
		return "dynamic"
	}
	return fmt.Sprintf("bodytype(%d)", uint8(t))
}

// ParseBodyType is the inverse of BodyType.String.
func ParseBodyType(s string) (BodyType, error) {
	switch s {
	case "static":
		return StaticBody, nil
	case "kinematic":
		return KinematicBody, nil
	case "dynamic":
		return DynamicBody, nil
	}
	return 0, fmt.Errorf("%w: body type %q", ErrInvalidDef, s)
}

type ShapeKind uint8

const (
	BoxShape ShapeKind = iota
	CircleShape
)

// Shape describes collision geometry in body-local coordinates, centered on
// the body origin. HalfExtents is used by boxes, Radius by circles.
type Shape struct {
	Kind        ShapeKind
	HalfExtents Vec2
	Radius      float64
}

func Box(hx, hy float64) Shape    { return Shape{Kind: BoxShape, HalfExtents: Vec2{hx, hy}} }
func Circle(radius float64) Shape { return Shape{Kind: CircleShape, Radius: radius} }

func (s Shape) Area() float64 {
	if s.Kind == CircleShape {
		return math.Pi * s.Radius * s.Radius
	}
	return 4 * s.HalfExtents.X * s.HalfExtents.Y
}

// Size returns the full width and height of the shape's local bounding box.
func (s Shape) Size() Vec2 {
	if s.Kind == CircleShape {
		return Vec2{2 * s.Radius, 2 * s.Radius}
	}
	return s.HalfExtents.Scale(2)
}

func (s Shape) validate() error {
	switch s.Kind {
	case BoxShape:
		if s.HalfExtents.X <= 0 || s.HalfExtents.Y <= 0 {
			return fmt.Errorf("%w: box half extents must be positive, got %v", ErrInvalidDef, s.HalfExtents)
		}
	case CircleShape:
		if s.Radius <= 0 {
			return fmt.Errorf("%w: circle radius must be positive, got %f", ErrInvalidDef, s.Radius)
		}
	default:
		return fmt.Errorf("%w: shape kind %d", ErrInvalidDef, s.Kind)
	}
	return nil
}

type FixtureDef struct {
	Shape       Shape
	Density     float64
	Friction    float64
	Restitution float64
}

func (f FixtureDef) Validate() error {
	if err := f.Shape.validate(); err != nil {
		return err
	}
	if f.Density < 0 || f.Friction < 0 || f.Restitution < 0 {
		return fmt.Errorf("%w: negative material property (density=%f friction=%f restitution=%f)",
			ErrInvalidDef, f.Density, f.Friction, f.Restitution)
	}
	return nil
}

type BodyDef struct {
	Type     BodyType
	Position Vec2
	Angle    float64
}

func (d BodyDef) Validate() error {
	if d.Type > DynamicBody {
		return fmt.Errorf("%w: body type %d", ErrInvalidDef, d.Type)
	}
	if !d.Position.IsValid() || isBad(d.Angle) {
		return fmt.Errorf("%w: position %v angle %f", ErrInvalidDef, d.Position, d.Angle)
	}
	return nil
}

// StepConfig is the fixed time step handed to World.Step.
type StepConfig struct {
	Dt                 float64 `yaml:"dt" json:"dt"`
	VelocityIterations int     `yaml:"velocity_iterations" json:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations" json:"position_iterations"`
}

// DefaultStep is 60 Hz with 6 velocity and 2 position iterations.
func DefaultStep() StepConfig {
	return StepConfig{
		Dt:                 1.0 / 60.0,
		VelocityIterations: 6,
		PositionIterations: 2,
	}
}

func (c StepConfig) Validate() error {
	if c.Dt <= 0 || isBad(c.Dt) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidStep, c.Dt)
	}
	if c.VelocityIterations < 1 || c.PositionIterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1 (velocity=%d position=%d)",
			ErrInvalidStep, c.VelocityIterations, c.PositionIterations)
	}
	return nil
}

// Body is a handle to a body owned by a World. It is only valid for the
// lifetime of its World.
type Body interface {
	ID() int
	Type() BodyType
	Shape() Shape
	Position() Vec2
	Angle() float64
	LinearVelocity() Vec2
	WorldCenter() Vec2
	Mass() float64
	// ApplyImpulse applies a linear impulse at the body's center of mass.
	ApplyImpulse(impulse Vec2)
}

type World interface {
	Engine() string
	Gravity() Vec2
	CreateBody(def BodyDef, fixture FixtureDef) (Body, error)
	Bodies() []Body
	Step(cfg StepConfig)
}

// BodyState is a value snapshot of a Body.
type BodyState struct {
	ID       int
	Type     BodyType
	Shape    Shape
	Position Vec2
	Angle    float64
	Velocity Vec2
}

func Snapshot(b Body) BodyState {
	return BodyState{
		ID:       b.ID(),
		Type:     b.Type(),
		Shape:    b.Shape(),
		Position: b.Position(),
		Angle:    b.Angle(),
		Velocity: b.LinearVelocity(),
	}
}
