// Package viewport converts between simulation space (meters, y up) and
// screen space (pixels, y down) at a fixed pixels-per-meter scale.
package viewport

import (
	"math"

	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/dynamo"
)

// PPM is the default pixels-per-meter scale.
const PPM = 8.0

type Viewport struct {
	PPM float64
	// Origin is the screen position of the simulation origin.
	Origin dynamo.Vec2
}

// Centered puts the simulation origin at the center of a w x h screen.
func Centered(w, h int, ppm float64) Viewport {
	return Viewport{PPM: ppm, Origin: dynamo.Vec2{X: float64(w) / 2, Y: float64(h) / 2}}
}

func FromConfig(c config.ViewportConfig) Viewport {
	return Centered(c.Width, c.Height, c.PPM)
}

func (v Viewport) ToScreen(p dynamo.Vec2) dynamo.Vec2 {
	return dynamo.Vec2{
		X: v.Origin.X + p.X*v.PPM,
		Y: v.Origin.Y - p.Y*v.PPM,
	}
}

func (v Viewport) ToWorld(p dynamo.Vec2) dynamo.Vec2 {
	return dynamo.Vec2{
		X: (p.X - v.Origin.X) / v.PPM,
		Y: (v.Origin.Y - p.Y) / v.PPM,
	}
}

// Length scales a simulation distance to pixels.
func (v Viewport) Length(meters float64) float64 { return meters * v.PPM }

// Transform is the model-view transform for one textured quad: translate to
// Translate, rotate by Rotation degrees (clockwise on screen), then scale a
// texture-sized quad centered on the origin by Scale.
type Transform struct {
	Translate dynamo.Vec2
	Rotation  float64
	Scale     dynamo.Vec2
}

// ModelView computes the transform that draws a texW x texH texture over a
// body's shape.
func (v Viewport) ModelView(b dynamo.BodyState, texW, texH float64) Transform {
	size := b.Shape.Size()
	t := Transform{
		Translate: v.ToScreen(b.Position),
		// Counter-clockwise in y-up space is clockwise once y is flipped.
		Rotation: -b.Angle * 180 / math.Pi,
		Scale:    dynamo.Vec2{X: 1, Y: 1},
	}
	if texW > 0 && texH > 0 {
		t.Scale = dynamo.Vec2{X: v.Length(size.X) / texW, Y: v.Length(size.Y) / texH}
	}
	return t
}

// Apply maps a point in texture-local coordinates (origin at the quad center)
// to the screen.
func (t Transform) Apply(p dynamo.Vec2) dynamo.Vec2 {
	scaled := dynamo.Vec2{X: p.X * t.Scale.X, Y: p.Y * t.Scale.Y}
	// Screen rotation is clockwise for positive degrees with y down, which is
	// the same matrix as counter-clockwise with y up.
	return scaled.Rotate(t.Rotation * math.Pi / 180).Add(t.Translate)
}

// Corners returns the screen-space corners of a body's bounding box in
// counter-clockwise simulation order.
func (v Viewport) Corners(b dynamo.BodyState) [4]dynamo.Vec2 {
	h := b.Shape.Size().Scale(0.5)
	local := [4]dynamo.Vec2{{X: -h.X, Y: -h.Y}, {X: h.X, Y: -h.Y}, {X: h.X, Y: h.Y}, {X: -h.X, Y: h.Y}}
	var out [4]dynamo.Vec2
	for i, p := range local {
		out[i] = v.ToScreen(p.Rotate(b.Angle).Add(b.Position))
	}
	return out
}
