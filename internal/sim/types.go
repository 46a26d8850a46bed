package sim

import (
	"fmt"

	"github.com/san-kum/boxsim/internal/dynamo"
)

// Frame is every body's state after one step.
type Frame struct {
	Step   int
	Time   float64
	Bodies []dynamo.BodyState
}

// Body returns the state of the body with the given id.
func (f Frame) Body(id int) (dynamo.BodyState, bool) {
	for _, b := range f.Bodies {
		if b.ID == id {
			return b, true
		}
	}
	return dynamo.BodyState{}, false
}

func Capture(step int, t float64, w dynamo.World) Frame {
	bodies := w.Bodies()
	f := Frame{Step: step, Time: t, Bodies: make([]dynamo.BodyState, len(bodies))}
	for i, b := range bodies {
		f.Bodies[i] = dynamo.Snapshot(b)
	}
	return f
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

// Baseliner is a Metric that also wants the world as it stood before the
// first step of a run.
type Baseliner interface {
	Baseline(f Frame)
}

type Observer interface {
	OnStep(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnStep(f Frame) { fn(f) }

type Result struct {
	Engine  string
	Step    dynamo.StepConfig
	Frames  []Frame
	Metrics map[string]float64
}

// Columns lists the per-body quantities Series can extract.
var Columns = []string{"x", "y", "angle", "vx", "vy", "speed"}

// Series extracts one column of one body across frames. Frames missing the
// body are skipped.
func Series(frames []Frame, id int, column string) ([]float64, error) {
	var pick func(b dynamo.BodyState) float64
	switch column {
	case "x":
		pick = func(b dynamo.BodyState) float64 { return b.Position.X }
	case "y":
		pick = func(b dynamo.BodyState) float64 { return b.Position.Y }
	case "angle":
		pick = func(b dynamo.BodyState) float64 { return b.Angle }
	case "vx":
		pick = func(b dynamo.BodyState) float64 { return b.Velocity.X }
	case "vy":
		pick = func(b dynamo.BodyState) float64 { return b.Velocity.Y }
	case "speed":
		pick = func(b dynamo.BodyState) float64 { return b.Velocity.Len() }
	default:
		return nil, fmt.Errorf("unknown column %q (want one of %v)", column, Columns)
	}

	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if b, ok := f.Body(id); ok {
			out = append(out, pick(b))
		}
	}
	return out, nil
}
