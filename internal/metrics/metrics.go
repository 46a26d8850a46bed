// Package metrics summarizes a run frame by frame. Every metric implements
// sim.Metric.
package metrics

import (
	"math"

	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/sim"
)

// Default returns a fresh set of the standard metrics.
func Default() []sim.Metric {
	return []sim.Metric{
		NewSettle(0.05),
		NewDrop(),
		NewMaxSpeed(),
		NewStaticDrift(),
	}
}

// Settle reports the first step from which every dynamic body stayed below
// a speed threshold until the latest frame, or -1.
type Settle struct {
	threshold float64
	since     int
}

func NewSettle(threshold float64) *Settle {
	return &Settle{threshold: threshold, since: -1}
}

func (s *Settle) Name() string { return "settle_step" }

func (s *Settle) Observe(f sim.Frame) {
	for _, b := range f.Bodies {
		if b.Type == dynamo.DynamicBody && b.Velocity.Len() >= s.threshold {
			s.since = -1
			return
		}
	}
	if s.since < 0 {
		s.since = f.Step
	}
}

func (s *Settle) Value() float64 { return float64(s.since) }
func (s *Settle) Reset()         { s.since = -1 }

// Drop is how far the first dynamic body fell: its y before the first step
// minus the lowest y seen. Without a baseline the first observed frame
// stands in for the starting pose.
type Drop struct {
	id         int
	start, min float64
}

func NewDrop() *Drop { return &Drop{} }

func (d *Drop) Name() string { return "drop" }

func (d *Drop) Baseline(f sim.Frame) {
	*d = Drop{}
	d.seed(f)
}

func (d *Drop) Observe(f sim.Frame) {
	if d.id == 0 {
		d.seed(f)
		return
	}
	if b, ok := f.Body(d.id); ok {
		d.min = math.Min(d.min, b.Position.Y)
	}
}

func (d *Drop) seed(f sim.Frame) {
	for _, b := range f.Bodies {
		if b.Type == dynamo.DynamicBody {
			d.id, d.start, d.min = b.ID, b.Position.Y, b.Position.Y
			return
		}
	}
}

func (d *Drop) Value() float64 { return d.start - d.min }
func (d *Drop) Reset()         { *d = Drop{} }

type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(f sim.Frame) {
	for _, b := range f.Bodies {
		m.max = math.Max(m.max, b.Velocity.Len())
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

// StaticDrift is the largest distance any static body moved from where it
// was first observed. Anything but zero is an engine bug.
type StaticDrift struct {
	origin map[int]dynamo.Vec2
	max    float64
}

func NewStaticDrift() *StaticDrift { return &StaticDrift{origin: make(map[int]dynamo.Vec2)} }

func (s *StaticDrift) Name() string { return "static_drift" }

func (s *StaticDrift) Observe(f sim.Frame) {
	for _, b := range f.Bodies {
		if b.Type != dynamo.StaticBody {
			continue
		}
		o, ok := s.origin[b.ID]
		if !ok {
			s.origin[b.ID] = b.Position
			continue
		}
		s.max = math.Max(s.max, b.Position.Sub(o).Len())
	}
}

func (s *StaticDrift) Value() float64 { return s.max }

func (s *StaticDrift) Reset() {
	s.origin = make(map[int]dynamo.Vec2)
	s.max = 0
}
