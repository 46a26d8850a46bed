package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/boxsim/internal/dynamo"
)

// Simulator drives a world at a fixed step. It is the only place a world is
// stepped by the headless commands.
type Simulator struct {
	world     dynamo.World
	step      dynamo.StepConfig
	metrics   []Metric
	observers []Observer
	steps     int
	validate  bool
}

func New(w dynamo.World, step dynamo.StepConfig) *Simulator {
	return &Simulator{
		world:     w,
		step:      step,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		validate:  true,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetValidate toggles the NaN/Inf check run after every step.
func (s *Simulator) SetValidate(v bool) { s.validate = v }

// Time is the simulated time elapsed since New.
func (s *Simulator) Time() float64 { return float64(s.steps) * s.step.Dt }

func (s *Simulator) Steps() int { return s.steps }

// Advance performs one step and notifies observers and metrics.
func (s *Simulator) Advance() (Frame, error) {
	s.world.Step(s.step)
	s.steps++
	f := Capture(s.steps, s.Time(), s.world)

	if s.validate {
		for _, b := range f.Bodies {
			if !b.Position.IsValid() || !b.Velocity.IsValid() {
				return f, &dynamo.StepError{Step: f.Step, Time: f.Time, Body: b.ID, Wrapped: dynamo.ErrUnstable}
			}
		}
	}

	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, obs := range s.observers {
		obs.OnStep(f)
	}
	return f, nil
}

// Run performs exactly n steps and returns one frame per step.
func (s *Simulator) Run(ctx context.Context, n int) (*Result, error) {
	if err := s.validateConfig(n); err != nil {
		return nil, err
	}

	result := &Result{
		Engine:  s.world.Engine(),
		Step:    s.step,
		Frames:  make([]Frame, 0, n),
		Metrics: make(map[string]float64),
	}

	initial := Capture(s.steps, s.Time(), s.world)
	for _, m := range s.metrics {
		m.Reset()
		if b, ok := m.(Baseliner); ok {
			b.Baseline(initial)
		}
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		f, err := s.Advance()
		if err != nil {
			return result, err
		}
		result.Frames = append(result.Frames, f)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback steps until callback returns false, the context ends, or a
// step fails. The callback sees each frame after observers have.
func (s *Simulator) RunWithCallback(ctx context.Context, callback func(Frame) bool) error {
	if err := s.step.Validate(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, err := s.Advance()
		if err != nil {
			return err
		}
		if !callback(f) {
			return nil
		}
	}
}

func (s *Simulator) validateConfig(n int) error {
	if n < 1 {
		return fmt.Errorf("step count must be positive, got %d", n)
	}
	return s.step.Validate()
}
