// Package automation runs batches of scenes: one scene per value of a swept
// parameter, stepped side by side.
package automation

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/metrics"
	"github.com/san-kum/boxsim/internal/scene"
	"github.com/san-kum/boxsim/internal/sim"
)

// setters apply a swept value to the first dynamic box or the world.
var setters = map[string]func(s *config.Scene, v float64){
	"restitution": func(s *config.Scene, v float64) { s.Box.Restitution = v },
	"friction":    func(s *config.Scene, v float64) { s.Box.Friction = v },
	"density":     func(s *config.Scene, v float64) { s.Box.Density = v },
	"height":      func(s *config.Scene, v float64) { s.Box.Position.Y = v },
	"angle":       func(s *config.Scene, v float64) { s.Box.Angle = v },
	"gravity":     func(s *config.Scene, v float64) { s.Gravity.Y = v },
}

func Params() []string {
	names := make([]string, 0, len(setters))
	for name := range setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sweep spreads Count values evenly over [Min, Max].
type Sweep struct {
	Param string
	Min   float64
	Max   float64
	Count int
}

func (sw Sweep) Values() []float64 {
	if sw.Count == 1 {
		return []float64{sw.Min}
	}
	step := (sw.Max - sw.Min) / float64(sw.Count-1)
	vals := make([]float64, sw.Count)
	for i := range vals {
		vals[i] = sw.Min + float64(i)*step
	}
	return vals
}

type SweepResult struct {
	Value   float64
	Final   dynamo.BodyState
	Metrics map[string]float64
}

// RunSweep runs base once per swept value for base.Iterations steps.
func RunSweep(ctx context.Context, base *config.Scene, sw Sweep) ([]SweepResult, error) {
	set, ok := setters[sw.Param]
	if !ok {
		return nil, fmt.Errorf("unknown sweep parameter: %s (available: %v)", sw.Param, Params())
	}
	if sw.Count < 1 {
		return nil, fmt.Errorf("sweep count must be positive, got %d", sw.Count)
	}

	values := sw.Values()
	worlds := make([]dynamo.World, len(values))
	boxes := make([]int, len(values))
	for i, v := range values {
		cfg := base.Clone()
		set(cfg, v)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%.4f: %w", sw.Param, v, err)
		}
		s, err := scene.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("%s=%.4f: %w", sw.Param, v, err)
		}
		worlds[i] = s.World()
		boxes[i] = s.Tracked()[0].ID()
	}

	runs, err := sim.NewEnsemble(worlds, base.Step, metrics.Default).Run(ctx, base.Iterations)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		final, _ := r.Frames[len(r.Frames)-1].Body(boxes[i])
		results[i] = SweepResult{Value: values[i], Final: final, Metrics: r.Metrics}
	}
	return results, nil
}
