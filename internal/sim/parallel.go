package sim

import (
	"context"
	"sync"

	"github.com/san-kum/boxsim/internal/dynamo"
)

// Ensemble runs independent worlds side by side, one goroutine each. Every
// world stays confined to its own goroutine.
type Ensemble struct {
	worlds  []dynamo.World
	step    dynamo.StepConfig
	metrics func() []Metric
}

// NewEnsemble takes a metrics factory so each run gets its own instances.
func NewEnsemble(worlds []dynamo.World, step dynamo.StepConfig, metrics func() []Metric) *Ensemble {
	return &Ensemble{worlds: worlds, step: step, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, n int) ([]*Result, error) {
	results := make([]*Result, len(e.worlds))
	errs := make([]error, len(e.worlds))

	sims := make([]*Simulator, len(e.worlds))
	for i, w := range e.worlds {
		sims[i] = New(w, e.step)
		if e.metrics != nil {
			for _, m := range e.metrics() {
				sims[i].AddMetric(m)
			}
		}
	}

	var wg sync.WaitGroup
	for i, s := range sims {
		wg.Add(1)
		go func(idx int, s *Simulator) {
			defer wg.Done()
			results[idx], errs[idx] = s.Run(ctx, n)
		}(i, s)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
