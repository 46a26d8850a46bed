package console

import (
	"context"
	"io"

	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/scene"
	"github.com/san-kum/boxsim/internal/sim"
)

// Hello builds cfg's scene, steps it cfg.Iterations times and prints the
// first dynamic box once per step. Extra observers see every frame too.
func Hello(ctx context.Context, out io.Writer, cfg *config.Scene, observers ...sim.Observer) (*sim.Result, error) {
	s, err := scene.New(cfg)
	if err != nil {
		return nil, err
	}

	p := NewPrinter(out, s.Tracked()[0].ID())
	runner := sim.New(s.World(), cfg.Step)
	runner.AddObserver(p)
	for _, o := range observers {
		runner.AddObserver(o)
	}

	result, err := runner.Run(ctx, cfg.Iterations)
	if err != nil {
		return result, err
	}
	return result, p.Err()
}
