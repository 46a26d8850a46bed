// Package console is the headless output sink: one text line per step.
package console

import (
	"fmt"
	"io"

	"github.com/san-kum/boxsim/internal/sim"
)

// LineFormat prints x, y and angle as fixed-point with two decimals.
const LineFormat = "%4.2f %4.2f %4.2f\n"

// Printer writes one line per frame for a single body. It implements
// sim.Observer.
type Printer struct {
	w      io.Writer
	body   int
	header bool
	lines  int
	err    error
}

func NewPrinter(w io.Writer, body int) *Printer {
	return &Printer{w: w, body: body}
}

// WithStep prefixes each line with the step index and simulated time.
func (p *Printer) WithStep() *Printer {
	p.header = true
	return p
}

func (p *Printer) OnStep(f sim.Frame) {
	if p.err != nil {
		return
	}
	b, ok := f.Body(p.body)
	if !ok {
		p.err = fmt.Errorf("body %d not in frame %d", p.body, f.Step)
		return
	}
	if p.header {
		if _, p.err = fmt.Fprintf(p.w, "%3d %5.3f ", f.Step, f.Time); p.err != nil {
			return
		}
	}
	_, p.err = fmt.Fprintf(p.w, LineFormat, b.Position.X, b.Position.Y, b.Angle)
	if p.err == nil {
		p.lines++
	}
}

// Lines is the number of lines written so far.
func (p *Printer) Lines() int { return p.lines }

// Err reports the first write or lookup failure; later frames are dropped.
func (p *Printer) Err() error { return p.err }
