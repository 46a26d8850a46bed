// Package export renders saved runs as SVG.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/sim"
	"github.com/san-kum/boxsim/internal/viewport"
)

const (
	colBg     = "#0a0a0a"
	colStatic = "#3c3c3c"
	colBody   = "#c8a05a"
	colTrail  = "#00ff88"
)

// RunSVG draws the path of one body over the whole run and the outline of
// every body in the final frame, through vp on a width x height canvas.
func RunSVG(w io.Writer, frames []sim.Frame, body int, vp viewport.Viewport, width, height int) error {
	if len(frames) == 0 {
		return fmt.Errorf("export: no frames")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, colBg)

	if path := trailPath(frames, body, vp); path != "" {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, colTrail, path)
	}

	for _, b := range frames[len(frames)-1].Bodies {
		fill := colBody
		if b.Type == dynamo.StaticBody {
			fill = colStatic
		}
		sb.WriteString(bodyElement(b, vp, fill))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func trailPath(frames []sim.Frame, body int, vp viewport.Viewport) string {
	var sb strings.Builder
	n := 0
	for _, f := range frames {
		b, ok := f.Body(body)
		if !ok {
			continue
		}
		p := vp.ToScreen(b.Position)
		if n == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", p.X, p.Y)
		}
		n++
	}
	if n < 2 {
		return ""
	}
	return sb.String()
}

func bodyElement(b dynamo.BodyState, vp viewport.Viewport, fill string) string {
	if b.Shape.Kind == dynamo.CircleShape {
		c := vp.ToScreen(b.Position)
		return fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, c.X, c.Y, vp.Length(b.Shape.Radius), fill)
	}

	corners := vp.Corners(b)
	pts := make([]string, len(corners))
	for i, p := range corners {
		pts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	return fmt.Sprintf(`<polygon points="%s" fill="%s"/>
`, strings.Join(pts, " "), fill)
}
