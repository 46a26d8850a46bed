package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	canvas  lipgloss.Style
	stats   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	graph   lipgloss.Style
	help    lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	err     lipgloss.Style
	sparkHi lipgloss.Style
	sparkLo lipgloss.Style
}

// Canvas padding in cells; mouse coordinates are offset by it.
const (
	canvasPadTop  = 1
	canvasPadLeft = 2
)

func newStyles(t Theme) styles {
	return styles{
		canvas:  lipgloss.NewStyle().Padding(canvasPadTop, canvasPadLeft).Foreground(t.Canvas),
		stats:   lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(40),
		header:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		graph:   lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 0),
		help:    lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		running: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		err:     lipgloss.NewStyle().Foreground(t.Error),
		sparkHi: lipgloss.NewStyle().Foreground(t.Warning),
		sparkLo: lipgloss.NewStyle().Foreground(t.Success),
	}
}

// sparkline renders the last width values on a shared scale from zero, so
// a settled scene reads as a flat low line.
func (st styles) sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	hi := 0.0
	for _, v := range values {
		if v > hi {
			hi = v
		}
	}
	if hi == 0 {
		hi = 1
	}

	var b strings.Builder
	for _, v := range values {
		norm := v / hi
		idx := int(norm * float64(len(chars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if norm > 0.5 {
			b.WriteString(st.sparkHi.Render(string(chars[idx])))
		} else {
			b.WriteString(st.sparkLo.Render(string(chars[idx])))
		}
	}
	return b.String()
}
