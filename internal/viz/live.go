package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/scene"
	"github.com/san-kum/boxsim/internal/viewport"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps a scene once per tick and draws it on a braille canvas. Mouse
// presses on the canvas spawn bodies (left) or kick them (right).
type Model struct {
	scene    *scene.Scene
	canvas   *Canvas
	view     viewport.Viewport
	styles   styles
	theme    int
	running  bool
	steps    int
	yHistory []float64
	speeds   []float64
	err      error
}

// NewModel builds the scene described by cfg.
func NewModel(cfg *config.Scene) (Model, error) {
	s, err := scene.New(cfg)
	if err != nil {
		return Model{}, err
	}
	canvas := NewCanvas(width, height)
	return Model{
		scene:    s,
		canvas:   canvas,
		view:     fitView(canvas, cfg.Viewport),
		styles:   newStyles(Themes[0]),
		running:  true,
		yHistory: make([]float64, 0, historyCapacity),
		speeds:   make([]float64, 0, historyCapacity),
	}, nil
}

// fitView maps the same stretch of simulation space the graphical window
// shows onto the canvas dots.
func fitView(c *Canvas, vc config.ViewportConfig) viewport.Viewport {
	dw, dh := c.Dots()
	meters := float64(vc.Width) / vc.PPM
	return viewport.Centered(dw, dh, float64(dw)/meters)
}

func (m Model) Scene() *scene.Scene { return m.scene }
func (m Model) Steps() int          { return m.steps }
func (m Model) Running() bool       { return m.running }

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "i":
			m.scene.Kick()
		case "r":
			m.reset()
		case "s":
			m.step()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = newStyles(Themes[m.theme])
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			if at, ok := m.cellToWorld(msg.X, msg.Y); ok {
				if _, err := m.scene.Spawn(at); err != nil {
					m.err = err
				}
			}
		case tea.MouseButtonRight:
			m.scene.Kick()
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// cellToWorld maps a terminal cell to the simulation point under the center
// of that cell. Cells outside the canvas report false.
func (m *Model) cellToWorld(x, y int) (dynamo.Vec2, bool) {
	cx, cy := x-canvasPadLeft, y-canvasPadTop
	if cx < 0 || cy < 0 || cx >= m.canvas.Width || cy >= m.canvas.Height {
		return dynamo.Vec2{}, false
	}
	dot := dynamo.Vec2{X: float64(cx*2) + 1, Y: float64(cy*4) + 2}
	return m.view.ToWorld(dot), true
}

func (m *Model) step() {
	m.scene.Step()
	m.steps++

	tracked := m.scene.Tracked()
	fastest := 0.0
	for _, b := range tracked {
		if v := b.LinearVelocity().Len(); v > fastest {
			fastest = v
		}
	}
	m.speeds = appendCapped(m.speeds, fastest)
	m.yHistory = appendCapped(m.yHistory, tracked[0].Position().Y)
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) reset() {
	s, err := m.scene.Reset()
	if err != nil {
		m.err = err
		return
	}
	m.scene = s
	m.steps = 0
	m.err = nil
	m.yHistory = m.yHistory[:0]
	m.speeds = m.speeds[:0]
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.drawBody(dynamo.Snapshot(m.scene.Ground()))
	for _, b := range m.scene.Tracked() {
		m.drawBody(dynamo.Snapshot(b))
	}
}

func (m *Model) drawBody(b dynamo.BodyState) {
	if b.Shape.Kind == dynamo.CircleShape {
		c := m.view.ToScreen(b.Position)
		r := m.view.Length(b.Shape.Radius)
		m.canvas.DrawCircle(c.X, c.Y, r)
		// Radius line so rotation stays visible.
		edge := m.view.ToScreen(b.Position.Add(dynamo.Vec2{X: b.Shape.Radius}.Rotate(b.Angle)))
		m.canvas.DrawLine(round(c.X), round(c.Y), round(edge.X), round(edge.Y))
		return
	}
	corners := m.view.Corners(b)
	pts := make([][2]float64, len(corners))
	for i, p := range corners {
		pts[i] = [2]float64{p.X, p.Y}
	}
	m.canvas.DrawPolygon(pts)
}

func (m Model) View() string {
	m.draw()
	st := m.styles
	canvasView := st.canvas.Render(m.canvas.String())

	cfg := m.scene.Config()
	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(cfg.Name)) + "\n")
	if m.running {
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.yHistory) > 1 {
		chart := asciigraph.Plot(m.yHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("y (first body)"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Engine", m.scene.World().Engine())
	row("Step", fmt.Sprintf("%d", m.steps))
	row("Time", fmt.Sprintf("%.2fs", float64(m.steps)*cfg.Step.Dt))
	row("Bodies", fmt.Sprintf("%d", m.scene.Len()))
	first := m.scene.Tracked()[0]
	p := first.Position()
	row("Box", fmt.Sprintf("%.2f %.2f %.2f", p.X, p.Y, first.Angle()))
	s.WriteString(st.label.Render("Speed") + st.sparkline(m.speeds, 24) + "\n")

	if m.err != nil {
		s.WriteString("\n" + st.err.Render(m.err.Error()) + "\n")
	}

	s.WriteString(st.help.Render("SP:Pause S:Step I:Impulse\nR:Reset T:Theme Q:Quit\nClick L:Spawn R:Impulse"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
}

// Run starts the live view full screen with mouse support.
func Run(cfg *config.Scene) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
