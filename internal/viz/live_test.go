package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/dynamo"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := NewModel(config.Default())
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(x, y int, button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: button, Action: tea.MouseActionPress}
}

func TestModelTickSteps(t *testing.T) {
	m := newTestModel(t)
	start := m.Scene().Tracked()[0].Position().Y
	for i := 0; i < 30; i++ {
		m = update(t, m, TickMsg{})
	}
	if m.Steps() != 30 {
		t.Errorf("expected 30 steps, got %d", m.Steps())
	}
	if y := m.Scene().Tracked()[0].Position().Y; y >= start {
		t.Errorf("box should fall: start %f now %f", start, y)
	}
}

func TestModelPause(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.Running() {
		t.Fatal("space should pause")
	}
	m = update(t, m, TickMsg{})
	if m.Steps() != 0 {
		t.Errorf("paused model stepped %d times", m.Steps())
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if m.Steps() != 1 {
		t.Errorf("single step: expected 1 step, got %d", m.Steps())
	}
}

func TestModelMouseSpawn(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, press(canvasPadLeft+width/2, canvasPadTop+2, tea.MouseButtonLeft))
	if m.Scene().Len() != 2 {
		t.Fatalf("expected 2 tracked bodies, got %d", m.Scene().Len())
	}
	spawned := m.Scene().Tracked()[1].Position()
	if spawned.Y <= 0 {
		t.Errorf("click near the top should spawn above the origin, got %v", spawned)
	}
	if spawned.X < 0 || spawned.X > 2 {
		t.Errorf("click at canvas center column should spawn near x=0, got %v", spawned)
	}

	// Outside the canvas and releases are ignored.
	m = update(t, m, press(0, 0, tea.MouseButtonLeft))
	m = update(t, m, tea.MouseMsg{X: canvasPadLeft + 3, Y: canvasPadTop + 3, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	if m.Scene().Len() != 2 {
		t.Errorf("expected 2 tracked bodies, got %d", m.Scene().Len())
	}
}

func TestModelImpulse(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, press(canvasPadLeft+5, canvasPadTop+5, tea.MouseButtonRight))
	if vy := m.Scene().Tracked()[0].LinearVelocity().Y; vy <= 0 {
		t.Errorf("right click should push the box up, vy=%f", vy)
	}

	m = newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	if vy := m.Scene().Tracked()[0].LinearVelocity().Y; vy <= 0 {
		t.Errorf("i should push the box up, vy=%f", vy)
	}
}

func TestModelReset(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, press(canvasPadLeft+10, canvasPadTop+10, tea.MouseButtonLeft))
	m = update(t, m, TickMsg{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	if m.Scene().Len() != 1 || m.Steps() != 0 {
		t.Errorf("reset: got %d bodies after %d steps", m.Scene().Len(), m.Steps())
	}
	if p := m.Scene().Tracked()[0].Position(); p != (dynamo.Vec2{X: 0, Y: 4}) {
		t.Errorf("reset box at %v", p)
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})
	out := m.View()
	for _, want := range []string{"HELLO", "box2d", "Bodies"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// The ground's top edge sits at y=0, the middle dot row.
	_, dh := m.canvas.Dots()
	dw, _ := m.canvas.Dots()
	if !m.canvas.IsSet(dw/2, dh/2) {
		t.Error("ground top edge not drawn through the canvas center")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
