package gui

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/boxsim/internal/config"
	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/scene"
	"github.com/san-kum/boxsim/internal/viewport"
	"github.com/san-kum/boxsim/internal/watch"
)

var (
	ColGround = rl.NewColor(60, 60, 60, 255)
	ColText   = rl.NewColor(140, 140, 140, 255)
	ColTint   = rl.White
)

var errEmptyScene = errors.New("scene file is empty")

// fallbackTexSize is the side of the plain texture used when the image file
// cannot be found.
const fallbackTexSize = 64

// Testbed steps a scene once per frame, draws it, and turns clicks into
// spawns (primary) and impulses (secondary).
type Testbed struct {
	scene     *scene.Scene
	view      viewport.Viewport
	path      string
	overrides func(*config.Scene)
	watcher   *watch.Watcher
	tex       rl.Texture2D
	texSize   dynamo.Vec2
	running   bool
	frames    int
	logger    *log.Logger
}

// NewTestbed builds the scene. path is the scene file it came from, or ""
// for a built-in scene.
func NewTestbed(cfg *config.Scene, path string) (*Testbed, error) {
	s, err := scene.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Testbed{
		scene:   s,
		view:    viewport.FromConfig(cfg.Viewport),
		path:    path,
		texSize: dynamo.Vec2{X: fallbackTexSize, Y: fallbackTexSize},
		running: true,
		logger:  log.New(os.Stderr, "testbed: ", log.LstdFlags),
	}, nil
}

func (t *Testbed) Scene() *scene.Scene         { return t.scene }
func (t *Testbed) Viewport() viewport.Viewport { return t.view }

// SetOverrides registers settings applied on top of the scene file every
// time it is reloaded, such as command line flags.
func (t *Testbed) SetOverrides(fn func(*config.Scene)) { t.overrides = fn }

// Watch reloads the scene whenever its file changes. It must be called
// before Run.
func (t *Testbed) Watch() error {
	if t.path == "" {
		return fmt.Errorf("watch: scene has no file")
	}
	w, err := watch.New(t.path)
	if err != nil {
		return err
	}
	t.watcher = w
	return nil
}

// Run opens the window sized by the scene's viewport and blocks until it is
// closed.
func (t *Testbed) Run() error {
	vc := t.scene.Config().Viewport
	return Run(WindowConfig{Title: "boxsim testbed", Width: vc.Width, Height: vc.Height, FPS: 60}, t.Callbacks())
}

func (t *Testbed) Callbacks() Callbacks {
	return Callbacks{
		Setup: t.setup,
		Exit:  t.exit,
		Click: t.Click,
		Key:   t.key,
		Step:  t.Step,
		Draw:  t.draw,
	}
}

func (t *Testbed) setup() error {
	t.loadTexture(t.scene.Config().Texture)
	return nil
}

func (t *Testbed) exit() {
	if t.tex.ID != 0 {
		rl.UnloadTexture(t.tex)
	}
	t.closeWatcher()
}

func (t *Testbed) closeWatcher() {
	if t.watcher == nil {
		return
	}
	if err := t.watcher.Close(); err != nil {
		t.logger.Printf("watch close: %v", err)
	}
	t.watcher = nil
}

func (t *Testbed) loadTexture(name string) {
	if t.tex.ID != 0 {
		rl.UnloadTexture(t.tex)
		t.tex = rl.Texture2D{}
	}
	if path, ok := ResolveTexture(name, t.sceneDir()); ok {
		t.tex = rl.LoadTexture(path)
	}
	if t.tex.ID == 0 {
		t.logger.Printf("texture %q not found, drawing plain quads", name)
		img := rl.GenImageColor(fallbackTexSize, fallbackTexSize, rl.NewColor(200, 160, 90, 255))
		t.tex = rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
	}
	t.texSize = dynamo.Vec2{X: float64(t.tex.Width), Y: float64(t.tex.Height)}
}

func (t *Testbed) sceneDir() string {
	if t.path == "" {
		return ""
	}
	return filepath.Dir(t.path)
}

// ResolveTexture looks for name as given, then next to the scene file.
func ResolveTexture(name, sceneDir string) (string, bool) {
	if name == "" {
		return "", false
	}
	candidates := []string{name}
	if sceneDir != "" && !filepath.IsAbs(name) {
		candidates = append(candidates, filepath.Join(sceneDir, name))
	}
	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && !fi.IsDir() {
			return c, true
		}
	}
	return "", false
}

// Click handles one mouse press at a screen position.
func (t *Testbed) Click(b Button, screen dynamo.Vec2) {
	switch b {
	case ButtonPrimary:
		if _, err := t.scene.Spawn(t.view.ToWorld(screen)); err != nil {
			t.logger.Printf("spawn: %v", err)
		}
	case ButtonSecondary:
		t.scene.Kick()
	}
}

func (t *Testbed) key(k int32) {
	switch k {
	case rl.KeySpace:
		t.running = !t.running
	case rl.KeyR:
		t.rebuild(t.scene.Config())
	case rl.KeyI:
		t.scene.Kick()
	}
}

// Step picks up scene file edits, then advances the world one step unless
// paused.
func (t *Testbed) Step() {
	if t.watcher != nil {
		changed, err := t.watcher.Poll()
		if err != nil {
			t.logger.Printf("watch: %v", err)
		}
		if changed {
			t.Reload()
		}
	}
	if t.running {
		t.scene.Step()
		t.frames++
	}
}

// Reload reads the scene file again and reapplies the overrides. On error,
// or when the file is empty, the current scene keeps running.
func (t *Testbed) Reload() {
	cfg, err := t.readScene()
	if err != nil {
		t.logger.Printf("reload %s: %v", t.path, err)
		return
	}
	oldTex := t.scene.Config().Texture
	if !t.rebuild(cfg) {
		return
	}
	t.logger.Printf("reloaded %s (%s)", t.path, cfg.Name)
	if cfg.Texture != oldTex && rl.IsWindowReady() {
		t.loadTexture(cfg.Texture)
	}
}

func (t *Testbed) readScene() (*config.Scene, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return nil, err
	}
	// An editor caught mid-save leaves the file truncated.
	if strings.TrimSpace(string(data)) == "" {
		return nil, errEmptyScene
	}
	cfg, err := config.Parse(data)
	if err != nil {
		return nil, err
	}
	if t.overrides != nil {
		t.overrides(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (t *Testbed) rebuild(cfg *config.Scene) bool {
	s, err := scene.New(cfg)
	if err != nil {
		t.logger.Printf("rebuild: %v", err)
		return false
	}
	t.scene = s
	t.view = viewport.FromConfig(cfg.Viewport)
	t.frames = 0
	return true
}

// Quads returns the model-view transform of every tracked body, in tracking
// order.
func (t *Testbed) Quads() []viewport.Transform {
	tracked := t.scene.Tracked()
	out := make([]viewport.Transform, len(tracked))
	for i, b := range tracked {
		out[i] = t.view.ModelView(dynamo.Snapshot(b), t.texSize.X, t.texSize.Y)
	}
	return out
}

func (t *Testbed) draw() {
	t.drawGround()

	w, h := t.tex.Width, t.tex.Height
	for _, q := range t.Quads() {
		rl.PushMatrix()
		rl.Translatef(float32(q.Translate.X), float32(q.Translate.Y), 0)
		rl.Rotatef(float32(q.Rotation), 0, 0, 1)
		rl.Scalef(float32(q.Scale.X), float32(q.Scale.Y), 1)
		rl.DrawTexture(t.tex, -w/2, -h/2, ColTint)
		rl.PopMatrix()
	}

	status := "RUNNING"
	if !t.running {
		status = "PAUSED"
	}
	rl.DrawText(fmt.Sprintf("%s  bodies %d  step %d", status, t.scene.Len(), t.frames), 10, 10, 16, ColText)
	rl.DrawText("[LMB] SPAWN  [RMB] IMPULSE  [SPACE] PAUSE  [R] RESET", 10, int32(t.scene.Config().Viewport.Height)-24, 14, ColText)
}

func (t *Testbed) drawGround() {
	g := dynamo.Snapshot(t.scene.Ground())
	c := t.view.ToScreen(g.Position)
	size := g.Shape.Size()
	w, h := float32(t.view.Length(size.X)), float32(t.view.Length(size.Y))
	rl.DrawRectanglePro(
		rl.NewRectangle(float32(c.X), float32(c.Y), w, h),
		rl.NewVector2(w/2, h/2),
		float32(-g.Angle*180/math.Pi),
		ColGround,
	)
}
