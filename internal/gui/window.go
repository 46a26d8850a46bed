// Package gui is the graphical front end: a raylib window that steps a scene
// once per frame and draws each tracked body as a textured quad.
package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/boxsim/internal/dynamo"
)

type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// Callbacks is what a window drives. Every hook runs on the thread that owns
// the GL context. Nil hooks are skipped.
type Callbacks struct {
	Setup func() error
	Exit  func()
	Click func(b Button, screen dynamo.Vec2)
	Key   func(key int32)
	Step  func()
	Draw  func()
}

// WindowConfig sizes the window.
type WindowConfig struct {
	Title         string
	Width, Height int
	FPS           int32
}

var ColBg = rl.NewColor(10, 10, 10, 255)

// Run opens a window and loops until it is closed: input, step, draw. Setup
// runs once the GL context exists so textures can be loaded.
func Run(wc WindowConfig, cb Callbacks) error {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(wc.Width), int32(wc.Height), wc.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(wc.FPS)

	if cb.Setup != nil {
		if err := cb.Setup(); err != nil {
			return err
		}
	}
	if cb.Exit != nil {
		defer cb.Exit()
	}

	for !rl.WindowShouldClose() {
		pollInput(cb)
		if cb.Step != nil {
			cb.Step()
		}

		rl.BeginDrawing()
		rl.ClearBackground(ColBg)
		if cb.Draw != nil {
			cb.Draw()
		}
		rl.EndDrawing()
	}
	return nil
}

func pollInput(cb Callbacks) {
	if cb.Click != nil {
		pos := rl.GetMousePosition()
		at := dynamo.Vec2{X: float64(pos.X), Y: float64(pos.Y)}
		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			cb.Click(ButtonPrimary, at)
		}
		if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
			cb.Click(ButtonSecondary, at)
		}
	}
	if cb.Key != nil {
		for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
			cb.Key(key)
		}
	}
}
