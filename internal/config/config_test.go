package config

import (
	"math"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Engine != "box2d" {
		t.Errorf("expected engine box2d, got %s", cfg.Engine)
	}
	if cfg.Gravity.X != 0 || cfg.Gravity.Y != -10 {
		t.Errorf("expected gravity (0,-10), got %v", cfg.Gravity)
	}
	if math.Abs(cfg.Step.Dt-1.0/60.0) > 1e-12 {
		t.Errorf("expected dt 1/60, got %f", cfg.Step.Dt)
	}
	if cfg.Step.VelocityIterations != 6 || cfg.Step.PositionIterations != 2 {
		t.Errorf("expected 6/2 iterations, got %d/%d", cfg.Step.VelocityIterations, cfg.Step.PositionIterations)
	}
	if cfg.Iterations != 60 {
		t.Errorf("expected 60 iterations, got %d", cfg.Iterations)
	}
	if cfg.Viewport.PPM != 8 {
		t.Errorf("expected ppm 8, got %f", cfg.Viewport.PPM)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s: nil", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPreset_Fresh(t *testing.T) {
	a := GetPreset("hello")
	a.Iterations = 1
	if b := GetPreset("hello"); b.Iterations != DefaultIterations {
		t.Errorf("preset mutation leaked: got %d iterations", b.Iterations)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte("engine: chipmunk\niterations: 10\nbox:\n  position: {x: 2, y: 6}\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Engine != "chipmunk" || cfg.Iterations != 10 {
		t.Errorf("unexpected overlay: %+v", cfg)
	}
	if cfg.Box.Position.X != 2 || cfg.Box.Position.Y != 6 {
		t.Errorf("unexpected box position %v", cfg.Box.Position)
	}
	if cfg.Box.HalfExtents.X != 1 || cfg.Box.Density != 1 {
		t.Errorf("box defaults lost: %+v", cfg.Box)
	}
	if cfg.Gravity.Y != -10 {
		t.Errorf("gravity default lost: %v", cfg.Gravity)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero dt", "step: {dt: 0}"},
		{"zero iterations", "iterations: 0"},
		{"negative ppm", "viewport: {ppm: -1}"},
		{"flat box", "box: {half_extents: {x: 1, y: 0}}"},
		{"bad yaml", "box: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	cfg := GetPreset("bouncy")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestBodyConfigShape(t *testing.T) {
	b := BodyConfig{HalfExtents: Default().Box.HalfExtents}
	if s := b.Shape(); s.HalfExtents.X != 1 || s.Radius != 0 {
		t.Errorf("expected box shape, got %+v", s)
	}
	b.Radius = 0.5
	if s := b.Shape(); s.Radius != 0.5 {
		t.Errorf("expected circle shape, got %+v", s)
	}
}
