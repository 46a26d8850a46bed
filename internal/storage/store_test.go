package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/sim"
)

func testResult() *sim.Result {
	ground := dynamo.BodyState{ID: 1, Type: dynamo.StaticBody, Shape: dynamo.Box(50, 10), Position: dynamo.Vec2{Y: -10}}
	ball := dynamo.BodyState{ID: 2, Type: dynamo.DynamicBody, Shape: dynamo.Circle(0.5), Position: dynamo.Vec2{Y: 4}}
	frames := make([]sim.Frame, 3)
	for i := range frames {
		ball.Position.Y -= 0.25
		ball.Velocity.Y = -float64(i + 1)
		ball.Angle = 0.125 * float64(i)
		frames[i] = sim.Frame{Step: i + 1, Time: float64(i+1) / 60, Bodies: []dynamo.BodyState{ground, ball}}
	}
	return &sim.Result{
		Engine:  "box2d",
		Step:    dynamo.DefaultStep(),
		Frames:  frames,
		Metrics: map[string]float64{"drop": 0.5},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("hello", testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scene != "hello" || meta.Engine != "box2d" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Iterations != 3 || meta.Bodies != 2 {
		t.Errorf("expected 3 iterations and 2 bodies, got %d and %d", meta.Iterations, meta.Bodies)
	}
	if meta.Step != dynamo.DefaultStep() {
		t.Errorf("step config lost: %+v", meta.Step)
	}
	if meta.Metrics["drop"] != 0.5 {
		t.Errorf("expected drop 0.5, got %f", meta.Metrics["drop"])
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	want := testResult().Frames
	for i := range frames {
		if frames[i].Step != want[i].Step || len(frames[i].Bodies) != 2 {
			t.Fatalf("frame %d: got %+v", i, frames[i])
		}
		for j := range want[i].Bodies {
			if frames[i].Bodies[j] != want[i].Bodies[j] {
				t.Errorf("frame %d body %d: got %+v want %+v", i, j, frames[i].Bodies[j], want[i].Bodies[j])
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	// Same clock for both saves forces the counter suffix.
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return fixed }
	id1, err := st.Save("hello", testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	id2, err := st.Save("hello", testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("expected distinct run ids, got %s twice", id1)
	}
	if id1 != "hello_20240501-120000" || id2 != "hello_20240501-120000-2" {
		t.Errorf("unexpected run ids %s, %s", id1, id2)
	}

	if err := os.Mkdir(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("hello", testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, framesFile} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestLoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("missing"); !errors.Is(err, ErrNoRun) {
		t.Errorf("expected ErrNoRun, got %v", err)
	}
	if _, err := st.LoadFrames("missing"); !errors.Is(err, ErrNoRun) {
		t.Errorf("expected ErrNoRun, got %v", err)
	}
}

func TestReadFramesCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"short row", "step,time\n1,0\n"},
		{"bad step", "step,time,body,type,shape,hx,hy,radius,x,y,angle,vx,vy\nx,0,1,static,box,1,1,0,0,0,0,0,0\n"},
		{"bad type", "step,time,body,type,shape,hx,hy,radius,x,y,angle,vx,vy\n1,0,1,floaty,box,1,1,0,0,0,0,0,0\n"},
		{"bad float", "step,time,body,type,shape,hx,hy,radius,x,y,angle,vx,vy\n1,0,1,static,box,1,1,0,zero,0,0,0,0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadFramesCSV(bytes.NewBufferString(tt.csv)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	frames, err := ReadFramesCSV(bytes.NewBufferString("step,time,body,type,shape,hx,hy,radius,x,y,angle,vx,vy\n"))
	if err != nil || len(frames) != 0 {
		t.Errorf("header only: got %v, %v", frames, err)
	}
}

func TestExportJSON(t *testing.T) {
	res := testResult()
	meta := &RunMetadata{ID: "hello_1", Scene: "hello", Engine: res.Engine, Iterations: len(res.Frames)}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, res.Frames); err != nil {
		t.Fatalf("export: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "hello_1" || len(got.Frames) != 3 {
		t.Fatalf("unexpected export %+v", got)
	}
	b := got.Frames[2].Bodies[1]
	if b.Type != "dynamic" || b.Y != 3.25 || b.V[1] != -3 {
		t.Errorf("unexpected body %+v", b)
	}
}
