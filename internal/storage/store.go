package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/boxsim/internal/dynamo"
	"github.com/san-kum/boxsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var ErrNoRun = errors.New("storage: run not found")

var frameHeader = []string{
	"step", "time", "body", "type", "shape", "hx", "hy", "radius",
	"x", "y", "angle", "vx", "vy",
}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Engine     string             `json:"engine"`
	Timestamp  time.Time          `json:"timestamp"`
	Step       dynamo.StepConfig  `json:"step"`
	Iterations int                `json:"iterations"`
	Bodies     int                `json:"bodies"`
	Metrics    map[string]float64 `json:"metrics"`
}

func (s *Store) Save(sceneName string, result *sim.Result) (string, error) {
	runDir, runID, err := s.newRunDir(sceneName)
	if err != nil {
		return "", err
	}

	bodies := 0
	if n := len(result.Frames); n > 0 {
		bodies = len(result.Frames[n-1].Bodies)
	}

	meta := RunMetadata{
		ID:         runID,
		Scene:      sceneName,
		Engine:     result.Engine,
		Timestamp:  s.now(),
		Step:       result.Step,
		Iterations: len(result.Frames),
		Bodies:     bodies,
		Metrics:    result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteFramesCSV(csvFile, result.Frames); err != nil {
		return "", err
	}
	return runID, csvFile.Close()
}

// newRunDir creates <base>/<scene>_<timestamp>, adding a counter when two
// runs land in the same second.
func (s *Store) newRunDir(sceneName string) (string, string, error) {
	base := fmt.Sprintf("%s_%s", sceneName, s.now().Format("20060102-150405"))
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runDir, runID, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s-%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// WriteFramesCSV writes one row per body per frame.
func WriteFramesCSV(out io.Writer, frames []sim.Frame) error {
	w := csv.NewWriter(out)
	if err := w.Write(frameHeader); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, f := range frames {
		for _, b := range f.Bodies {
			shape := "box"
			if b.Shape.Kind == dynamo.CircleShape {
				shape = "circle"
			}
			row := []string{
				strconv.Itoa(f.Step), ff(f.Time), strconv.Itoa(b.ID), b.Type.String(), shape,
				ff(b.Shape.HalfExtents.X), ff(b.Shape.HalfExtents.Y), ff(b.Shape.Radius),
				ff(b.Position.X), ff(b.Position.Y), ff(b.Angle), ff(b.Velocity.X), ff(b.Velocity.Y),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoRun, runID)
		}
		return nil, err
	}
	defer file.Close()
	return ReadFramesCSV(file)
}

// ReadFramesCSV is the inverse of WriteFramesCSV at six decimal places.
func ReadFramesCSV(in io.Reader) ([]sim.Frame, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(frameHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Frame{}, nil
	}

	frames := make([]sim.Frame, 0)
	for i, rec := range records[1:] {
		line := i + 2
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: step: %w", line, err)
		}
		id, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: body: %w", line, err)
		}
		typ, err := dynamo.ParseBodyType(rec[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		nums := make([]float64, 0, 10)
		for _, col := range []int{1, 5, 6, 7, 8, 9, 10, 11, 12} {
			v, err := strconv.ParseFloat(rec[col], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, frameHeader[col], err)
			}
			nums = append(nums, v)
		}

		shape := dynamo.Box(nums[1], nums[2])
		if rec[4] == "circle" {
			shape = dynamo.Circle(nums[3])
		}
		b := dynamo.BodyState{
			ID:       id,
			Type:     typ,
			Shape:    shape,
			Position: dynamo.Vec2{X: nums[4], Y: nums[5]},
			Angle:    nums[6],
			Velocity: dynamo.Vec2{X: nums[7], Y: nums[8]},
		}

		if n := len(frames); n == 0 || frames[n-1].Step != step {
			frames = append(frames, sim.Frame{Step: step, Time: nums[0]})
		}
		last := &frames[len(frames)-1]
		last.Bodies = append(last.Bodies, b)
	}
	return frames, nil
}
