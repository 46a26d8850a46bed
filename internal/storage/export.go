package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/boxsim/internal/sim"
)

type ExportData struct {
	RunMetadata
	Frames []ExportFrame `json:"frames"`
}

type ExportFrame struct {
	Step   int          `json:"step"`
	Time   float64      `json:"time"`
	Bodies []ExportBody `json:"bodies"`
}

type ExportBody struct {
	ID    int        `json:"id"`
	Type  string     `json:"type"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	Angle float64    `json:"angle"`
	V     [2]float64 `json:"v"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, frames []sim.Frame) error {
	data := ExportData{RunMetadata: *meta, Frames: make([]ExportFrame, len(frames))}
	for i, f := range frames {
		ef := ExportFrame{Step: f.Step, Time: f.Time, Bodies: make([]ExportBody, len(f.Bodies))}
		for j, b := range f.Bodies {
			ef.Bodies[j] = ExportBody{
				ID:    b.ID,
				Type:  b.Type.String(),
				X:     b.Position.X,
				Y:     b.Position.Y,
				Angle: b.Angle,
				V:     [2]float64{b.Velocity.X, b.Velocity.Y},
			}
		}
		data.Frames[i] = ef
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
