package manifest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/videoml/clipsampler/pkg/sampling"
)

// PlannedClip binds one sampled interval to its source video.
type PlannedClip struct {
	VideoID    string  `json:"video_id"`
	VideoPath  string  `json:"video_path"`
	StartSec   float64 `json:"start_sec"`
	EndSec     float64 `json:"end_sec"`
	ClipIndex  int     `json:"clip_index"`
	AugIndex   int     `json:"aug_index"`
	IsLastClip bool    `json:"is_last_clip"`
}

// NewPlannedClip builds a planned clip from an inventory entry and a
// sampled interval.
func NewPlannedClip(entry VideoEntry, info sampling.ClipInfo) PlannedClip {
	return PlannedClip{
		VideoID:    entry.ID,
		VideoPath:  entry.Path,
		StartSec:   info.StartSec,
		EndSec:     info.EndSec,
		ClipIndex:  info.ClipIndex,
		AugIndex:   info.AugIndex,
		IsLastClip: info.IsLastClip,
	}
}

// Plan is the planner's output document: every clip to extract, with the
// settings that produced it. ID identifies one planning run so downstream
// jobs can record which plan they consumed.
type Plan struct {
	ID              string        `json:"id"`
	CreatedAt       time.Time     `json:"created_at"`
	Strategy        string        `json:"strategy"`
	ClipDurationSec float64       `json:"clip_duration_sec"`
	Seed            int64         `json:"seed,omitempty"`
	Clips           []PlannedClip `json:"clips"`
}

// WriteJSON writes the plan as indented JSON
func (p *Plan) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	return nil
}

// WriteCSV writes the clip rows with a header; plan-level metadata is
// dropped in this format.
func (p *Plan) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"video_id", "video_path", "start_sec", "end_sec", "clip_index", "aug_index", "is_last_clip"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write plan csv: %w", err)
	}
	for _, c := range p.Clips {
		row := []string{
			c.VideoID,
			c.VideoPath,
			strconv.FormatFloat(c.StartSec, 'f', -1, 64),
			strconv.FormatFloat(c.EndSec, 'f', -1, 64),
			strconv.Itoa(c.ClipIndex),
			strconv.Itoa(c.AugIndex),
			strconv.FormatBool(c.IsLastClip),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write plan csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write plan csv: %w", err)
	}
	return nil
}

// WriteFile writes the plan to path in the given format ("json" or "csv").
func (p *Plan) WriteFile(path, format string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create plan directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plan file: %w", err)
	}
	defer f.Close()

	switch format {
	case "json", "":
		err = p.WriteJSON(f)
	case "csv":
		err = p.WriteCSV(f)
	default:
		err = fmt.Errorf("unsupported plan format %q (want json or csv)", format)
	}
	if err != nil {
		return err
	}
	return f.Close()
}

// ReadPlan reads a JSON plan back, for tooling that post-processes plans.
func ReadPlan(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan: %w", err)
	}
	defer f.Close()

	var plan Plan
	if err := json.NewDecoder(f).Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	return &plan, nil
}
