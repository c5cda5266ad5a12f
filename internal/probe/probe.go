// Package probe reads container metadata through ffprobe so the planner can
// work from real video durations.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/videoml/clipsampler/internal/manifest"
)

// Prober runs ffprobe against source videos
type Prober struct {
	logger  zerolog.Logger
	binPath string
	timeout time.Duration
}

// New locates the ffprobe binary and returns a prober. binary may be a bare
// name resolved through PATH or an explicit path; empty defaults to ffprobe.
func New(logger zerolog.Logger, binary string, timeout time.Duration) (*Prober, error) {
	if binary == "" {
		binary = "ffprobe"
	}
	binPath, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	return &Prober{
		logger:  logger.With().Str("component", "probe").Logger(),
		binPath: binPath,
		timeout: timeout,
	}, nil
}

// Duration returns the container duration of a video in seconds.
func (p *Prober) Duration(ctx context.Context, filePath string) (float64, error) {
	if filePath == "" {
		return 0, fmt.Errorf("file path is required")
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		filePath,
	}

	p.logger.Debug().
		Str("cmd", "ffprobe").
		Strs("args", args).
		Msg("executing ffprobe")

	cmd := exec.CommandContext(ctx, p.binPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseDuration(output)
}

// FillDurations probes every inventory entry that has no duration yet.
// Entries that already carry one are left alone.
func (p *Prober) FillDurations(ctx context.Context, inv *manifest.Inventory) error {
	for _, entry := range inv.All() {
		if entry.DurationSec > 0 {
			continue
		}

		dur, err := p.Duration(ctx, entry.Path)
		if err != nil {
			return fmt.Errorf("failed to probe %s: %w", entry.Path, err)
		}

		p.logger.Debug().
			Str("path", entry.Path).
			Float64("duration_sec", dur).
			Msg("probed video duration")

		inv.SetDuration(entry.ID, dur)
	}
	return nil
}

// parseDuration pulls format.duration out of ffprobe JSON output.
func parseDuration(output []byte) (float64, error) {
	var probe probeResult
	if err := json.Unmarshal(output, &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if probe.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe output has no duration")
	}

	dur, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", probe.Format.Duration, err)
	}
	if dur <= 0 {
		return 0, fmt.Errorf("ffprobe reported non-positive duration %v", dur)
	}
	return dur, nil
}

// probeResult matches ffprobe JSON output structure
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}
