package probe

import (
	"context"
	"os"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"

	"github.com/videoml/clipsampler/internal/manifest"
)

// skipIfNoFFprobe skips the test if ffprobe is not available
func skipIfNoFFprobe(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH - install with: brew install ffmpeg")
	}
}

func TestParseDuration(t *testing.T) {
	output := []byte(`{
    "format": {
        "filename": "test.mp4",
        "duration": "12.512000",
        "bit_rate": "1205959"
    }
}`)
	dur, err := parseDuration(output)
	if err != nil {
		t.Fatalf("parseDuration failed: %v", err)
	}
	if dur != 12.512 {
		t.Errorf("expected 12.512, got %v", dur)
	}
}

func TestParseDurationErrors(t *testing.T) {
	cases := []struct {
		name   string
		output string
	}{
		{"invalid json", "not json"},
		{"missing duration", `{"format": {}}`},
		{"unparseable duration", `{"format": {"duration": "N/A"}}`},
		{"zero duration", `{"format": {"duration": "0.000000"}}`},
		{"negative duration", `{"format": {"duration": "-3"}}`},
	}
	for _, tc := range cases {
		if _, err := parseDuration([]byte(tc.output)); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestNewRejectsMissingBinary(t *testing.T) {
	logger := zerolog.New(os.Stderr)
	if _, err := New(logger, "definitely-not-ffprobe-12345", 0); err == nil {
		t.Error("expected error for missing binary")
	}
}

func TestDurationRequiresPath(t *testing.T) {
	skipIfNoFFprobe(t)

	logger := zerolog.New(os.Stderr)
	p, err := New(logger, "", 0)
	if err != nil {
		t.Fatalf("failed to create prober: %v", err)
	}

	if _, err := p.Duration(context.Background(), ""); err == nil {
		t.Error("expected error for empty file path")
	}
}

func TestDurationFailsForMissingFile(t *testing.T) {
	skipIfNoFFprobe(t)

	logger := zerolog.New(os.Stderr)
	p, err := New(logger, "", 0)
	if err != nil {
		t.Fatalf("failed to create prober: %v", err)
	}

	if _, err := p.Duration(context.Background(), "nonexistent.mp4"); err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestFillDurationsSkipsKnownEntries(t *testing.T) {
	skipIfNoFFprobe(t)

	logger := zerolog.New(os.Stderr)
	p, err := New(logger, "", 0)
	if err != nil {
		t.Fatalf("failed to create prober: %v", err)
	}

	inv := manifest.NewInventory()
	inv.Add(manifest.VideoEntry{ID: "a", Path: "nonexistent.mp4", DurationSec: 9})

	// The only entry already has a duration, so nothing is probed and the
	// bogus path never reaches ffprobe.
	if err := p.FillDurations(context.Background(), inv); err != nil {
		t.Fatalf("FillDurations failed: %v", err)
	}
	entry, _ := inv.Get("a")
	if entry.DurationSec != 9 {
		t.Errorf("pre-filled duration changed: %v", entry.DurationSec)
	}
}

func TestFillDurationsPropagatesProbeErrors(t *testing.T) {
	skipIfNoFFprobe(t)

	logger := zerolog.New(os.Stderr)
	p, err := New(logger, "", 0)
	if err != nil {
		t.Fatalf("failed to create prober: %v", err)
	}

	inv := manifest.NewInventory()
	inv.Add(manifest.VideoEntry{ID: "a", Path: "nonexistent.mp4"})

	if err := p.FillDurations(context.Background(), inv); err == nil {
		t.Error("expected error for unprobeable entry")
	}
}
