package sampling

import (
	"math"
	"testing"
)

func TestConstantSpreadsClipsEvenly(t *testing.T) {
	s, err := NewConstantClipsPerVideoSampler(2, 3, 1)
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}

	// 8s video, 2s clips: admissible starts span [0, 6], step 2.
	clips := drainClips(t, s, 8)
	if len(clips) != 3 {
		t.Fatalf("expected 3 clips, got %d", len(clips))
	}
	checkClip(t, clips[0], 0, 2, 0, 0, false)
	checkClip(t, clips[1], 2, 4, 1, 0, false)
	checkClip(t, clips[2], 4, 6, 2, 0, true)
}

func TestConstantNestsAugsInsideClips(t *testing.T) {
	s, err := NewConstantClipsPerVideoSampler(1, 2, 2)
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}

	// 3s video, 1s clips: admissible starts span [0, 2], step 1. Both
	// views of a position come out before the sampler moves on.
	clips := drainClips(t, s, 3)
	if len(clips) != 4 {
		t.Fatalf("expected 4 clips (2 positions x 2 augs), got %d", len(clips))
	}
	checkClip(t, clips[0], 0, 1, 0, 0, false)
	checkClip(t, clips[1], 0, 1, 0, 1, false)
	checkClip(t, clips[2], 1, 2, 1, 0, false)
	checkClip(t, clips[3], 1, 2, 1, 1, true)
}

func TestConstantClipCountIndependentOfVideoLength(t *testing.T) {
	for _, videoDuration := range []float64{3, 10, 100, 1234.5} {
		s, err := NewConstantClipsPerVideoSampler(2, 5, 1)
		if err != nil {
			t.Fatalf("failed to create sampler: %v", err)
		}
		clips := drainClips(t, s, videoDuration)
		if len(clips) != 5 {
			t.Errorf("video %v: expected 5 clips, got %d", videoDuration, len(clips))
		}
	}
}

func TestConstantShortVideoPinsAllClipsAtZero(t *testing.T) {
	s, err := NewConstantClipsPerVideoSampler(2, 3, 1)
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}

	clips := drainClips(t, s, 1)
	if len(clips) != 3 {
		t.Fatalf("expected 3 clips, got %d", len(clips))
	}
	for i, c := range clips {
		if c.StartSec != 0 {
			t.Errorf("clip %d: expected start 0, got %v", i, c.StartSec)
		}
		if c.ClipIndex != i {
			t.Errorf("clip %d: expected index %d, got %d", i, i, c.ClipIndex)
		}
	}
}

func TestConstantIgnoresLastClipTime(t *testing.T) {
	a, err := NewConstantClipsPerVideoSampler(2, 3, 1)
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}
	b, err := NewConstantClipsPerVideoSampler(2, 3, 1)
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}

	lastTimes := []float64{0, 99, 3.5}
	for i, lt := range lastTimes {
		ca, err := a.Sample(lt, 8, nil)
		if err != nil {
			t.Fatalf("Sample failed: %v", err)
		}
		cb, err := b.Sample(0, 8, nil)
		if err != nil {
			t.Fatalf("Sample failed: %v", err)
		}
		if ca.StartSec != cb.StartSec || ca.ClipIndex != cb.ClipIndex {
			t.Errorf("call %d: last clip time changed the output: %+v vs %+v", i, ca, cb)
		}
	}
}

func TestConstantSelfResetsBetweenVideos(t *testing.T) {
	s, err := NewConstantClipsPerVideoSampler(2, 2, 2)
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}

	first := drainClips(t, s, 6)
	// No explicit Reset: the sampler must start the next video clean.
	second := drainClips(t, s, 10)

	if len(first) != 4 || len(second) != 4 {
		t.Fatalf("expected 4 clips per pass, got %d and %d", len(first), len(second))
	}
	if second[0].ClipIndex != 0 || second[0].AugIndex != 0 {
		t.Errorf("expected fresh counters on second pass, got (%d, %d)",
			second[0].ClipIndex, second[0].AugIndex)
	}
}

func TestConstantRejectsBadConstruction(t *testing.T) {
	if _, err := NewConstantClipsPerVideoSampler(0, 3, 1); err == nil {
		t.Error("expected error for zero clip duration")
	}
	if _, err := NewConstantClipsPerVideoSampler(math.NaN(), 3, 1); err == nil {
		t.Error("expected error for nan clip duration")
	}
	if _, err := NewConstantClipsPerVideoSampler(2, 0, 1); err == nil {
		t.Error("expected error for zero clips per video")
	}
	if _, err := NewConstantClipsPerVideoSampler(2, 3, -1); err == nil {
		t.Error("expected error for negative augs per clip")
	}
}

func TestConstantZeroAugsDefaultsToOne(t *testing.T) {
	s, err := NewConstantClipsPerVideoSampler(2, 3, 0)
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}

	clips := drainClips(t, s, 8)
	if len(clips) != 3 {
		t.Fatalf("expected 3 clips with default augs, got %d", len(clips))
	}
	for i, c := range clips {
		if c.AugIndex != 0 {
			t.Errorf("clip %d: expected aug index 0, got %d", i, c.AugIndex)
		}
	}
}
