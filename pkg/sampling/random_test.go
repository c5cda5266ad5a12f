package sampling

import (
	"math/rand"
	"testing"
)

func TestRandomSingleClipPerPass(t *testing.T) {
	s, err := NewRandomClipSampler(2, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}

	info, err := s.Sample(0, 10, nil)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if !info.IsLastClip {
		t.Error("random clip should always be the last clip")
	}
	if info.ClipIndex != 0 || info.AugIndex != 0 {
		t.Errorf("expected indices (0, 0), got (%d, %d)", info.ClipIndex, info.AugIndex)
	}
	if !almostEqual(info.Duration(), 2) {
		t.Errorf("expected duration 2, got %v", info.Duration())
	}
	if info.StartSec < 0 || info.StartSec > 8 {
		t.Errorf("start %v outside [0, 8]", info.StartSec)
	}
}

func TestRandomStaysInBounds(t *testing.T) {
	s, err := NewRandomClipSampler(3, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}

	for i := 0; i < 500; i++ {
		info, err := s.Sample(0, 12.5, nil)
		if err != nil {
			t.Fatalf("Sample failed: %v", err)
		}
		if info.StartSec < 0 || info.StartSec > 9.5 {
			t.Fatalf("draw %d: start %v outside [0, 9.5]", i, info.StartSec)
		}
		if !almostEqual(info.EndSec-info.StartSec, 3) {
			t.Fatalf("draw %d: duration %v, expected 3", i, info.EndSec-info.StartSec)
		}
	}
}

func TestRandomSeededReproducibility(t *testing.T) {
	a, err := NewRandomClipSampler(2, rand.New(rand.NewSource(1234)))
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}
	b, err := NewRandomClipSampler(2, rand.New(rand.NewSource(1234)))
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}

	for i := 0; i < 20; i++ {
		ca, err := a.Sample(0, 100, nil)
		if err != nil {
			t.Fatalf("Sample failed: %v", err)
		}
		cb, err := b.Sample(0, 100, nil)
		if err != nil {
			t.Fatalf("Sample failed: %v", err)
		}
		if ca.StartSec != cb.StartSec {
			t.Fatalf("draw %d: same seed diverged: %v vs %v", i, ca.StartSec, cb.StartSec)
		}
	}
}

func TestRandomDrawsVary(t *testing.T) {
	s, err := NewRandomClipSampler(2, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}

	first, err := s.Sample(0, 1000, nil)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	allSame := true
	for i := 0; i < 5; i++ {
		info, err := s.Sample(0, 1000, nil)
		if err != nil {
			t.Fatalf("Sample failed: %v", err)
		}
		if info.StartSec != first.StartSec {
			allSame = false
		}
	}
	if allSame {
		t.Error("six consecutive draws were identical; stream is not advancing")
	}
}

func TestRandomCollapsedRangePinsStartAtZero(t *testing.T) {
	// Exact-fit and shorter-than-clip videos leave no room to draw: the
	// start must be exactly 0, never a tiny float above it.
	for _, videoDuration := range []float64{2, 1.5} {
		s, err := NewRandomClipSampler(2, rand.New(rand.NewSource(5)))
		if err != nil {
			t.Fatalf("failed to create sampler: %v", err)
		}

		for i := 0; i < 10; i++ {
			info, err := s.Sample(0, videoDuration, nil)
			if err != nil {
				t.Fatalf("Sample failed: %v", err)
			}
			if info.StartSec != 0 {
				t.Fatalf("video %v draw %d: expected start 0, got %v", videoDuration, i, info.StartSec)
			}
			if !almostEqual(info.EndSec, 2) {
				t.Fatalf("video %v draw %d: expected end 2, got %v", videoDuration, i, info.EndSec)
			}
			if !info.IsLastClip {
				t.Fatalf("video %v draw %d: random clip should always be the last clip", videoDuration, i)
			}
		}
	}
}

func TestRandomNilRNGGetsPrivateStream(t *testing.T) {
	s, err := NewRandomClipSampler(2, nil)
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}

	info, err := s.Sample(0, 10, nil)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if info.StartSec < 0 || info.StartSec > 8 {
		t.Errorf("start %v outside [0, 8]", info.StartSec)
	}
}

func TestRandomRejectsBadClipDuration(t *testing.T) {
	if _, err := NewRandomClipSampler(0, nil); err == nil {
		t.Error("expected error for zero clip duration")
	}
	if _, err := NewRandomClipSampler(-2, nil); err == nil {
		t.Error("expected error for negative clip duration")
	}
}

func TestRandomMultiDrawsRequestedCount(t *testing.T) {
	s, err := NewRandomMultiClipSampler(2, 4, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}

	clips, err := s.SampleMulti(0, 10, nil)
	if err != nil {
		t.Fatalf("SampleMulti failed: %v", err)
	}
	if len(clips) != 4 {
		t.Fatalf("expected 4 clips, got %d", len(clips))
	}
	for i, c := range clips {
		if c.ClipIndex != i {
			t.Errorf("clip %d: expected index %d, got %d", i, i, c.ClipIndex)
		}
		if c.IsLastClip != (i == 3) {
			t.Errorf("clip %d: unexpected IsLastClip=%v", i, c.IsLastClip)
		}
		if c.StartSec < 0 || c.StartSec > 8 {
			t.Errorf("clip %d: start %v outside [0, 8]", i, c.StartSec)
		}
	}
}

func TestRandomMultiMatchesSequentialSingleDraws(t *testing.T) {
	single, err := NewRandomClipSampler(2, rand.New(rand.NewSource(77)))
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}
	multi, err := NewRandomMultiClipSampler(2, 3, rand.New(rand.NewSource(77)))
	if err != nil {
		t.Fatalf("failed to create sampler: %v", err)
	}

	clips, err := multi.SampleMulti(0, 50, nil)
	if err != nil {
		t.Fatalf("SampleMulti failed: %v", err)
	}
	for i, c := range clips {
		want, err := single.Sample(0, 50, nil)
		if err != nil {
			t.Fatalf("Sample failed: %v", err)
		}
		if c.StartSec != want.StartSec {
			t.Errorf("clip %d: multi draw %v differs from single draw %v", i, c.StartSec, want.StartSec)
		}
	}
}

func TestRandomMultiRejectsBadCount(t *testing.T) {
	if _, err := NewRandomMultiClipSampler(2, 0, nil); err == nil {
		t.Error("expected error for zero num clips")
	}
	if _, err := NewRandomMultiClipSampler(2, -3, nil); err == nil {
		t.Error("expected error for negative num clips")
	}
}
