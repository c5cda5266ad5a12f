package sampling

import (
	"fmt"
	"math"
)

// ConstantClipsPerVideoSampler spreads a fixed number of clips evenly across
// the video regardless of its length, optionally repeating each temporal
// position for several augmented views. Short and long videos alike yield
// exactly clipsPerVideo * augsPerClip calls.
//
// The sampler resets its own counters after handing out the last clip, so a
// single instance can be pointed at the next video without an explicit Reset.
type ConstantClipsPerVideoSampler struct {
	clipState
	clipsPerVideo int
	augsPerClip   int
}

var _ Sampler = (*ConstantClipsPerVideoSampler)(nil)

// NewConstantClipsPerVideoSampler returns a sampler producing clipsPerVideo
// evenly spaced clips with augsPerClip views each. A zero augsPerClip
// defaults to 1.
func NewConstantClipsPerVideoSampler(clipDuration float64, clipsPerVideo, augsPerClip int) (*ConstantClipsPerVideoSampler, error) {
	if math.IsNaN(clipDuration) || math.IsInf(clipDuration, 0) || clipDuration <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidClipDuration, clipDuration)
	}
	if clipsPerVideo < 1 {
		return nil, fmt.Errorf("clips per video must be at least 1, got %d", clipsPerVideo)
	}
	if augsPerClip == 0 {
		augsPerClip = 1
	}
	if augsPerClip < 1 {
		return nil, fmt.Errorf("augs per clip must be at least 1, got %d", augsPerClip)
	}
	return &ConstantClipsPerVideoSampler{
		clipState:     clipState{clipDuration: clipDuration},
		clipsPerVideo: clipsPerVideo,
		augsPerClip:   augsPerClip,
	}, nil
}

// Sample returns the current (clip, aug) cell of the grid and advances the
// aug counter first, rolling over into the clip counter. lastClipTime is
// accepted for interface compatibility and ignored; positions depend only on
// the internal counters.
func (s *ConstantClipsPerVideoSampler) Sample(lastClipTime, videoDuration float64, _ Annotation) (ClipInfo, error) {
	if err := validateCall(lastClipTime, videoDuration); err != nil {
		return ClipInfo{}, err
	}

	maxStart := math.Max(videoDuration-s.clipDuration, 0)
	step := maxStart / float64(s.clipsPerVideo)
	start := step * float64(s.currentClipIndex)
	clipIndex := s.currentClipIndex
	augIndex := s.currentAugIndex

	s.currentAugIndex++
	if s.currentAugIndex >= s.augsPerClip {
		s.currentClipIndex++
		s.currentAugIndex = 0
	}

	// Done once every grid cell has been visited, or once the next start
	// would land past the last admissible position.
	isLast := false
	if s.currentClipIndex >= s.clipsPerVideo || step*float64(s.currentClipIndex) > maxStart {
		isLast = true
		s.Reset()
	}

	return ClipInfo{
		StartSec:   start,
		EndSec:     start + s.clipDuration,
		ClipIndex:  clipIndex,
		AugIndex:   augIndex,
		IsLastClip: isLast,
	}, nil
}
