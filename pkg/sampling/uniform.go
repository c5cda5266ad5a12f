package sampling

import (
	"fmt"
	"math"
)

// DefaultEps is the tolerance applied when deciding whether the next window
// would pass the end of the video. It absorbs the float jitter introduced by
// container-reported durations.
const DefaultEps = 1e-6

// UniformClipSampler slides a fixed-size window across the video. With a
// stride equal to the clip duration the windows tile the video back to back;
// a smaller stride makes them overlap.
//
// Each call consumes the previous clip's end time and advances one stride.
// The sampler looks one window ahead to decide IsLastClip, so drivers never
// have to probe past the end of the video themselves.
//
// Counters reset as soon as the last clip is handed out, so one instance can
// walk consecutive videos; call Reset when abandoning a video partway.
type UniformClipSampler struct {
	clipState
	stride      float64
	backpadLast bool
	eps         float64
}

var _ Sampler = (*UniformClipSampler)(nil)

// NewUniformClipSampler returns a sampler that walks the video in stride
// steps. A zero stride defaults to clipDuration (non-overlapping windows); a
// zero eps defaults to DefaultEps. With backpadLast set, the final window is
// shifted back inside the video instead of being dropped or overrunning.
func NewUniformClipSampler(clipDuration, stride float64, backpadLast bool, eps float64) (*UniformClipSampler, error) {
	if math.IsNaN(clipDuration) || math.IsInf(clipDuration, 0) || clipDuration <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidClipDuration, clipDuration)
	}
	if stride == 0 {
		stride = clipDuration
	}
	if math.IsNaN(stride) || stride <= 0 || stride > clipDuration {
		return nil, fmt.Errorf("stride must be in (0, %v], got %v", clipDuration, stride)
	}
	if eps == 0 {
		eps = DefaultEps
	}
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		return nil, fmt.Errorf("eps must be a non-negative finite number, got %v", eps)
	}
	return &UniformClipSampler{
		clipState:   clipState{clipDuration: clipDuration},
		stride:      stride,
		backpadLast: backpadLast,
		eps:         eps,
	}, nil
}

// clipStartEnd computes the window that follows lastClipTime, applying the
// backpad shift when requested.
func (s *UniformClipSampler) clipStartEnd(lastClipTime, videoDuration float64, backpad bool) (float64, float64) {
	start := lastClipTime - math.Max(0, s.clipDuration-s.stride)
	start = math.Max(start, 0)
	end := start + s.clipDuration

	if backpad {
		buffer := math.Max(0, end-videoDuration)
		start -= buffer
		start = math.Max(start, 0)
		end = start + s.clipDuration
	}
	return start, end
}

// Sample returns the next window after lastClipTime. Feeding the returned
// EndSec back into the next call walks the whole video; IsLastClip marks the
// final window.
func (s *UniformClipSampler) Sample(lastClipTime, videoDuration float64, _ Annotation) (ClipInfo, error) {
	if err := validateCall(lastClipTime, videoDuration); err != nil {
		return ClipInfo{}, err
	}

	start, end := s.clipStartEnd(lastClipTime, videoDuration, s.backpadLast)

	// One window of lookahead decides whether this is the final clip.
	// With backpad the last two windows collapse onto each other; without
	// it the next window simply runs past the end of the video.
	_, nextEnd := s.clipStartEnd(end, videoDuration, s.backpadLast)
	var isLast bool
	if s.backpadLast {
		isLast = math.Abs(nextEnd-end) < s.eps
	} else {
		isLast = nextEnd-videoDuration > s.eps
	}

	index := s.currentClipIndex
	s.currentClipIndex++
	if isLast {
		s.Reset()
	}

	return ClipInfo{
		StartSec:   start,
		EndSec:     end,
		ClipIndex:  index,
		AugIndex:   0,
		IsLastClip: isLast,
	}, nil
}
