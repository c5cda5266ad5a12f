// Package sampling decides which time interval of a video to extract as the
// next training or evaluation clip. It is the domain core of clipsampler and
// holds no infrastructure concerns: samplers are pure in-memory state
// machines that never touch files, loggers, or clocks.
//
// A data-loading driver owns one sampler per video-iteration context and
// calls it repeatedly, feeding the previous clip's end time back in, until
// the returned ClipInfo reports IsLastClip.
package sampling

import (
	"fmt"
	"math"
)

// Annotation carries opaque per-video metadata through a sampler call. The
// built-in strategies ignore it; it exists so custom strategies can condition
// sampling on labels or other side data.
type Annotation map[string]any

// ClipInfo describes one sampled interval. Values are produced fresh on
// every call and never mutated by the sampler afterwards.
type ClipInfo struct {
	// StartSec and EndSec bound the interval in seconds from the start of
	// the video. EndSec - StartSec equals the configured clip duration.
	StartSec float64
	EndSec   float64

	// ClipIndex is the ordinal of the clip within the video under the
	// current strategy's enumeration. AugIndex identifies which augmented
	// view of the same temporal position this call represents; it is 0 for
	// strategies without a multi-view concept.
	ClipIndex int
	AugIndex  int

	// IsLastClip is true exactly when this is the final clip to draw from
	// the video under the current strategy.
	IsLastClip bool
}

// Duration returns the length of the interval in seconds.
func (c ClipInfo) Duration() float64 {
	return c.EndSec - c.StartSec
}

// ClipInfoList is an ordered list of clips drawn in a single call by a
// multi-clip strategy. Element order is draw order.
type ClipInfoList []ClipInfo

// Sampler is the contract every clip sampling strategy implements.
//
// Sample takes the end time of the previously sampled clip from the same
// video (0 if none yet) and the video's total duration, and returns the next
// interval to extract. Implementations are stateful and not reentrant: a
// single instance must not be invoked concurrently.
//
// Reset restores the instance to its freshly constructed counter state.
// Drivers call it between videos; see the strategy docs for which strategies
// also self-reset.
type Sampler interface {
	Sample(lastClipTime, videoDuration float64, annotation Annotation) (ClipInfo, error)
	Reset()
}

// MultiSampler extends Sampler for strategies that draw several clips in one
// call.
type MultiSampler interface {
	Sampler
	SampleMulti(lastClipTime, videoDuration float64, annotation Annotation) (ClipInfoList, error)
}

// clipState holds the counters shared by every strategy. It is embedded by
// value; each sampler instance owns its own copy.
type clipState struct {
	clipDuration     float64
	currentClipIndex int
	currentAugIndex  int
}

// Reset zeroes the per-video counters. Configuration is untouched.
func (s *clipState) Reset() {
	s.currentClipIndex = 0
	s.currentAugIndex = 0
}

// validateCall guards the shared call contract: a positive, finite video
// duration and a non-negative, finite last clip time.
func validateCall(lastClipTime, videoDuration float64) error {
	if math.IsNaN(videoDuration) || math.IsInf(videoDuration, 0) || videoDuration <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidVideoDuration, videoDuration)
	}
	if math.IsNaN(lastClipTime) || math.IsInf(lastClipTime, 0) || lastClipTime < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidLastClipTime, lastClipTime)
	}
	return nil
}
