package sampling

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// RandomClipSampler draws a single uniformly random window per call. Every
// clip it returns is both the first and the last for its video, so drivers
// sample exactly one clip per pass.
//
// The random stream belongs to the instance. Reset clears counters only and
// deliberately leaves the stream alone; repeated passes over the same video
// keep drawing fresh positions.
type RandomClipSampler struct {
	clipState
	rng *rand.Rand
}

var _ Sampler = (*RandomClipSampler)(nil)

// NewRandomClipSampler returns a sampler drawing from rng. A nil rng gets a
// private time-seeded stream; pass an explicit handle for reproducible runs.
func NewRandomClipSampler(clipDuration float64, rng *rand.Rand) (*RandomClipSampler, error) {
	if math.IsNaN(clipDuration) || math.IsInf(clipDuration, 0) || clipDuration <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidClipDuration, clipDuration)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomClipSampler{
		clipState: clipState{clipDuration: clipDuration},
		rng:       rng,
	}, nil
}

// Sample picks a start uniformly in [0, videoDuration-clipDuration]. When
// the video is no longer than one clip the start collapses to 0; the stream
// still advances by one draw so call sequences stay aligned across videos.
func (s *RandomClipSampler) Sample(lastClipTime, videoDuration float64, _ Annotation) (ClipInfo, error) {
	if err := validateCall(lastClipTime, videoDuration); err != nil {
		return ClipInfo{}, err
	}

	maxStart := math.Max(videoDuration-s.clipDuration, 0)
	start := s.rng.Float64() * maxStart

	return ClipInfo{
		StartSec:   start,
		EndSec:     start + s.clipDuration,
		ClipIndex:  0,
		AugIndex:   0,
		IsLastClip: true,
	}, nil
}

// RandomMultiClipSampler draws a fixed number of independent random windows
// in one SampleMulti call. Single-clip Sample is inherited from
// RandomClipSampler.
type RandomMultiClipSampler struct {
	RandomClipSampler
	numClips int
}

var _ MultiSampler = (*RandomMultiClipSampler)(nil)

// NewRandomMultiClipSampler returns a sampler that draws numClips windows
// per call from rng. A nil rng gets a private time-seeded stream.
func NewRandomMultiClipSampler(clipDuration float64, numClips int, rng *rand.Rand) (*RandomMultiClipSampler, error) {
	if numClips < 1 {
		return nil, fmt.Errorf("num clips must be at least 1, got %d", numClips)
	}
	inner, err := NewRandomClipSampler(clipDuration, rng)
	if err != nil {
		return nil, err
	}
	return &RandomMultiClipSampler{
		RandomClipSampler: *inner,
		numClips:          numClips,
	}, nil
}

// SampleMulti draws numClips independent windows. Clips are indexed in draw
// order and only the final one carries IsLastClip.
func (s *RandomMultiClipSampler) SampleMulti(lastClipTime, videoDuration float64, annotation Annotation) (ClipInfoList, error) {
	clips := make(ClipInfoList, 0, s.numClips)
	for i := 0; i < s.numClips; i++ {
		info, err := s.RandomClipSampler.Sample(lastClipTime, videoDuration, annotation)
		if err != nil {
			return nil, err
		}
		info.ClipIndex = i
		info.IsLastClip = i == s.numClips-1
		clips = append(clips, info)
	}
	return clips, nil
}
