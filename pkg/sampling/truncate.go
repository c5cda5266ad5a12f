package sampling

import (
	"errors"
	"fmt"
	"math"
)

// TruncateFromStart wraps a sampler so it only ever sees the first
// truncationDuration seconds of each video. Clips from longer videos are
// drawn as if the video ended there; shorter videos pass through unchanged.
//
// The wrapper keeps the inner sampler's MultiSampler capability: wrapping a
// MultiSampler returns a MultiSampler.
func TruncateFromStart(inner Sampler, truncationDuration float64) (Sampler, error) {
	if inner == nil {
		return nil, errors.New("truncate: inner sampler is nil")
	}
	if math.IsNaN(truncationDuration) || math.IsInf(truncationDuration, 0) || truncationDuration <= 0 {
		return nil, fmt.Errorf("truncation duration must be a positive finite number, got %v", truncationDuration)
	}
	t := truncated{inner: inner, limit: truncationDuration}
	if multi, ok := inner.(MultiSampler); ok {
		return &truncatedMulti{truncated: t, multi: multi}, nil
	}
	return &t, nil
}

type truncated struct {
	inner Sampler
	limit float64
}

var _ Sampler = (*truncated)(nil)

func (t *truncated) Sample(lastClipTime, videoDuration float64, annotation Annotation) (ClipInfo, error) {
	// Validate before clamping so an infinite duration cannot hide
	// behind the limit.
	if err := validateCall(lastClipTime, videoDuration); err != nil {
		return ClipInfo{}, err
	}
	return t.inner.Sample(lastClipTime, math.Min(t.limit, videoDuration), annotation)
}

func (t *truncated) Reset() {
	t.inner.Reset()
}

type truncatedMulti struct {
	truncated
	multi MultiSampler
}

var _ MultiSampler = (*truncatedMulti)(nil)

func (t *truncatedMulti) SampleMulti(lastClipTime, videoDuration float64, annotation Annotation) (ClipInfoList, error) {
	if err := validateCall(lastClipTime, videoDuration); err != nil {
		return nil, err
	}
	return t.multi.SampleMulti(lastClipTime, math.Min(t.limit, videoDuration), annotation)
}
