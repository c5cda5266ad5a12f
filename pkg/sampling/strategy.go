package sampling

import (
	"fmt"
	"math/rand"
)

// Strategy names a clip sampling algorithm. The set is closed; unknown names
// are rejected by ParseStrategy rather than passed through.
type Strategy string

const (
	// StrategyUniform slides a fixed window across the video.
	StrategyUniform Strategy = "uniform"
	// StrategyRandom draws one uniformly random window per video.
	StrategyRandom Strategy = "random"
	// StrategyRandomMulti draws several independent random windows per call.
	StrategyRandomMulti Strategy = "random_multi"
	// StrategyConstantClipsPerVideo spreads a fixed clip count evenly
	// across the video.
	StrategyConstantClipsPerVideo Strategy = "constant_clips_per_video"
)

// ParseStrategy validates a strategy name from config or flags.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyUniform, StrategyRandom, StrategyRandomMulti, StrategyConstantClipsPerVideo:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("sampling strategy %q not supported", s)
}

// Strategies lists the supported strategy names, for help text and config
// validation messages.
func Strategies() []Strategy {
	return []Strategy{
		StrategyUniform,
		StrategyRandom,
		StrategyRandomMulti,
		StrategyConstantClipsPerVideo,
	}
}

// Spec bundles the knobs for every strategy so sampler construction can be
// driven from a single config section. Fields irrelevant to the chosen
// strategy are ignored.
type Spec struct {
	// Strategy selects the algorithm. Required.
	Strategy Strategy

	// ClipDuration is the clip length in seconds. Required and shared by
	// all strategies.
	ClipDuration float64

	// Stride, BackpadLast and Eps configure StrategyUniform. A zero
	// Stride defaults to ClipDuration; a zero Eps to DefaultEps.
	Stride      float64
	BackpadLast bool
	Eps         float64

	// Rand, when non-nil, is the random stream for the random strategies
	// and wins over Seed. Otherwise a non-zero Seed makes the run
	// reproducible, and a zero Seed yields a time-seeded stream.
	Rand *rand.Rand
	Seed int64

	// NumClips is the number of random draws per video. Values above 1
	// select the multi-clip sampler even under StrategyRandom;
	// StrategyRandomMulti requires it.
	NumClips int

	// ClipsPerVideo and AugsPerClip configure
	// StrategyConstantClipsPerVideo. A zero AugsPerClip defaults to 1.
	ClipsPerVideo int
	AugsPerClip   int

	// TruncationDuration, when positive, caps the visible video length so
	// all clips come from the leading portion. Zero disables truncation.
	TruncationDuration float64
}

// rng resolves the Spec's random stream: the explicit handle, a seeded
// stream, or nil for a per-instance time-seeded one.
func (s Spec) rng() *rand.Rand {
	if s.Rand != nil {
		return s.Rand
	}
	if s.Seed != 0 {
		return rand.New(rand.NewSource(s.Seed))
	}
	return nil
}

// New constructs the sampler described by spec. The result satisfies
// MultiSampler when the strategy draws multiple clips per call.
func New(spec Spec) (Sampler, error) {
	var (
		sampler Sampler
		err     error
	)
	switch spec.Strategy {
	case StrategyUniform:
		sampler, err = NewUniformClipSampler(spec.ClipDuration, spec.Stride, spec.BackpadLast, spec.Eps)
	case StrategyRandom:
		if spec.NumClips > 1 {
			sampler, err = NewRandomMultiClipSampler(spec.ClipDuration, spec.NumClips, spec.rng())
		} else {
			sampler, err = NewRandomClipSampler(spec.ClipDuration, spec.rng())
		}
	case StrategyRandomMulti:
		sampler, err = NewRandomMultiClipSampler(spec.ClipDuration, spec.NumClips, spec.rng())
	case StrategyConstantClipsPerVideo:
		sampler, err = NewConstantClipsPerVideoSampler(spec.ClipDuration, spec.ClipsPerVideo, spec.AugsPerClip)
	default:
		return nil, fmt.Errorf("sampling strategy %q not supported", string(spec.Strategy))
	}
	if err != nil {
		return nil, err
	}

	if spec.TruncationDuration != 0 {
		sampler, err = TruncateFromStart(sampler, spec.TruncationDuration)
		if err != nil {
			return nil, err
		}
	}
	return sampler, nil
}
