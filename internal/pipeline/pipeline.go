package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/videoml/clipsampler/internal/manifest"
	"github.com/videoml/clipsampler/internal/probe"
	"github.com/videoml/clipsampler/pkg/sampling"
)

// maxClipsPerVideo bounds one video's sampling loop so a degenerate
// configuration (for instance an eps larger than the video) cannot spin
// forever.
const maxClipsPerVideo = 1 << 20

// Planner orchestrates the planning workflow: probe missing durations, run
// the sampler over every video, collect the plan.
type Planner struct {
	logger zerolog.Logger
	// base is the logger as received, for collaborators that stamp their
	// own component field.
	base   zerolog.Logger
	config *Config
}

// New creates a new planner instance
func New(logger zerolog.Logger, cfg *Config) (*Planner, error) {
	if cfg == nil {
		cfg = &Config{
			Workers: 4,
			Sampler: sampling.Spec{Strategy: sampling.StrategyUniform, ClipDuration: 2},
		}
	}
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}

	if cfg.Sampler.Rand != nil {
		return nil, fmt.Errorf("explicit Rand handles are not supported by the planner; set Seed instead")
	}

	// Surface bad sampler settings now rather than on the first video.
	if _, err := sampling.New(cfg.Sampler); err != nil {
		return nil, fmt.Errorf("invalid sampler settings: %w", err)
	}

	return &Planner{
		logger: logger.With().Str("component", "planner").Logger(),
		base:   logger,
		config: cfg,
	}, nil
}

// Plan samples clips for every video in the inventory and returns them in
// inventory order. With a non-zero Seed the result is identical for any
// worker count.
func (p *Planner) Plan(ctx context.Context, inv *manifest.Inventory) (*manifest.Plan, error) {
	if inv == nil || inv.Len() == 0 {
		return nil, fmt.Errorf("inventory has no videos")
	}

	start := time.Now()
	p.logger.Info().
		Int("videos", inv.Len()).
		Str("strategy", string(p.config.Sampler.Strategy)).
		Int("workers", p.config.Workers).
		Msg("starting clip planning")

	if err := p.ensureDurations(ctx, inv); err != nil {
		return nil, err
	}

	// The first worker error cancels the run so remaining videos are
	// skipped rather than sampled into a plan that is already dead.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	entries := inv.All()
	n := len(entries)
	results := make([][]manifest.PlannedClip, n)
	errs := make([]error, n)

	workers := p.config.Workers
	if workers > n {
		workers = n
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.runWorker(ctx, cancel, jobs, entries, results, errs)
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	// Worker errors win over the cancellation they triggered.
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to plan %s: %w", entries[i].Path, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan := &manifest.Plan{
		ID:              uuid.NewString(),
		CreatedAt:       time.Now(),
		Strategy:        string(p.config.Sampler.Strategy),
		ClipDurationSec: p.config.Sampler.ClipDuration,
		Seed:            p.config.Sampler.Seed,
	}
	for _, clips := range results {
		plan.Clips = append(plan.Clips, clips...)
	}

	p.logger.Info().
		Int("videos", n).
		Int("clips", len(plan.Clips)).
		Dur("elapsed", time.Since(start)).
		Msg("clip planning complete")

	return plan, nil
}

// runWorker plans videos pulled off the jobs channel. Results and errors
// land in the per-ordinal slots, so no further synchronization is needed;
// any recorded error cancels the run and later videos are skipped.
func (p *Planner) runWorker(ctx context.Context, cancel context.CancelFunc, jobs <-chan int, entries []manifest.VideoEntry, results [][]manifest.PlannedClip, errs []error) {
	var shared sampling.Sampler
	for i := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		sampler := shared
		var err error
		if p.config.Sampler.Seed != 0 {
			sampler, err = p.videoSampler(i)
		} else if sampler == nil {
			sampler, err = sampling.New(p.config.Sampler)
			shared = sampler
		}
		if err != nil {
			errs[i] = err
			cancel()
			continue
		}

		// Fresh counters for every video, including after an error on
		// the previous one.
		sampler.Reset()
		infos, err := SampleVideo(sampler, entries[i].DurationSec, entries[i].Annotation)
		if err != nil {
			errs[i] = err
			cancel()
			continue
		}

		clips := make([]manifest.PlannedClip, 0, len(infos))
		for _, info := range infos {
			clips = append(clips, manifest.NewPlannedClip(entries[i], info))
		}
		results[i] = clips

		p.logger.Debug().
			Str("video", entries[i].Path).
			Int("clips", len(clips)).
			Msg("planned video")
	}
}

// videoSampler builds the sampler for one video ordinal in a seeded run.
// Deriving the stream from the ordinal keeps plans independent of worker
// count and scheduling order.
func (p *Planner) videoSampler(ordinal int) (sampling.Sampler, error) {
	spec := p.config.Sampler
	spec.Rand = rand.New(rand.NewSource(spec.Seed + int64(ordinal)))
	return sampling.New(spec)
}

// ensureDurations probes entries that carry no duration. Inventories that
// arrive fully probed never touch ffprobe.
func (p *Planner) ensureDurations(ctx context.Context, inv *manifest.Inventory) error {
	missing := 0
	for _, entry := range inv.All() {
		if entry.DurationSec <= 0 {
			missing++
		}
	}
	if missing == 0 {
		return nil
	}

	p.logger.Info().Int("videos", missing).Msg("probing missing durations")

	prober, err := probe.New(p.base, p.config.ProbeBinary, p.config.ProbeTimeout)
	if err != nil {
		return fmt.Errorf("%d videos have no duration and probing is unavailable: %w", missing, err)
	}
	return prober.FillDurations(ctx, inv)
}

// SampleVideo drives one full pass of the sampler over a video and returns
// the clips in call order. Multi-clip samplers contribute their whole batch
// in a single call.
func SampleVideo(s sampling.Sampler, videoDuration float64, annotation sampling.Annotation) ([]sampling.ClipInfo, error) {
	if multi, ok := s.(sampling.MultiSampler); ok {
		return multi.SampleMulti(0, videoDuration, annotation)
	}

	var clips []sampling.ClipInfo
	last := 0.0
	for {
		info, err := s.Sample(last, videoDuration, annotation)
		if err != nil {
			return nil, err
		}
		clips = append(clips, info)
		if info.IsLastClip {
			return clips, nil
		}
		last = info.EndSec

		if len(clips) >= maxClipsPerVideo {
			return nil, fmt.Errorf("sampler produced %d clips without finishing; check stride and eps", len(clips))
		}
	}
}
