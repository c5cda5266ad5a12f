package pipeline

import (
	"time"

	"github.com/videoml/clipsampler/pkg/sampling"
)

// Config holds planner-specific configuration
type Config struct {
	// Workers bounds how many videos are planned concurrently.
	Workers int

	// Sampler is applied to every video. A non-zero Seed makes the plan
	// reproducible; an explicit Rand handle is rejected because workers
	// cannot share one stream.
	Sampler sampling.Spec

	// ProbeBinary and ProbeTimeout configure the ffprobe fallback used
	// when inventory entries carry no duration.
	ProbeBinary  string
	ProbeTimeout time.Duration
}
