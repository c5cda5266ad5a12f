package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/videoml/clipsampler/pkg/sampling"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Core settings
	WorkDir string `yaml:"work_dir"`

	// Sampler settings
	Sampler SamplerConfig `yaml:"sampler"`

	// Planner settings
	Planner PlannerConfig `yaml:"planner"`

	// ffprobe settings
	Probe ProbeConfig `yaml:"probe"`
}

// SamplerConfig mirrors sampling.Spec for the yaml file. Fields that do not
// apply to the chosen strategy may be left at zero.
type SamplerConfig struct {
	Strategy           string  `yaml:"strategy"`
	ClipDuration       float64 `yaml:"clip_duration"`
	Stride             float64 `yaml:"stride"`
	BackpadLast        bool    `yaml:"backpad_last"`
	Eps                float64 `yaml:"eps"`
	Seed               int64   `yaml:"seed"`
	NumClips           int     `yaml:"num_clips"`
	ClipsPerVideo      int     `yaml:"clips_per_video"`
	AugsPerClip        int     `yaml:"augs_per_clip"`
	TruncationDuration float64 `yaml:"truncation_duration"`
}

type PlannerConfig struct {
	Workers      int    `yaml:"workers"`
	OutputFormat string `yaml:"output_format"`
}

type ProbeConfig struct {
	BinaryPath     string `yaml:"binary_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Spec converts the section into a sampler spec. Strategy validity is
// checked here; numeric contracts are enforced by the sampler constructors.
func (s SamplerConfig) Spec() (sampling.Spec, error) {
	strategy, err := sampling.ParseStrategy(s.Strategy)
	if err != nil {
		return sampling.Spec{}, err
	}
	return sampling.Spec{
		Strategy:           strategy,
		ClipDuration:       s.ClipDuration,
		Stride:             s.Stride,
		BackpadLast:        s.BackpadLast,
		Eps:                s.Eps,
		Seed:               s.Seed,
		NumClips:           s.NumClips,
		ClipsPerVideo:      s.ClipsPerVideo,
		AugsPerClip:        s.AugsPerClip,
		TruncationDuration: s.TruncationDuration,
	}, nil
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := c.Dump()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Dump renders the configuration as yaml
func (c *Config) Dump() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks the settings the sampler constructors cannot check for
// themselves. All problems are reported at once, with yaml field names in
// the messages.
func (c *Config) Validate() error {
	var errs []string

	if _, err := sampling.ParseStrategy(c.Sampler.Strategy); err != nil {
		errs = append(errs, fmt.Sprintf("sampler.strategy: %v", err))
	}
	if c.Sampler.ClipDuration <= 0 {
		errs = append(errs, fmt.Sprintf("sampler.clip_duration must be positive, got %v", c.Sampler.ClipDuration))
	}
	if c.Planner.Workers < 1 {
		errs = append(errs, fmt.Sprintf("planner.workers must be at least 1, got %d", c.Planner.Workers))
	}
	switch c.Planner.OutputFormat {
	case "json", "csv":
	default:
		errs = append(errs, fmt.Sprintf("planner.output_format must be json or csv, got %q", c.Planner.OutputFormat))
	}
	if c.Probe.BinaryPath == "" {
		errs = append(errs, "probe.binary_path must not be empty")
	}
	if c.Probe.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Sprintf("probe.timeout_seconds must not be negative, got %d", c.Probe.TimeoutSeconds))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		WorkDir: "./work",
		Sampler: SamplerConfig{
			Strategy:      string(sampling.StrategyUniform),
			ClipDuration:  2,
			NumClips:      1,
			ClipsPerVideo: 1,
			AugsPerClip:   1,
		},
		Planner: PlannerConfig{
			Workers:      4,
			OutputFormat: "json",
		},
		Probe: ProbeConfig{
			BinaryPath:     "ffprobe",
			TimeoutSeconds: 30,
		},
	}
}

func findConfigFile() string {
	if path := os.Getenv("CLIPSAMPLER_CONFIG"); path != "" {
		return path
	}

	candidates := []string{
		"./clipsampler.yaml",
		"./clipsampler.yml",
		filepath.Join(os.Getenv("HOME"), ".clipsampler", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
