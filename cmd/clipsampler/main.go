package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/videoml/clipsampler/internal/config"
	"github.com/videoml/clipsampler/internal/logging"
	"github.com/videoml/clipsampler/internal/manifest"
	"github.com/videoml/clipsampler/internal/pipeline"
	"github.com/videoml/clipsampler/pkg/sampling"
	"github.com/videoml/clipsampler/pkg/util"
)

var (
	cfgFile string
	verbose bool
	jsonLog bool
)

func main() {
	_ = godotenv.Load() // best-effort: load .env if present

	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clipsampler",
	Short: "clipsampler - clip sampling planner for video datasets",
	Long:  "Samples fixed-length training clips from video collections: uniform sliding windows, seeded random draws, or a constant clip grid per video.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logging.Init(verbose, jsonLog)

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./clipsampler.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "emit logs as JSON lines")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(windowsCmd)
	rootCmd.AddCommand(configCmd)
}

// Sampler overrides shared by plan and windows. Only flags the user set
// replace the config file values.
var (
	samplerStrategy     string
	samplerClipDuration float64
	samplerStride       float64
	samplerBackpad      bool
	samplerSeed         int64
)

func addSamplerFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&samplerStrategy, "strategy", "", "sampling strategy (uniform, random, random_multi, constant_clips_per_video)")
	f.Float64Var(&samplerClipDuration, "clip-duration", 0, "clip duration in seconds")
	f.Float64Var(&samplerStride, "stride", 0, "uniform stride in seconds (defaults to clip duration)")
	f.BoolVar(&samplerBackpad, "backpad-last", false, "shift the final uniform window back inside the video")
	f.Int64Var(&samplerSeed, "seed", 0, "seed for random strategies (0 = non-deterministic)")
}

func applySamplerFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("strategy") {
		cfg.Sampler.Strategy = samplerStrategy
	}
	if f.Changed("clip-duration") {
		cfg.Sampler.ClipDuration = samplerClipDuration
	}
	if f.Changed("stride") {
		cfg.Sampler.Stride = samplerStride
	}
	if f.Changed("backpad-last") {
		cfg.Sampler.BackpadLast = samplerBackpad
	}
	if f.Changed("seed") {
		cfg.Sampler.Seed = samplerSeed
	}
}

var (
	planOutput  string
	planFormat  string
	planWorkers int
)

var planCmd = &cobra.Command{
	Use:   "plan [inventory file]",
	Short: "Sample clips for every video in an inventory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		applySamplerFlags(cmd, cfg)
		if cmd.Flags().Changed("workers") {
			cfg.Planner.Workers = planWorkers
		}
		if cmd.Flags().Changed("format") {
			cfg.Planner.OutputFormat = planFormat
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if !util.FileExists(args[0]) {
			return fmt.Errorf("inventory file not found: %s", args[0])
		}
		inv, err := manifest.LoadInventory(args[0])
		if err != nil {
			return err
		}

		spec, err := cfg.Sampler.Spec()
		if err != nil {
			return err
		}

		planner, err := pipeline.New(log.Logger, &pipeline.Config{
			Workers:      cfg.Planner.Workers,
			Sampler:      spec,
			ProbeBinary:  cfg.Probe.BinaryPath,
			ProbeTimeout: time.Duration(cfg.Probe.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return err
		}

		plan, err := planner.Plan(cmd.Context(), inv)
		if err != nil {
			return err
		}

		output := planOutput
		if output == "" {
			if err := util.EnsureDir(cfg.WorkDir); err != nil {
				return err
			}
			output = filepath.Join(cfg.WorkDir, "plan."+cfg.Planner.OutputFormat)
		}
		if err := plan.WriteFile(output, cfg.Planner.OutputFormat); err != nil {
			return err
		}

		log.Info().
			Str("output", output).
			Int("videos", inv.Len()).
			Int("clips", len(plan.Clips)).
			Msg("plan written")

		return nil
	},
}

var windowsDuration string

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "Print the clip windows for a given video duration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		applySamplerFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		videoDuration, err := util.ParseSeconds(windowsDuration)
		if err != nil {
			return err
		}

		spec, err := cfg.Sampler.Spec()
		if err != nil {
			return err
		}
		sampler, err := sampling.New(spec)
		if err != nil {
			return err
		}

		clips, err := pipeline.SampleVideo(sampler, videoDuration, nil)
		if err != nil {
			return err
		}

		fmt.Printf("%-5s %-4s %-14s %-14s %s\n", "clip", "aug", "start", "end", "last")
		for _, c := range clips {
			fmt.Printf("%-5d %-4d %-14s %-14s %v\n",
				c.ClipIndex, c.AugIndex,
				util.FormatSeconds(c.StartSec), util.FormatSeconds(c.EndSec),
				c.IsLastClip)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "clipsampler.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if util.FileExists(path) && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		cfg := config.FromContext(cmd.Context())
		if err := cfg.Save(path); err != nil {
			return err
		}

		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		data, err := cfg.Dump()
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	addSamplerFlags(planCmd)
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "plan output path (default: <work_dir>/plan.<format>)")
	planCmd.Flags().StringVar(&planFormat, "format", "", "plan output format (json or csv)")
	planCmd.Flags().IntVar(&planWorkers, "workers", 0, "videos planned concurrently")

	addSamplerFlags(windowsCmd)
	windowsCmd.Flags().StringVar(&windowsDuration, "duration", "", "video duration (seconds or HH:MM:SS)")
	_ = windowsCmd.MarkFlagRequired("duration")

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
