package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-sedeval/internal/repro"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type flags struct {
	root        string
	table       string
	configPath  string
	workers     int
	collar      float64
	resolution  float64
	skipMissing bool
	format      string
	progress    bool
	verbose     bool
	sweep       bool
	sweepMin    float64
	sweepMax    float64
	sweepStep   float64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:     "sed-reproduce",
		Short:   "Reproduce the published event-based and segment-based filler detection results",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), f)
		},
		SilenceUsage: true,
	}

	fl := cmd.Flags()
	fl.StringVar(&f.root, "sed-eval-path", "", "Folder containing ground_truth/ and AVCFillerNet_predictions/ (required)")
	fl.StringVar(&f.table, "table", "1", "Target to reproduce, e.g. 1, 2 or a name from the config file")
	fl.StringVar(&f.configPath, "config", "", "YAML config file with scoring parameters and targets")
	fl.IntVar(&f.workers, "workers", 0, "Parallel workers (0 keeps the config value)")
	fl.Float64Var(&f.collar, "collar", -1, "Event-based t_collar in seconds (negative keeps the config value)")
	fl.Float64Var(&f.resolution, "resolution", -1, "Segment length in seconds (negative keeps the config value)")
	fl.BoolVar(&f.skipMissing, "skip-missing", false, "Skip recordings without an estimate instead of aborting")
	fl.StringVar(&f.format, "format", string(repro.FormatText), "Output format: text, json or protobuf")
	fl.BoolVar(&f.progress, "progress", false, "Show a progress bar on stderr")
	fl.BoolVar(&f.sweep, "sweep", false, "Sweep the event-based collar instead of a single run")
	fl.Float64Var(&f.sweepMin, "sweep-min", 0.05, "Smallest collar for --sweep")
	fl.Float64Var(&f.sweepMax, "sweep-max", 0.5, "Largest collar for --sweep")
	fl.Float64Var(&f.sweepStep, "sweep-step", 0.05, "Collar step for --sweep")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "Debug logging")
	_ = cmd.MarkFlagRequired("sed-eval-path")

	return cmd
}

func run(ctx context.Context, stdout, stderr io.Writer, f flags) error {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := repro.DefaultConfig()
	if f.configPath != "" {
		var err error
		if cfg, err = repro.LoadConfig(f.configPath); err != nil {
			return err
		}
	}
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	if f.collar >= 0 {
		cfg.Collar = f.collar
	}
	if f.resolution >= 0 {
		cfg.TimeResolution = f.resolution
	}
	if f.skipMissing {
		cfg.MissingEstimate = repro.MissingSkip
	}

	format, err := repro.ParseFormat(f.format)
	if err != nil {
		return err
	}

	params := repro.Params{
		Root:   f.root,
		Target: f.table,
		Config: cfg,
		Logger: logger,
	}
	if f.progress {
		params.Progress = stderr
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if f.sweep {
		points, err := repro.Sweep(ctx, params, repro.SweepCollars(f.sweepMin, f.sweepMax, f.sweepStep))
		if err != nil {
			return err
		}
		return repro.WriteSweep(stdout, points)
	}

	out, err := repro.Run(ctx, params)
	if err != nil {
		return err
	}
	return repro.Export(stdout, out, format)
}
