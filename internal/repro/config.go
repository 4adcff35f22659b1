// Package repro reproduces published sound event detection results from a
// directory of reference and estimated event lists.
package repro

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	sedeval "github.com/jamesainslie/go-sedeval"
)

// MissingPolicy decides what happens to a reference without an estimate.
type MissingPolicy string

const (
	// MissingAbort fails the run.
	MissingAbort MissingPolicy = "abort"
	// MissingSkip logs a warning and leaves the recording out of both scorers.
	MissingSkip MissingPolicy = "skip"
)

// Target names one evaluation to reproduce. Paths are relative to the
// evaluation root unless absolute.
type Target struct {
	Name        string `yaml:"name"`
	GroundTruth string `yaml:"ground_truth"`
	Estimated   string `yaml:"estimated"`
}

// Config holds the evaluation parameters and the known targets.
type Config struct {
	Collar          float64       `yaml:"t_collar"`
	TimeResolution  float64       `yaml:"time_resolution"`
	OffsetPct       float64       `yaml:"percentage_of_length"`
	EvaluateOnset   bool          `yaml:"evaluate_onset"`
	EvaluateOffset  bool          `yaml:"evaluate_offset"`
	Matching        string        `yaml:"event_matching"`
	Lenient         bool          `yaml:"lenient_substitution"`
	Workers         int           `yaml:"workers"`
	MissingEstimate MissingPolicy `yaml:"missing_estimate"`
	Targets         []Target      `yaml:"targets"`
}

// DefaultConfig returns the parameters of the published tables: 0.1s collar,
// 0.1s segments, and the Table1/Table2 layout of the release archive.
func DefaultConfig() Config {
	return Config{
		Collar:          0.1,
		TimeResolution:  0.1,
		EvaluateOnset:   true,
		EvaluateOffset:  true,
		Matching:        sedeval.MatchGreedy.String(),
		Workers:         1,
		MissingEstimate: MissingAbort,
		Targets: []Target{
			tableTarget(1),
			tableTarget(2),
		},
	}
}

func tableTarget(n int) Target {
	name := fmt.Sprintf("Table%d", n)
	return Target{
		Name:        name,
		GroundTruth: filepath.Join("ground_truth", name),
		Estimated:   filepath.Join("AVCFillerNet_predictions", name),
	}
}

// LoadConfig reads a YAML config file. Keys missing from the file keep their
// DefaultConfig values; a targets list replaces the default targets.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the scorers and the loader depend on.
func (c Config) Validate() error {
	var errs []error
	if !finite(c.Collar) || c.Collar < 0 {
		errs = append(errs, fmt.Errorf("t_collar %v must be finite and non-negative", c.Collar))
	}
	if !finite(c.TimeResolution) || c.TimeResolution <= 0 {
		errs = append(errs, fmt.Errorf("time_resolution %v must be finite and positive", c.TimeResolution))
	}
	if !finite(c.OffsetPct) || c.OffsetPct < 0 {
		errs = append(errs, fmt.Errorf("percentage_of_length %v must be finite and non-negative", c.OffsetPct))
	}
	if _, err := c.matchMethod(); err != nil {
		errs = append(errs, err)
	}
	switch c.MissingEstimate {
	case MissingAbort, MissingSkip:
	default:
		errs = append(errs, fmt.Errorf("missing_estimate %q, want %q or %q", c.MissingEstimate, MissingAbort, MissingSkip))
	}
	for i, t := range c.Targets {
		if t.Name == "" || t.GroundTruth == "" || t.Estimated == "" {
			errs = append(errs, fmt.Errorf("target %d needs name, ground_truth and estimated", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", sedeval.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (c Config) matchMethod() (sedeval.MatchMethod, error) {
	switch strings.ToLower(c.Matching) {
	case "", sedeval.MatchGreedy.String():
		return sedeval.MatchGreedy, nil
	case sedeval.MatchOptimal.String():
		return sedeval.MatchOptimal, nil
	default:
		return 0, fmt.Errorf("event_matching %q, want greedy or optimal", c.Matching)
	}
}

// Target looks up a target by name. A bare number n also matches "Tablen".
func (c Config) Target(name string) (Target, error) {
	for _, t := range c.Targets {
		if strings.EqualFold(t.Name, name) || strings.EqualFold(t.Name, "Table"+name) {
			return t, nil
		}
	}
	names := make([]string, len(c.Targets))
	for i, t := range c.Targets {
		names[i] = t.Name
	}
	return Target{}, fmt.Errorf("unknown target %q (known: %s)", name, strings.Join(names, ", "))
}

// Options converts the config into scorer options.
func (c Config) Options(logger *slog.Logger) []sedeval.Option {
	method, _ := c.matchMethod() // checked by Validate
	return []sedeval.Option{
		sedeval.WithCollar(c.Collar),
		sedeval.WithTimeResolution(c.TimeResolution),
		sedeval.WithOffsetPercentage(c.OffsetPct),
		sedeval.WithOnsetCheck(c.EvaluateOnset),
		sedeval.WithOffsetCheck(c.EvaluateOffset),
		sedeval.WithMatchMethod(method),
		sedeval.WithLenientSubstitution(c.Lenient),
		sedeval.WithWorkers(c.Workers),
		sedeval.WithLogger(logger),
	}
}

// resolve joins p onto root unless p is absolute.
func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
