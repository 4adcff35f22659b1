package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	sedeval "github.com/jamesainslie/go-sedeval"
	"github.com/jamesainslie/go-sedeval/internal/repro"
)

func main() {
	var (
		collar     float64
		resolution float64
		offsetPct  float64
		lenient    bool
		optimal    bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "sed-score REFERENCE ESTIMATE",
		Short: "Score one estimated event list against its reference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ref, err := sedeval.LoadEventList(args[0])
			if err != nil {
				return err
			}
			est, err := sedeval.LoadEventList(args[1])
			if err != nil {
				return err
			}

			// both files describe one recording
			est.RecordingID = ref.RecordingID
			corpus, err := sedeval.BuildCorpus([]sedeval.RecordingPair{{
				RecordingID: ref.RecordingID,
				Reference:   ref,
				Estimated:   est,
			}})
			if err != nil {
				return err
			}

			method := sedeval.MatchGreedy
			if optimal {
				method = sedeval.MatchOptimal
			}
			res, err := sedeval.EvaluateCorpus(cmd.Context(), corpus,
				sedeval.WithCollar(collar),
				sedeval.WithTimeResolution(resolution),
				sedeval.WithOffsetPercentage(offsetPct),
				sedeval.WithMatchMethod(method),
				sedeval.WithLenientSubstitution(lenient),
				sedeval.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			return repro.WriteText(cmd.OutOrStdout(), res.Report)
		},
		SilenceUsage: true,
	}

	fl := cmd.Flags()
	fl.Float64Var(&collar, "collar", 0.1, "Onset/offset collar in seconds")
	fl.Float64Var(&resolution, "resolution", 0.1, "Segment length in seconds")
	fl.Float64Var(&offsetPct, "offset-pct", 0, "Offset tolerance as a fraction of the reference duration")
	fl.BoolVar(&lenient, "lenient", false, "Count cross-label time matches as substitutions")
	fl.BoolVar(&optimal, "optimal", false, "Use maximum-cardinality matching instead of greedy")
	fl.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
