package repro

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	sedeval "github.com/jamesainslie/go-sedeval"
)

// ErrMissingEstimate indicates a reference event list with no estimated
// event list of the same file name.
var ErrMissingEstimate = errors.New("repro: missing estimate")

// Pairing is the outcome of matching reference files to estimate files.
type Pairing struct {
	Pairs   []sedeval.RecordingPair
	Skipped []string
}

// LoadPairs reads every .txt event list in gtDir and the estimate with the
// same file name in estDir. Under MissingAbort all missing estimates are
// reported together in one error wrapping ErrMissingEstimate; under
// MissingSkip they are logged and left out.
func LoadPairs(gtDir, estDir string, policy MissingPolicy, logger *slog.Logger) (*Pairing, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(gtDir)
	if err != nil {
		return nil, fmt.Errorf("read reference dir: %w", err)
	}

	var (
		out     Pairing
		missing *multierror.Error
	)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
			continue
		}

		refPath := filepath.Join(gtDir, entry.Name())
		estPath := filepath.Join(estDir, entry.Name())
		id := sedeval.RecordingID(refPath)

		if _, err := os.Stat(estPath); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("checking estimate %s: %w", estPath, err)
			}
			if policy == MissingSkip {
				logger.Warn("skipping recording without estimate", "recording", id, "expected", estPath)
				out.Skipped = append(out.Skipped, id)
				continue
			}
			missing = multierror.Append(missing, fmt.Errorf("%w: %s", ErrMissingEstimate, estPath))
			continue
		}

		ref, err := sedeval.LoadEventList(refPath)
		if err != nil {
			return nil, fmt.Errorf("loading reference %s: %w", entry.Name(), err)
		}
		est, err := sedeval.LoadEventList(estPath)
		if err != nil {
			return nil, fmt.Errorf("loading estimate %s: %w", entry.Name(), err)
		}

		out.Pairs = append(out.Pairs, sedeval.RecordingPair{
			RecordingID: id,
			Reference:   ref,
			Estimated:   est,
		})
	}

	if err := missing.ErrorOrNil(); err != nil {
		return nil, err
	}
	if len(out.Pairs) == 0 && len(out.Skipped) == 0 {
		return nil, fmt.Errorf("no reference event lists in %s", gtDir)
	}

	logger.Debug("paired event lists", "pairs", len(out.Pairs), "skipped", len(out.Skipped))
	return &out, nil
}
