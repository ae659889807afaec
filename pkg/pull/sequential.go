package pull

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SequentialMultiplePull pulls batches strictly one after another in
// input order, checking the abort threshold after each batch.
type SequentialMultiplePull struct {
	single *SinglePull
	opts   Options
	logger zerolog.Logger
}

// NewSequentialMultiplePull creates a sequential multiple pull. The
// abort threshold is validated here so a misconfigured pull fails
// before any batch is dispatched.
func NewSequentialMultiplePull(single *SinglePull, opts Options) (*SequentialMultiplePull, error) {
	if _, err := newAbortState(opts.AbortThreshold, 0); err != nil {
		return nil, err
	}
	return &SequentialMultiplePull{
		single: single,
		opts:   opts,
		logger: log.With().Str("component", "kegg-pull").Logger(),
	}, nil
}

// Pull pulls every entry ID, batch by batch. When the unsuccessful
// threshold is crossed after a batch, no further batches are
// dispatched and their IDs are returned as remaining.
func (m *SequentialMultiplePull) Pull(ctx context.Context, entryIDs []string) (*Outcome, error) {
	startTime := time.Now()

	abort, err := newAbortState(m.opts.AbortThreshold, len(entryIDs))
	if err != nil {
		return nil, err
	}

	batches := groupEntryIDs(entryIDs, groupSize(m.single.EntryField(), m.opts.ForceSingleEntry))
	m.logger.Info().
		Int("n_ids", len(entryIDs)).
		Int("n_batches", len(batches)).
		Msg("Starting sequential pull")

	result := NewResult()
	for i, batch := range batches {
		batchResult, err := m.single.Pull(ctx, batch)
		if err != nil {
			return nil, err
		}
		result.Merge(batchResult)
		abort.record(batchResult)

		if (i+1)%50 == 0 {
			m.logger.Info().
				Int("batch", i+1).
				Int("n_batches", len(batches)).
				Float64("progress_pct", float64(i+1)/float64(len(batches))*100).
				Msg("Pull progress")
		}

		if abort.exceeded() {
			remaining := flattenBatches(batches[i+1:])
			pullAbortsTotal.Inc()
			m.logger.Warn().
				Float64("unsuccessful_ratio", abort.ratio()).
				Float64("threshold", m.opts.AbortThreshold).
				Int("n_remaining", len(remaining)).
				Msg("Aborting pull: unsuccessful threshold crossed")
			return &Outcome{
				Result:    result,
				Elapsed:   time.Since(startTime),
				Aborted:   true,
				Remaining: remaining,
			}, nil
		}
	}

	elapsed := time.Since(startTime)
	m.logger.Info().
		Int("n_successful", len(result.Successful())).
		Int("n_failed", len(result.Failed())).
		Int("n_timed_out", len(result.TimedOut())).
		Dur("duration", elapsed).
		Msg("Pull complete")

	return &Outcome{Result: result, Elapsed: elapsed}, nil
}
