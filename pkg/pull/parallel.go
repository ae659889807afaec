package pull

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ParallelMultiplePull pulls batches concurrently through a bounded
// worker pool. Batch dispatch order is deterministic (input order) but
// completion order is not; the merged Result is order-independent, so
// a non-aborted parallel pull classifies identically to the sequential
// variant given the same remote responses.
type ParallelMultiplePull struct {
	single *SinglePull
	opts   Options
	logger zerolog.Logger
}

// NewParallelMultiplePull creates a parallel multiple pull. NWorkers
// defaults to the number of CPUs.
func NewParallelMultiplePull(single *SinglePull, opts Options) (*ParallelMultiplePull, error) {
	if _, err := newAbortState(opts.AbortThreshold, 0); err != nil {
		return nil, err
	}
	if opts.NWorkers <= 0 {
		opts.NWorkers = runtime.NumCPU()
	}
	return &ParallelMultiplePull{
		single: single,
		opts:   opts,
		logger: log.With().Str("component", "kegg-pull").Logger(),
	}, nil
}

// Pull pulls every entry ID across the worker pool. The dispatcher
// stops handing out batches once the unsuccessful threshold is
// crossed; batches already in flight still complete and contribute to
// the Result, so remaining IDs are exactly those of batches never
// dispatched.
func (m *ParallelMultiplePull) Pull(ctx context.Context, entryIDs []string) (*Outcome, error) {
	startTime := time.Now()

	abort, err := newAbortState(m.opts.AbortThreshold, len(entryIDs))
	if err != nil {
		return nil, err
	}

	batches := groupEntryIDs(entryIDs, groupSize(m.single.EntryField(), m.opts.ForceSingleEntry))
	m.logger.Info().
		Int("n_ids", len(entryIDs)).
		Int("n_batches", len(batches)).
		Int("n_workers", m.opts.NWorkers).
		Msg("Starting parallel pull")

	// Unbuffered queue: a batch counts as dispatched only once a
	// worker has taken it, so the abort check gates every hand-off.
	batchQueue := make(chan []string)
	results := make(chan *Result, len(batches))
	errCh := make(chan error, m.opts.NWorkers)
	dispatchedCh := make(chan int, 1)

	// stopCh halts the dispatcher when a worker hits a hard error and
	// can no longer drain the queue.
	stopCh := make(chan struct{})
	var stopOnce sync.Once
	stop := func() { stopOnce.Do(func() { close(stopCh) }) }

	go func() {
		dispatched := 0
		defer func() {
			close(batchQueue)
			dispatchedCh <- dispatched
		}()

		for _, batch := range batches {
			if abort.exceeded() {
				return
			}
			select {
			case batchQueue <- batch:
				dispatched++
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < m.opts.NWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for batch := range batchQueue {
				batchResult, err := m.single.Pull(ctx, batch)
				if err != nil {
					m.logger.Warn().
						Err(err).
						Int("worker_id", workerID).
						Int("n_ids", len(batch)).
						Msg("Worker stopping on pull error")
					select {
					case errCh <- err:
					default:
					}
					stop()
					return
				}
				results <- batchResult
			}
		}(i)
	}

	go func() {
		wg.Wait()
		close(results)
		close(errCh)
	}()

	result := NewResult()
	for batchResult := range results {
		result.Merge(batchResult)
		abort.record(batchResult)
	}

	dispatched := <-dispatchedCh
	if err := <-errCh; err != nil {
		return nil, err
	}
	if ctx.Err() != nil && dispatched < len(batches) {
		return nil, ctx.Err()
	}

	elapsed := time.Since(startTime)
	if dispatched < len(batches) {
		remaining := flattenBatches(batches[dispatched:])
		pullAbortsTotal.Inc()
		m.logger.Warn().
			Float64("unsuccessful_ratio", abort.ratio()).
			Float64("threshold", m.opts.AbortThreshold).
			Int("n_remaining", len(remaining)).
			Msg("Aborting pull: unsuccessful threshold crossed")
		return &Outcome{
			Result:    result,
			Elapsed:   elapsed,
			Aborted:   true,
			Remaining: remaining,
		}, nil
	}

	m.logger.Info().
		Int("n_successful", len(result.Successful())).
		Int("n_failed", len(result.Failed())).
		Int("n_timed_out", len(result.TimedOut())).
		Dur("duration", elapsed).
		Msg("Pull complete")

	return &Outcome{Result: result, Elapsed: elapsed}, nil
}
