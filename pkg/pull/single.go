package pull

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/biocompute/kegg-pull/pkg/rest"
	"github.com/biocompute/kegg-pull/pkg/resturl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for pull progress.
var (
	pullEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kegg_pull_entries_total",
		Help: "Entry IDs classified during pulls, by final status",
	}, []string{"status"})

	pullBatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kegg_pull_batches_total",
		Help: "Batches pulled",
	})

	pullBatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kegg_pull_batch_duration_seconds",
		Help:    "Duration of one batch pull including retries and saving",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 180},
	})

	pullAbortsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kegg_pull_aborts_total",
		Help: "Pulls aborted by the unsuccessful threshold",
	})
)

// ErrBatchTooLarge is returned when a batch exceeds the maximum number
// of entry IDs its request can carry. The check runs before any
// network call.
var ErrBatchTooLarge = errors.New("batch exceeds the maximum entry IDs per request")

// SinglePull pulls one batch of entry IDs: it requests them in a
// single get call, splits the response into per-entry segments, saves
// each entry, and classifies every ID.
type SinglePull struct {
	client     *rest.Client
	saver      Saver
	entryField string
	logger     zerolog.Logger
}

// NewSinglePull creates a batch puller. entryField may be "" for the
// default flat-file form.
func NewSinglePull(client *rest.Client, saver Saver, entryField string) *SinglePull {
	return &SinglePull{
		client:     client,
		saver:      saver,
		entryField: entryField,
		logger:     log.With().Str("component", "kegg-pull").Logger(),
	}
}

// EntryField returns the configured entry field.
func (p *SinglePull) EntryField() string { return p.entryField }

// maxBatchSize returns the largest batch Pull accepts for the
// configured entry field.
func (p *SinglePull) maxBatchSize() int {
	if resturl.CanOnlyPullOne(p.entryField) {
		return 1
	}
	return resturl.MaxEntryIDsPerURL
}

// Pull requests one batch and classifies every entry ID in it. Batch
// size is validated before any network call. The returned error
// reflects validation mistakes, cancellation, or save failures; remote
// failures and timeouts are classified on the Result instead.
func (p *SinglePull) Pull(ctx context.Context, entryIDs []string) (*Result, error) {
	if len(entryIDs) > p.maxBatchSize() {
		return nil, fmt.Errorf("%w: %d entry IDs with a maximum of %d", ErrBatchTooLarge, len(entryIDs), p.maxBatchSize())
	}

	startTime := time.Now()
	defer func() {
		pullBatchesTotal.Inc()
		pullBatchDuration.Observe(time.Since(startTime).Seconds())
	}()

	resp, err := p.client.Get(ctx, entryIDs, p.entryField)
	if err != nil {
		return nil, err
	}

	result := NewResult()

	if resp.Status != rest.StatusSuccess {
		// The remote does not return partial failures: an unsuccessful
		// request applies to every ID in the batch.
		result.Add(resp.Status, entryIDs...)
		pullEntriesTotal.WithLabelValues(resp.Status.String()).Add(float64(len(entryIDs)))
		p.logger.Warn().
			Str("status", resp.Status.String()).
			Int("n_ids", len(entryIDs)).
			Str("url", resp.URL).
			Msg("Batch pull unsuccessful")
		return result, nil
	}

	if len(entryIDs) == 1 {
		if err := p.saveSingle(entryIDs[0], resp, result); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := p.saveMulti(entryIDs, resp, result); err != nil {
		return nil, err
	}
	return result, nil
}

// saveSingle persists a single-entry response body as-is. Binary
// fields save the raw bytes.
func (p *SinglePull) saveSingle(entryID string, resp *rest.Response, result *Result) error {
	entry := resp.Body
	if !resturl.IsBinary(p.entryField) {
		entry = []byte(resp.Text)
	}

	if err := p.saver.Save(entryID, entry, p.entryField); err != nil {
		return err
	}
	result.Add(rest.StatusSuccess, entryID)
	pullEntriesTotal.WithLabelValues(rest.StatusSuccess.String()).Inc()
	return nil
}

// saveMulti splits a multi-entry response, saves the entries found,
// and classifies IDs missing from the split as failed.
func (p *SinglePull) saveMulti(entryIDs []string, resp *rest.Response, result *Result) error {
	entries := Separate(resp.Text, p.entryField)
	matched, missing := MatchEntries(entries, entryIDs)

	for _, entryID := range entryIDs {
		entry, ok := matched[entryID]
		if !ok {
			continue
		}
		if err := p.saver.Save(entryID, []byte(entry), p.entryField); err != nil {
			return err
		}
		result.Add(rest.StatusSuccess, entryID)
	}
	pullEntriesTotal.WithLabelValues(rest.StatusSuccess.String()).Add(float64(len(matched)))

	if len(missing) > 0 {
		result.Add(rest.StatusFailed, missing...)
		pullEntriesTotal.WithLabelValues(rest.StatusFailed.String()).Add(float64(len(missing)))
		p.logger.Warn().
			Strs("entry_ids", missing).
			Str("url", resp.URL).
			Msg("Entries missing from response body")
	}
	return nil
}
