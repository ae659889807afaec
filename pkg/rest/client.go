// Package rest provides the KEGG REST API transport with bounded
// retries, timeout classification, and optional response caching.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/biocompute/kegg-pull/pkg/cache"
	"github.com/biocompute/kegg-pull/pkg/resturl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for KEGG request operations.
var (
	keggRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kegg_requests_total",
		Help: "Total KEGG requests by operation and final classification",
	}, []string{"operation", "status"})

	keggRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kegg_request_duration_seconds",
		Help:    "KEGG request duration in seconds by operation, including retries",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"operation"})

	keggRequestAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kegg_request_attempts_total",
		Help: "Individual HTTP attempts by operation, including retries",
	}, []string{"operation"})

	keggRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kegg_retry_exhausted_total",
		Help: "Requests whose tries all timed out, by operation",
	}, []string{"operation"})
)

// Config holds the client configuration.
type Config struct {
	// NTries is the number of attempts before a request is classified
	// as timed out. Must be at least 1.
	NTries int

	// Timeout is the per-attempt HTTP timeout.
	Timeout time.Duration

	// SleepTime is how long to wait after a timed-out attempt before
	// the next try.
	SleepTime time.Duration

	// Cache is an optional Redis-backed response cache. Nil disables
	// caching.
	Cache *cache.Manager
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		NTries:    3,
		Timeout:   60 * time.Second,
		SleepTime: 5 * time.Second,
	}
}

// Client issues single requests against the KEGG REST API.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// New creates a new KEGG REST client.
func New(cfg Config) (*Client, error) {
	if cfg.NTries < 1 {
		return nil, fmt.Errorf("n_tries must be at least 1 (got %d)", cfg.NTries)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive (got %v)", cfg.Timeout)
	}
	if cfg.SleepTime < 0 {
		return nil, fmt.Errorf("sleep_time must not be negative (got %v)", cfg.SleepTime)
	}

	logger := log.With().Str("component", "kegg-rest").Logger()

	return &Client{
		// No client-level timeout: each attempt carries its own
		// deadline from Config.Timeout.
		httpClient: &http.Client{},
		cache:      cfg.Cache,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Do performs a KEGG request with caching and the retry/timeout policy.
// The returned error reflects cancellation or caller mistakes only; remote
// failures and timeouts are classified on the Response.
func (c *Client) Do(ctx context.Context, rawURL, operation string) (*Response, error) {
	startTime := time.Now()
	defer func() {
		keggRequestDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}()

	if c.cache != nil {
		key := cache.Key{URL: rawURL}
		entry, err := c.cache.Get(ctx, key)
		if err == nil {
			c.logger.Debug().
				Str("operation", operation).
				Str("url", rawURL).
				Msg("Cache hit")
			return &Response{
				Status: StatusSuccess,
				URL:    rawURL,
				Body:   entry.Body,
				Text:   string(entry.Body),
			}, nil
		}
		if err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("url", rawURL).Msg("Cache get error")
		}
	}

	resp, err := c.requestWithRetry(ctx, rawURL, operation)
	if err != nil {
		return nil, err
	}

	if resp.Status == StatusSuccess && c.cache != nil {
		if err := c.cache.Set(ctx, cache.Key{URL: rawURL}, resp.Body); err != nil {
			c.logger.Warn().Err(err).Str("url", rawURL).Msg("Failed to cache response")
		}
	}

	return resp, nil
}

// List requests the entry IDs of a database.
func (c *Client) List(ctx context.Context, database string) (*Response, error) {
	u, err := resturl.List(database)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, u.String(), u.Operation())
}

// Info requests information about a database.
func (c *Client) Info(ctx context.Context, database string) (*Response, error) {
	u, err := resturl.Info(database)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, u.String(), u.Operation())
}

// Get requests the entries for the given IDs, optionally in an
// alternate entry-field representation.
func (c *Client) Get(ctx context.Context, entryIDs []string, entryField string) (*Response, error) {
	u, err := resturl.Get(entryIDs, entryField)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, u.String(), u.Operation())
}

// KeywordsFind searches a database for entries matching keywords.
func (c *Client) KeywordsFind(ctx context.Context, database string, keywords []string) (*Response, error) {
	u, err := resturl.KeywordsFind(database, keywords)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, u.String(), u.Operation())
}

// MolecularFind searches a database by chemical formula, exact mass, or
// molecular weight.
func (c *Client) MolecularFind(ctx context.Context, database, formula string, exactMass, molecularWeight []float64) (*Response, error) {
	u, err := resturl.MolecularFind(database, formula, exactMass, molecularWeight)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, u.String(), u.Operation())
}

// DatabaseConv converts all entry IDs between a KEGG database and an
// outside database.
func (c *Client) DatabaseConv(ctx context.Context, keggDatabase, outsideDatabase string) (*Response, error) {
	u, err := resturl.DatabaseConv(keggDatabase, outsideDatabase)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, u.String(), u.Operation())
}

// EntriesConv converts the given entry IDs to the target database.
func (c *Client) EntriesConv(ctx context.Context, targetDatabase string, entryIDs []string) (*Response, error) {
	u, err := resturl.EntriesConv(targetDatabase, entryIDs)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, u.String(), u.Operation())
}

// DatabaseLink finds cross-references between two databases.
func (c *Client) DatabaseLink(ctx context.Context, targetDatabase, sourceDatabase string) (*Response, error) {
	u, err := resturl.DatabaseLink(targetDatabase, sourceDatabase)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, u.String(), u.Operation())
}

// EntriesLink finds cross-references for the given entry IDs in the
// target database.
func (c *Client) EntriesLink(ctx context.Context, targetDatabase string, entryIDs []string) (*Response, error) {
	u, err := resturl.EntriesLink(targetDatabase, entryIDs)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, u.String(), u.Operation())
}

// Ddi checks drug-drug interactions for the given drug entry IDs.
func (c *Client) Ddi(ctx context.Context, drugEntryIDs []string) (*Response, error) {
	u, err := resturl.Ddi(drugEntryIDs)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, u.String(), u.Operation())
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
