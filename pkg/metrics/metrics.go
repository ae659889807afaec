// Package metrics provides the centralized Prometheus metrics registry for
// the KEGG pull client. All metrics are defined in their respective packages
// (rest, cache, pull) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/rest):
//   - kegg_requests_total{operation, status} (Counter): Requests by API operation and classification
//   - kegg_request_duration_seconds{operation} (Histogram): Request duration by operation
//   - kegg_request_attempts_total{operation} (Counter): Individual HTTP attempts including retries
//   - kegg_retry_exhausted_total{operation} (Counter): Requests whose tries all timed out
//
// Cache Metrics (pkg/cache):
//   - kegg_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - kegg_cache_misses_total (Counter): Cache misses
//   - kegg_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - kegg_cache_errors_total{operation} (Counter): Cache operation errors
//
// Pull Metrics (pkg/pull):
//   - kegg_pull_entries_total{status} (Counter): Entry IDs classified by pull outcome
//   - kegg_pull_batches_total (Counter): Batches dispatched
//   - kegg_pull_batch_duration_seconds (Histogram): Single-batch pull duration
//   - kegg_pull_aborts_total (Counter): Pulls aborted by the unsuccessful threshold
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(kegg_cache_hits_total[5m])) /
//   (sum(rate(kegg_cache_hits_total[5m])) + sum(rate(kegg_cache_misses_total[5m])))
//
//   # Timeout Rate
//   rate(kegg_requests_total{status="timeout"}[5m]) / rate(kegg_requests_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(kegg_request_duration_seconds_bucket[5m]))
//
//   # Unsuccessful Entry Fraction
//   sum(rate(kegg_pull_entries_total{status!="success"}[5m])) /
//   sum(rate(kegg_pull_entries_total[5m]))
