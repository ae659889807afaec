// Package pull orchestrates batched KEGG entry pulls: grouping entry
// IDs into batches, requesting them through the REST client, splitting
// multi-entry responses, saving entries, and classifying every input
// ID as successful, failed, or timed out.
package pull

import (
	"sync"
	"time"

	"github.com/biocompute/kegg-pull/pkg/rest"
)

// Result accumulates the classification of every pulled entry ID.
// The three sets are disjoint and, for a non-aborted pull, their union
// equals the input ID list. Safe for concurrent use.
type Result struct {
	mu         sync.Mutex
	successful []string
	failed     []string
	timedOut   []string
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{}
}

// Add classifies entry IDs under the given response status.
func (r *Result) Add(status rest.Status, entryIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch status {
	case rest.StatusSuccess:
		r.successful = append(r.successful, entryIDs...)
	case rest.StatusFailed:
		r.failed = append(r.failed, entryIDs...)
	default:
		r.timedOut = append(r.timedOut, entryIDs...)
	}
}

// Merge folds another Result into this one. Merging is commutative and
// associative over the classification sets, so partial results from
// re-ordered batch partitions merge to the same final content.
func (r *Result) Merge(other *Result) {
	successful := other.Successful()
	failed := other.Failed()
	timedOut := other.TimedOut()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.successful = append(r.successful, successful...)
	r.failed = append(r.failed, failed...)
	r.timedOut = append(r.timedOut, timedOut...)
}

// Successful returns a copy of the successfully pulled entry IDs.
func (r *Result) Successful() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyIDs(r.successful)
}

// Failed returns a copy of the failed entry IDs.
func (r *Result) Failed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyIDs(r.failed)
}

// TimedOut returns a copy of the timed-out entry IDs.
func (r *Result) TimedOut() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyIDs(r.timedOut)
}

// Total returns the number of classified entry IDs.
func (r *Result) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.successful) + len(r.failed) + len(r.timedOut)
}

// Unsuccessful returns the number of failed plus timed-out entry IDs.
func (r *Result) Unsuccessful() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failed) + len(r.timedOut)
}

func copyIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Outcome is the finalized product of a multiple pull: the merged
// Result, the elapsed wall time, and, when the unsuccessful threshold
// aborted the run, the entry IDs that were never dispatched.
type Outcome struct {
	Result    *Result
	Elapsed   time.Duration
	Aborted   bool
	Remaining []string
}
