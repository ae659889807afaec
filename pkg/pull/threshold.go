package pull

import (
	"fmt"
	"sync"
)

// abortState tracks the ratio of unsuccessful entry IDs to total input
// IDs and reports when the configured threshold is crossed. A zero
// threshold disables abort checking. Safe for concurrent use so the
// parallel pull can record from its merge loop while the dispatcher
// polls Exceeded.
type abortState struct {
	mu           sync.Mutex
	threshold    float64
	total        int
	unsuccessful int
}

// newAbortState validates the threshold and creates the state for a
// pull of total entry IDs. Valid thresholds are strictly between 0 and
// 1; zero means never abort.
func newAbortState(threshold float64, total int) (*abortState, error) {
	if threshold != 0 && (threshold <= 0 || threshold >= 1) {
		return nil, fmt.Errorf("unsuccessful threshold must be between 0.0 and 1.0 non-inclusive (got %v)", threshold)
	}
	return &abortState{threshold: threshold, total: total}, nil
}

// enabled reports whether abort checking is active.
func (s *abortState) enabled() bool {
	return s.threshold != 0
}

// record adds a batch's unsuccessful count.
func (s *abortState) record(result *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsuccessful += result.Unsuccessful()
}

// ratio returns the current unsuccessful-to-total ratio.
func (s *abortState) ratio() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.total == 0 {
		return 0
	}
	return float64(s.unsuccessful) / float64(s.total)
}

// exceeded reports whether the pull should abort.
func (s *abortState) exceeded() bool {
	return s.enabled() && s.ratio() >= s.threshold
}
