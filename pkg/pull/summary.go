package pull

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// SummaryFileName is the default name of the result-summary document
// written after a pull run.
const SummaryFileName = "pull-results.json"

// Summary is the persisted result of a pull run. A completed run
// carries the success percentage and the total; an aborted run omits
// those and instead carries the count and list of entry IDs that were
// never dispatched.
type Summary struct {
	PercentSuccess     *float64 `json:"percent-success,omitempty"`
	PullMinutes        float64  `json:"pull-minutes"`
	NumSuccessful      int      `json:"num-successful"`
	NumFailed          int      `json:"num-failed"`
	NumTimedOut        int      `json:"num-timed-out"`
	NumTotal           *int     `json:"num-total,omitempty"`
	NumRemaining       *int     `json:"num-remaining,omitempty"`
	SuccessfulEntryIDs []string `json:"successful-entry-ids"`
	FailedEntryIDs     []string `json:"failed-entry-ids"`
	TimedOutEntryIDs   []string `json:"timed-out-entry-ids"`
	RemainingEntryIDs  []string `json:"remaining-entry-ids,omitempty"`
}

// NewSummary builds the summary document for a pull outcome.
func NewSummary(outcome *Outcome) Summary {
	successful := outcome.Result.Successful()
	failed := outcome.Result.Failed()
	timedOut := outcome.Result.TimedOut()

	s := Summary{
		PullMinutes:        round2(outcome.Elapsed.Minutes()),
		NumSuccessful:      len(successful),
		NumFailed:          len(failed),
		NumTimedOut:        len(timedOut),
		SuccessfulEntryIDs: successful,
		FailedEntryIDs:     failed,
		TimedOutEntryIDs:   timedOut,
	}

	if outcome.Aborted {
		numRemaining := len(outcome.Remaining)
		s.NumRemaining = &numRemaining
		s.RemainingEntryIDs = outcome.Remaining
		return s
	}

	total := len(successful) + len(failed) + len(timedOut)
	s.NumTotal = &total
	percent := 0.0
	if total > 0 {
		percent = round2(float64(len(successful)) / float64(total) * 100)
	}
	s.PercentSuccess = &percent
	return s
}

// Write persists the summary as JSON at path.
func (s Summary) Write(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding pull summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing pull summary: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
