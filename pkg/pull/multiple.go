package pull

import (
	"github.com/biocompute/kegg-pull/pkg/resturl"
)

// Options tunes a multiple pull. The zero value pulls sequentially in
// maximum-size batches with abort checking disabled.
type Options struct {
	// ForceSingleEntry restricts every batch to one entry ID. Set for
	// databases whose entries cannot be requested together (brite).
	ForceSingleEntry bool

	// AbortThreshold is the ratio of unsuccessful to total entry IDs
	// at which the pull aborts. Zero disables abort checking; other
	// values must be strictly between 0 and 1.
	AbortThreshold float64

	// NWorkers is the parallel pull's worker count. Zero selects
	// runtime.NumCPU(). Ignored by the sequential pull.
	NWorkers int
}

// groupSize returns the number of entry IDs per batch for an entry
// field: one when forced or when the field only supports single-entry
// requests, the request maximum otherwise.
func groupSize(entryField string, forceSingleEntry bool) int {
	if forceSingleEntry || resturl.CanOnlyPullOne(entryField) {
		return 1
	}
	return resturl.MaxEntryIDsPerURL
}

// groupEntryIDs partitions the input into contiguous batches of at
// most size IDs. Concatenating the batches in order reconstructs the
// input exactly.
func groupEntryIDs(entryIDs []string, size int) [][]string {
	batches := make([][]string, 0, (len(entryIDs)+size-1)/size)
	for start := 0; start < len(entryIDs); start += size {
		end := start + size
		if end > len(entryIDs) {
			end = len(entryIDs)
		}
		batches = append(batches, entryIDs[start:end])
	}
	return batches
}

// flattenBatches concatenates batches back into one ID list.
func flattenBatches(batches [][]string) []string {
	var out []string
	for _, batch := range batches {
		out = append(out, batch...)
	}
	return out
}
