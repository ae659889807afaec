package pull

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/biocompute/kegg-pull/internal/testutil"
	"github.com/biocompute/kegg-pull/pkg/rest"
)

func compoundIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("cpd:C%05d", i+1)
	}
	return ids
}

func TestSequentialMultiplePull_BatchesOfTen(t *testing.T) {
	mock := testutil.NewMockKEGG()
	defer mock.Close()

	ids := compoundIDs(11)
	mock.SetGetResponse(ids[:10], "", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testutil.ConcatFlatFiles(ids[:10]...),
	})
	mock.SetGetResponse(ids[10:], "", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testutil.ConcatFlatFiles(ids[10:]...),
	})

	single, _ := newTestSinglePull(t, mock, rest.DefaultConfig(), "")
	multiple, err := NewSequentialMultiplePull(single, Options{})
	if err != nil {
		t.Fatalf("NewSequentialMultiplePull() error = %v", err)
	}

	outcome, err := multiple.Pull(context.Background(), ids)
	if err != nil {
		t.Fatalf("Pull() error = %v", err)
	}
	if outcome.Aborted {
		t.Fatal("Aborted = true for a clean run")
	}
	if !equalSets(outcome.Result.Successful(), ids) {
		t.Errorf("Successful() = %v, want all %d IDs", outcome.Result.Successful(), len(ids))
	}
	if mock.RequestCount() != 2 {
		t.Errorf("RequestCount = %d, want exactly 2 batches", mock.RequestCount())
	}
}

func TestSequentialMultiplePull_ForceSingleEntry(t *testing.T) {
	mock := testutil.NewMockKEGG()
	defer mock.Close()

	ids := compoundIDs(3)
	for _, id := range ids {
		mock.SetGetResponse([]string{id}, "", testutil.MockResponse{
			StatusCode: http.StatusOK,
			Body:       testutil.ConcatFlatFiles(id),
		})
	}

	single, _ := newTestSinglePull(t, mock, rest.DefaultConfig(), "")
	multiple, err := NewSequentialMultiplePull(single, Options{ForceSingleEntry: true})
	if err != nil {
		t.Fatalf("NewSequentialMultiplePull() error = %v", err)
	}

	outcome, err := multiple.Pull(context.Background(), ids)
	if err != nil {
		t.Fatalf("Pull() error = %v", err)
	}
	if !equalSets(outcome.Result.Successful(), ids) {
		t.Errorf("Successful() = %v", outcome.Result.Successful())
	}
	if mock.RequestCount() != 3 {
		t.Errorf("RequestCount = %d, want 3 single-entry batches", mock.RequestCount())
	}
}

func TestSequentialMultiplePull_ClassificationPartition(t *testing.T) {
	mock := testutil.NewMockKEGG()
	defer mock.Close()

	// One succeeding single-entry batch, one failing (no handler).
	mock.SetGetResponse([]string{"cpd:C00001"}, "", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testutil.ConcatFlatFiles("cpd:C00001"),
	})

	single, _ := newTestSinglePull(t, mock, rest.DefaultConfig(), "")
	multiple, err := NewSequentialMultiplePull(single, Options{ForceSingleEntry: true})
	if err != nil {
		t.Fatalf("NewSequentialMultiplePull() error = %v", err)
	}

	ids := []string{"cpd:C00001", "br:br03220"}
	outcome, err := multiple.Pull(context.Background(), ids)
	if err != nil {
		t.Fatalf("Pull() error = %v", err)
	}

	classified := append(outcome.Result.Successful(), outcome.Result.Failed()...)
	classified = append(classified, outcome.Result.TimedOut()...)
	if !equalSets(classified, ids) {
		t.Errorf("classified = %v, want partition of %v", classified, ids)
	}
	if !equalSets(outcome.Result.Failed(), []string{"br:br03220"}) {
		t.Errorf("Failed() = %v", outcome.Result.Failed())
	}
}

func TestSequentialMultiplePull_AbortsOnThreshold(t *testing.T) {
	mock := testutil.NewMockKEGG()
	defer mock.Close()

	// No handlers: every batch fails.
	single, _ := newTestSinglePull(t, mock, rest.DefaultConfig(), "")
	multiple, err := NewSequentialMultiplePull(single, Options{
		ForceSingleEntry: true,
		AbortThreshold:   0.5,
	})
	if err != nil {
		t.Fatalf("NewSequentialMultiplePull() error = %v", err)
	}

	ids := compoundIDs(4)
	outcome, err := multiple.Pull(context.Background(), ids)
	if err != nil {
		t.Fatalf("Pull() error = %v", err)
	}
	if !outcome.Aborted {
		t.Fatal("Aborted = false, want true")
	}
	// Ratio crosses 0.5 after the second failed batch.
	if !equalSets(outcome.Result.Failed(), ids[:2]) {
		t.Errorf("Failed() = %v, want %v", outcome.Result.Failed(), ids[:2])
	}
	if !equalSets(outcome.Remaining, ids[2:]) {
		t.Errorf("Remaining = %v, want %v", outcome.Remaining, ids[2:])
	}
	if mock.RequestCount() != 2 {
		t.Errorf("RequestCount = %d, want 2 (no dispatch past the abort point)", mock.RequestCount())
	}
}

func TestNewSequentialMultiplePull_InvalidThreshold(t *testing.T) {
	mock := testutil.NewMockKEGG()
	defer mock.Close()

	single, _ := newTestSinglePull(t, mock, rest.DefaultConfig(), "")
	if _, err := NewSequentialMultiplePull(single, Options{AbortThreshold: 1.2}); err == nil {
		t.Error("expected error for threshold above 1")
	}
}

func TestGroupEntryIDs(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		size     int
		expected []int
	}{
		{name: "exact multiple", n: 20, size: 10, expected: []int{10, 10}},
		{name: "remainder", n: 11, size: 10, expected: []int{10, 1}},
		{name: "single group", n: 3, size: 10, expected: []int{3}},
		{name: "size one", n: 3, size: 1, expected: []int{1, 1, 1}},
		{name: "empty", n: 0, size: 10, expected: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := compoundIDs(tt.n)
			batches := groupEntryIDs(ids, tt.size)
			if len(batches) != len(tt.expected) {
				t.Fatalf("got %d batches, want %d", len(batches), len(tt.expected))
			}
			for i, batch := range batches {
				if len(batch) != tt.expected[i] {
					t.Errorf("batch %d has %d IDs, want %d", i, len(batch), tt.expected[i])
				}
			}
			if !equalSets(flattenBatches(batches), ids) {
				t.Error("flattened batches do not reconstruct the input")
			}
		})
	}
}

func TestGroupSize(t *testing.T) {
	tests := []struct {
		name             string
		entryField       string
		forceSingleEntry bool
		expected         int
	}{
		{name: "default", entryField: "", expected: 10},
		{name: "multi-capable field", entryField: "mol", expected: 10},
		{name: "single-entry field", entryField: "image", expected: 1},
		{name: "forced", entryField: "", forceSingleEntry: true, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := groupSize(tt.entryField, tt.forceSingleEntry); got != tt.expected {
				t.Errorf("groupSize(%q, %v) = %d, want %d", tt.entryField, tt.forceSingleEntry, got, tt.expected)
			}
		})
	}
}
