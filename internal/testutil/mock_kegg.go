// Package testutil provides testing utilities for the KEGG pull client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock KEGG endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Delay      time.Duration
}

// MockKEGG is a configurable mock KEGG REST server for testing.
type MockKEGG struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	requestCount int
	pathCounts   map[string]int
}

// NewMockKEGG creates a new mock KEGG server. Paths with no configured
// handler respond 404, which the client classifies as failed.
func NewMockKEGG() *MockKEGG {
	mock := &MockKEGG{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		pathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.pathCounts[r.URL.Path]++
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockKEGG) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockKEGG) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockKEGG) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.pathCounts = make(map[string]int)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockKEGG) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockKEGG) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetGetResponse configures the response for a get request of the given
// entry IDs and optional entry field.
func (m *MockKEGG) SetGetResponse(entryIDs []string, entryField string, resp MockResponse) {
	path := "/get/" + strings.Join(entryIDs, "+")
	if entryField != "" {
		path += "/" + entryField
	}
	m.SetResponse(path, resp)
}

// SetListResponse configures the response for a list request.
func (m *MockKEGG) SetListResponse(database string, resp MockResponse) {
	m.SetResponse("/list/"+database, resp)
}

// RequestCount returns the number of requests made to the server.
func (m *MockKEGG) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// PathRequestCount returns the number of requests made to one path.
func (m *MockKEGG) PathRequestCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pathCounts[path]
}

// Client returns an HTTP client that redirects rest.kegg.jp requests to
// the mock server.
func (m *MockKEGG) Client() *http.Client {
	return &http.Client{
		Transport: &redirectTransport{mockURL: m.server.URL},
	}
}

// redirectTransport rewrites outbound KEGG requests to the mock server.
type redirectTransport struct {
	mockURL string
}

func (t *redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = strings.TrimPrefix(t.mockURL, "http://")
	return http.DefaultTransport.RoundTrip(req)
}

// FlatFileEntry builds a minimal KEGG flat-file entry for an entry ID.
// The bare ID (after the database prefix) appears on the ENTRY line, as
// in real responses.
func FlatFileEntry(entryID string) string {
	bare := entryID
	if i := strings.Index(entryID, ":"); i >= 0 {
		bare = entryID[i+1:]
	}
	return fmt.Sprintf("ENTRY       %s                      Test\nNAME        %s\n", bare, entryID)
}

// ConcatFlatFiles builds a multi-entry get response body in KEGG's
// concatenated flat-file format, one entry per ID terminated by ///.
func ConcatFlatFiles(entryIDs ...string) string {
	var b strings.Builder
	for _, id := range entryIDs {
		b.WriteString(FlatFileEntry(id))
		b.WriteString("///\n")
	}
	return b.String()
}

// ListBody builds a list response body mapping each entry ID to a name
// column, as returned by the list operation.
func ListBody(entryIDs ...string) string {
	var b strings.Builder
	for _, id := range entryIDs {
		b.WriteString(id)
		b.WriteString("\tsome name\n")
	}
	return b.String()
}
