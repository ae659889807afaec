package integration

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/biocompute/kegg-pull/internal/testutil"
	"github.com/biocompute/kegg-pull/pkg/cache"
	"github.com/biocompute/kegg-pull/pkg/pull"
	"github.com/biocompute/kegg-pull/pkg/rest"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

func newCachedClient(t *testing.T, mock *testutil.MockKEGG, redisClient *redis.Client) *rest.Client {
	t.Helper()

	cfg := rest.DefaultConfig()
	cfg.Cache = cache.NewManager(redisClient, time.Hour)

	client, err := rest.New(cfg)
	if err != nil {
		t.Fatalf("rest.New() error = %v", err)
	}
	client.SetHTTPClient(mock.Client())
	return client
}

// TestCachedPullFlow runs a full pull twice: the first run hits the
// remote, the second is served entirely from Redis.
func TestCachedPullFlow(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockKEGG()
	defer mock.Close()

	ids := []string{"cpd:C00001", "cpd:C00002", "cpd:C00003"}
	mock.SetGetResponse(ids, "", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testutil.ConcatFlatFiles(ids...),
	})

	client := newCachedClient(t, mock, redisClient)

	runPull := func(dir string) *pull.Outcome {
		saver, err := pull.NewSaver(dir)
		if err != nil {
			t.Fatalf("NewSaver() error = %v", err)
		}
		defer saver.Close()

		multiple, err := pull.NewSequentialMultiplePull(pull.NewSinglePull(client, saver, ""), pull.Options{})
		if err != nil {
			t.Fatalf("NewSequentialMultiplePull() error = %v", err)
		}
		outcome, err := multiple.Pull(context.Background(), ids)
		if err != nil {
			t.Fatalf("Pull() error = %v", err)
		}
		return outcome
	}

	dir1 := t.TempDir()
	outcome1 := runPull(dir1)
	if len(outcome1.Result.Successful()) != 3 {
		t.Fatalf("first pull: successful = %v", outcome1.Result.Successful())
	}
	if mock.RequestCount() != 1 {
		t.Errorf("after first pull: requests = %d, want 1", mock.RequestCount())
	}

	// Second pull with a fresh output location: the response comes
	// from the cache, classification is identical.
	dir2 := t.TempDir()
	outcome2 := runPull(dir2)
	if len(outcome2.Result.Successful()) != 3 {
		t.Fatalf("second pull: successful = %v", outcome2.Result.Successful())
	}
	if mock.RequestCount() != 1 {
		t.Errorf("after second pull: requests = %d, want 1 (served from cache)", mock.RequestCount())
	}

	for _, dir := range []string{dir1, dir2} {
		for _, id := range ids {
			if _, err := os.Stat(filepath.Join(dir, id+".txt")); err != nil {
				t.Errorf("entry file %s missing in %s: %v", id, dir, err)
			}
		}
	}
}

// TestCacheEntryStored verifies the raw response lands in Redis under
// the URL-derived key with a TTL.
func TestCacheEntryStored(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockKEGG()
	defer mock.Close()

	body := testutil.ListBody("cpd:C00001", "cpd:C00002")
	mock.SetListResponse("compound", testutil.MockResponse{StatusCode: http.StatusOK, Body: body})

	client := newCachedClient(t, mock, redisClient)

	ctx := context.Background()
	resp, err := client.List(ctx, "compound")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if resp.Status != rest.StatusSuccess {
		t.Fatalf("Status = %v", resp.Status)
	}

	manager := cache.NewManager(redisClient, time.Hour)
	entry, err := manager.Get(ctx, cache.Key{URL: resp.URL})
	if err != nil {
		t.Fatalf("cache Get() error = %v", err)
	}
	if string(entry.Body) != body {
		t.Errorf("cached body = %q, want %q", entry.Body, body)
	}
	if entry.IsExpired() {
		t.Error("fresh cache entry reports expired")
	}
}

// TestUnsuccessfulResponsesNotCached verifies failed requests leave no
// cache entry, so a later retry reaches the remote.
func TestUnsuccessfulResponsesNotCached(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockKEGG()
	defer mock.Close()

	client := newCachedClient(t, mock, redisClient)

	ctx := context.Background()
	resp, err := client.Get(ctx, []string{"br:br03220"}, "")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.Status != rest.StatusFailed {
		t.Fatalf("Status = %v, want failed", resp.Status)
	}

	manager := cache.NewManager(redisClient, time.Hour)
	if _, err := manager.Get(ctx, cache.Key{URL: resp.URL}); err != cache.ErrCacheMiss {
		t.Errorf("cache Get() error = %v, want ErrCacheMiss", err)
	}

	if _, err := client.Get(ctx, []string{"br:br03220"}, ""); err != nil {
		t.Fatalf("second Get() error = %v", err)
	}
	if mock.RequestCount() != 2 {
		t.Errorf("requests = %d, want 2 (failure was not cached)", mock.RequestCount())
	}
}
