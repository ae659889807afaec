// Package cache provides optional caching of KEGG response bodies with a
// Redis backend.
//
// KEGG serves plain text over GET with no ETag or Expires headers, so the
// cache is purely TTL-based: successful response bodies are stored under a
// key derived from the request URL and evicted after a client-configured
// lifetime. This makes repeated pulls of stable databases (pathway, brite
// hierarchies, compound lists) cheap and polite to the remote service.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient, 12*time.Hour)
//
//	key := cache.Key{URL: "https://rest.kegg.jp/get/cpd:C00001"}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from KEGG, then:
//		_ = manager.Set(ctx, key, body)
//	}
//
// The rest client consults the manager transparently when one is supplied
// in its configuration; most callers never use this package directly.
package cache
