package cache

import (
	"strings"
)

// Key identifies a cached KEGG response. KEGG requests are plain GETs
// with no headers that affect the body, so the request URL alone is a
// complete identity.
type Key struct {
	// URL is the full request URL.
	URL string
}

// String generates a deterministic cache key string.
// Format: kegg:<operation path>
//
// Example:
//
//	kegg:get/cpd:C00001+cpd:C00002
func (k Key) String() string {
	path := k.URL
	if i := strings.Index(path, "://"); i >= 0 {
		path = path[i+3:]
		if j := strings.Index(path, "/"); j >= 0 {
			path = path[j+1:]
		}
	}
	return "kegg:" + strings.Trim(path, "/")
}
