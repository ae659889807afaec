// Package mapping converts the output of the KEGG link and conv
// operations into cross-reference mappings of entry IDs from one
// database to the IDs of related entries.
package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Mapping maps an entry ID to the set of related entry IDs.
type Mapping map[string]map[string]bool

// Add inserts related IDs into the set mapped from key.
func (m Mapping) Add(key string, relatedIDs ...string) {
	set, ok := m[key]
	if !ok {
		set = make(map[string]bool, len(relatedIDs))
		m[key] = set
	}
	for _, id := range relatedIDs {
		set[id] = true
	}
}

// RelatedIDs returns the IDs mapped from key, sorted.
func (m Mapping) RelatedIDs(key string) []string {
	ids := make([]string, 0, len(m[key]))
	for id := range m[key] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Combine merges two mappings. Sets sharing a key are unioned.
func Combine(a, b Mapping) Mapping {
	combined := make(Mapping, len(a)+len(b))
	for key, set := range a {
		combined.Add(key, setToSlice(set)...)
	}
	for key, set := range b {
		combined.Add(key, setToSlice(set)...)
	}
	return combined
}

// Reverse turns values into keys and keys into values.
func Reverse(m Mapping) Mapping {
	reversed := make(Mapping, len(m))
	for key, set := range m {
		for id := range set {
			reversed.Add(id, key)
		}
	}
	return reversed
}

func setToSlice(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// ToJSON renders the mapping as an indented JSON object with each
// related ID list sorted, so output is deterministic.
func (m Mapping) ToJSON() ([]byte, error) {
	out := make(map[string][]string, len(m))
	for key, set := range m {
		if key == "" {
			return nil, fmt.Errorf("mapping contains an empty entry ID key")
		}
		if len(set) == 0 {
			return nil, fmt.Errorf("entry ID %q maps to no related IDs", key)
		}
		ids := setToSlice(set)
		sort.Strings(ids)
		out[key] = ids
	}
	return json.MarshalIndent(out, "", "  ")
}

// Save writes the mapping to a JSON file.
func (m Mapping) Save(path string) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("saving mapping to %s: %w", path, err)
	}
	return nil
}

// Load reads a mapping from a JSON file written by Save. Empty keys,
// empty ID lists, and empty IDs are rejected.
func Load(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading mapping from %s: %w", path, err)
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing mapping file %s: %w", path, err)
	}

	m := make(Mapping, len(raw))
	for key, ids := range raw {
		if key == "" {
			return nil, fmt.Errorf("mapping file %s contains an empty entry ID key", path)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("mapping file %s: entry ID %q maps to no related IDs", path, key)
		}
		for _, id := range ids {
			if id == "" {
				return nil, fmt.Errorf("mapping file %s: entry ID %q maps to an empty ID", path, key)
			}
		}
		m.Add(key, ids...)
	}
	return m, nil
}
