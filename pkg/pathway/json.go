package pathway

import (
	"encoding/json"
	"fmt"
	"os"
)

// ToJSON renders the hierarchy nodes as an indented JSON object.
func (h HierarchyNodes) ToJSON() ([]byte, error) {
	return json.MarshalIndent(h, "", "  ")
}

// Save writes the hierarchy nodes to a JSON file.
func (h HierarchyNodes) Save(path string) error {
	data, err := h.ToJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("saving hierarchy nodes to %s: %w", path, err)
	}
	return nil
}

// Load reads hierarchy nodes from a JSON file written by Save. Files
// with empty keys, empty names, or non-positive levels are rejected as
// corrupted and need to be re-created.
func Load(path string) (HierarchyNodes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading hierarchy nodes from %s: %w", path, err)
	}

	var nodes HierarchyNodes
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("parsing hierarchy nodes file %s: %w", path, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("hierarchy nodes file %s contains no nodes", path)
	}
	for key, node := range nodes {
		if key == "" {
			return nil, fmt.Errorf("hierarchy nodes file %s contains an empty node key", path)
		}
		if node.Name == "" {
			return nil, fmt.Errorf("hierarchy nodes file %s: node %q has no name", path, key)
		}
		if node.Level < 1 {
			return nil, fmt.Errorf("hierarchy nodes file %s: node %q has invalid level %d", path, key, node.Level)
		}
	}
	return nodes, nil
}
