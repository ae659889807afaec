// Package pathway flattens the KEGG pathways Brite hierarchy into a
// mapping of node keys to node information, so pathway maps can be
// combined with other KEGG data.
package pathway

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/biocompute/kegg-pull/pkg/rest"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// HierarchyEntryID is the Brite entry holding the pathways hierarchy.
const HierarchyEntryID = "br:br08901"

// Node describes one node of the flattened hierarchy. Leaf nodes carry
// the entry ID of a pathway map; interior nodes carry the keys of
// their children.
type Node struct {
	Name     string   `json:"name"`
	Level    int      `json:"level"`
	Parent   string   `json:"parent,omitempty"`
	Children []string `json:"children,omitempty"`
	EntryID  string   `json:"entry-id,omitempty"`
}

// HierarchyNodes maps a node key to its node. The key is the pathway
// entry ID for leaf nodes and the node name otherwise.
type HierarchyNodes map[string]Node

// Organizer pulls and flattens the pathways Brite hierarchy.
type Organizer struct {
	client *rest.Client
	logger zerolog.Logger
}

// NewOrganizer creates an organizer backed by the given client.
func NewOrganizer(client *rest.Client) *Organizer {
	return &Organizer{
		client: client,
		logger: log.With().Str("component", "kegg-pathway").Logger(),
	}
}

// briteNode mirrors the JSON form of a Brite hierarchy node.
type briteNode struct {
	Name     string      `json:"name"`
	Children []briteNode `json:"children"`
}

// LoadFromKEGG pulls the pathways Brite hierarchy and flattens it.
// topLevelNodes selects names in the highest level to traverse (all
// when empty); unrecognized names are logged and ignored. filterNodes
// names nodes to exclude along with their children.
func (o *Organizer) LoadFromKEGG(ctx context.Context, topLevelNodes, filterNodes []string) (HierarchyNodes, error) {
	resp, err := o.client.Get(ctx, []string{HierarchyEntryID}, "json")
	if err != nil {
		return nil, err
	}
	switch resp.Status {
	case rest.StatusSuccess:
	case rest.StatusTimeout:
		return nil, fmt.Errorf("request timed out while pulling the %s hierarchy", HierarchyEntryID)
	default:
		return nil, fmt.Errorf("request failed while pulling the %s hierarchy", HierarchyEntryID)
	}

	var hierarchy briteNode
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Text)), &hierarchy); err != nil {
		return nil, fmt.Errorf("parsing the %s hierarchy: %w", HierarchyEntryID, err)
	}

	topLevel := hierarchy.Children
	if len(topLevelNodes) > 0 {
		topLevel = o.selectTopLevel(topLevel, topLevelNodes)
	}

	filter := make(map[string]bool, len(filterNodes))
	for _, name := range filterNodes {
		filter[name] = true
	}

	nodes := make(HierarchyNodes)
	if _, err := addBranch(nodes, topLevel, 1, "", filter); err != nil {
		return nil, err
	}

	o.logger.Info().
		Int("n_nodes", len(nodes)).
		Msg("Flattened the pathways hierarchy")
	return nodes, nil
}

// selectTopLevel keeps the top level nodes whose names were requested,
// warning about names the hierarchy does not contain.
func (o *Organizer) selectTopLevel(topLevel []briteNode, names []string) []briteNode {
	valid := make(map[string]bool, len(topLevel))
	for _, node := range topLevel {
		valid[node.Name] = true
	}
	requested := make(map[string]bool, len(names))
	for _, name := range names {
		if !valid[name] {
			o.logger.Warn().
				Str("node_name", name).
				Msg("Top level node name not recognized and will be ignored")
			continue
		}
		requested[name] = true
	}

	selected := make([]briteNode, 0, len(requested))
	for _, node := range topLevel {
		if requested[node.Name] {
			selected = append(selected, node)
		}
	}
	return selected
}

// addBranch recursively adds a branch of the hierarchy, returning the
// keys of the nodes added at this level. Filtered nodes and their
// children are skipped.
func addBranch(nodes HierarchyNodes, branch []briteNode, level int, parent string, filter map[string]bool) ([]string, error) {
	var keys []string
	for _, node := range branch {
		if filter[node.Name] {
			continue
		}

		var key string
		if len(node.Children) > 0 {
			childKeys, err := addBranch(nodes, node.Children, level+1, node.Name, filter)
			if err != nil {
				return nil, err
			}
			sort.Strings(childKeys)
			key = node.Name
			if err := addNode(nodes, key, Node{
				Name:     node.Name,
				Level:    level,
				Parent:   parent,
				Children: childKeys,
			}); err != nil {
				return nil, err
			}
		} else {
			// Leaf names start with the bare pathway map number.
			entryID := "path:map" + strings.SplitN(node.Name, " ", 2)[0]
			key = entryID
			if err := addNode(nodes, key, Node{
				Name:    node.Name,
				Level:   level,
				Parent:  parent,
				EntryID: entryID,
			}); err != nil {
				return nil, err
			}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func addNode(nodes HierarchyNodes, key string, node Node) error {
	if _, exists := nodes[key]; exists {
		return fmt.Errorf("duplicate hierarchy node key %q", key)
	}
	nodes[key] = node
	return nil
}
