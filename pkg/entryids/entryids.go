// Package entryids discovers the entry IDs to pull, either from the
// KEGG REST API (whole database, keyword search, molecular attribute
// search) or from local input (file, comma-separated list).
package entryids

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/biocompute/kegg-pull/pkg/rest"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Getter fetches entry ID lists from the KEGG REST API.
type Getter struct {
	client *rest.Client
	logger zerolog.Logger
}

// NewGetter creates an entry ID getter backed by the given client.
func NewGetter(client *rest.Client) *Getter {
	return &Getter{
		client: client,
		logger: log.With().Str("component", "kegg-entryids").Logger(),
	}
}

// FromDatabase returns every entry ID of a database.
func (g *Getter) FromDatabase(ctx context.Context, database string) ([]string, error) {
	resp, err := g.client.List(ctx, database)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, fmt.Sprintf("listing the %s database", database)); err != nil {
		return nil, err
	}

	ids := ParseList(resp.Text)
	g.logger.Info().
		Str("database", database).
		Int("n_ids", len(ids)).
		Msg("Fetched database entry IDs")
	return ids, nil
}

// FromKeywords returns the entry IDs of a database matching keywords.
func (g *Getter) FromKeywords(ctx context.Context, database string, keywords []string) ([]string, error) {
	resp, err := g.client.KeywordsFind(ctx, database, keywords)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, fmt.Sprintf("searching the %s database by keywords", database)); err != nil {
		return nil, err
	}
	return ParseList(resp.Text), nil
}

// FromMolecularAttribute returns the entry IDs of a database matching
// a chemical formula, exact mass, or molecular weight.
func (g *Getter) FromMolecularAttribute(ctx context.Context, database, formula string, exactMass, molecularWeight []float64) ([]string, error) {
	resp, err := g.client.MolecularFind(ctx, database, formula, exactMass, molecularWeight)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, fmt.Sprintf("searching the %s database by molecular attribute", database)); err != nil {
		return nil, err
	}
	return ParseList(resp.Text), nil
}

// checkStatus converts an unsuccessful response into an error. ID
// discovery has no per-ID classification to fall back on, so failures
// here are fatal.
func checkStatus(resp *rest.Response, action string) error {
	switch resp.Status {
	case rest.StatusSuccess:
		return nil
	case rest.StatusTimeout:
		return fmt.Errorf("request timed out while %s", action)
	default:
		return fmt.Errorf("request failed while %s", action)
	}
}

// FromFile reads entry IDs from a file, one per line.
func FromFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading entry IDs from %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("entry ID file %s is empty", path)
	}
	return ParseList(string(data)), nil
}

// FromString splits a comma-separated entry ID list.
func FromString(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// ParseList extracts entry IDs from a line-oriented response body or
// file: the first tab-separated column of each non-empty line.
func ParseList(body string) []string {
	var ids []string
	for _, line := range strings.Split(body, "\n") {
		id := strings.TrimSpace(strings.SplitN(line, "\t", 2)[0])
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
