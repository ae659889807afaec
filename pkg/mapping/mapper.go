package mapping

import (
	"context"
	"fmt"
	"strings"

	"github.com/biocompute/kegg-pull/pkg/rest"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// canonicalPathwayPrefix marks the pathway map form of a pathway entry
// ID. Link output mixes these with organism-prefixed duplicates of the
// same entries.
const canonicalPathwayPrefix = "path:map"

// LinkOptions adjusts database link mappings.
type LinkOptions struct {
	// Deduplicate drops pathway IDs without the path:map prefix; they
	// duplicate entries already present under the canonical prefix.
	// Requires the source or target database to be pathway.
	Deduplicate bool

	// AddGlycans adds the compound IDs of equivalent glycan entries.
	AddGlycans bool

	// AddDrugs adds the compound IDs of equivalent drug entries.
	AddDrugs bool
}

// Mapper builds entry ID mappings from the link and conv operations.
type Mapper struct {
	client *rest.Client
	logger zerolog.Logger
}

// NewMapper creates a mapper backed by the given client.
func NewMapper(client *rest.Client) *Mapper {
	return &Mapper{
		client: client,
		logger: log.With().Str("component", "kegg-mapping").Logger(),
	}
}

// DatabaseLink maps every entry ID of the source database to its
// cross-references in the target database.
func (mp *Mapper) DatabaseLink(ctx context.Context, sourceDatabase, targetDatabase string, opts LinkOptions) (Mapping, error) {
	resp, err := mp.client.DatabaseLink(ctx, targetDatabase, sourceDatabase)
	if err != nil {
		return nil, err
	}
	m, err := toMapping(resp, fmt.Sprintf("linking %s to %s", sourceDatabase, targetDatabase))
	if err != nil {
		return nil, err
	}
	return mp.applyLinkOptions(ctx, m, sourceDatabase, targetDatabase, opts)
}

// IndirectLink maps the source database to the target database through
// an intermediate, connecting source-to-intermediate cross-references
// with intermediate-to-target ones.
func (mp *Mapper) IndirectLink(ctx context.Context, sourceDatabase, intermediateDatabase, targetDatabase string, opts LinkOptions) (Mapping, error) {
	if sourceDatabase == intermediateDatabase || sourceDatabase == targetDatabase || intermediateDatabase == targetDatabase {
		return nil, fmt.Errorf("the source, intermediate, and target databases must all differ (got %s, %s, %s)",
			sourceDatabase, intermediateDatabase, targetDatabase)
	}

	sourceToIntermediate, err := mp.rawDatabaseLink(ctx, sourceDatabase, intermediateDatabase)
	if err != nil {
		return nil, err
	}
	intermediateToTarget, err := mp.rawDatabaseLink(ctx, intermediateDatabase, targetDatabase)
	if err != nil {
		return nil, err
	}

	m := make(Mapping)
	for sourceID, intermediateIDs := range sourceToIntermediate {
		for intermediateID := range intermediateIDs {
			targetIDs, ok := intermediateToTarget[intermediateID]
			if !ok {
				continue
			}
			m.Add(sourceID, setToSlice(targetIDs)...)
		}
	}
	return mp.applyLinkOptions(ctx, m, sourceDatabase, targetDatabase, opts)
}

// EntriesLink maps the given entry IDs to their cross-references in
// the target database.
func (mp *Mapper) EntriesLink(ctx context.Context, entryIDs []string, targetDatabase string, reverse bool) (Mapping, error) {
	resp, err := mp.client.EntriesLink(ctx, targetDatabase, entryIDs)
	if err != nil {
		return nil, err
	}
	return mapAndReverse(resp, fmt.Sprintf("linking entry IDs to %s", targetDatabase), reverse)
}

// DatabaseConv maps every entry ID of a KEGG database to its
// equivalents in an outside database.
func (mp *Mapper) DatabaseConv(ctx context.Context, keggDatabase, outsideDatabase string, reverse bool) (Mapping, error) {
	resp, err := mp.client.DatabaseConv(ctx, keggDatabase, outsideDatabase)
	if err != nil {
		return nil, err
	}
	return mapAndReverse(resp, fmt.Sprintf("converting %s to %s", keggDatabase, outsideDatabase), reverse)
}

// EntriesConv maps the given entry IDs to their equivalents in the
// target database.
func (mp *Mapper) EntriesConv(ctx context.Context, entryIDs []string, targetDatabase string, reverse bool) (Mapping, error) {
	resp, err := mp.client.EntriesConv(ctx, targetDatabase, entryIDs)
	if err != nil {
		return nil, err
	}
	return mapAndReverse(resp, fmt.Sprintf("converting entry IDs to %s", targetDatabase), reverse)
}

// rawDatabaseLink fetches a database link mapping with no options
// applied.
func (mp *Mapper) rawDatabaseLink(ctx context.Context, sourceDatabase, targetDatabase string) (Mapping, error) {
	resp, err := mp.client.DatabaseLink(ctx, targetDatabase, sourceDatabase)
	if err != nil {
		return nil, err
	}
	return toMapping(resp, fmt.Sprintf("linking %s to %s", sourceDatabase, targetDatabase))
}

// applyLinkOptions runs deduplication and compound-equivalent
// expansion on a link mapping.
func (mp *Mapper) applyLinkOptions(ctx context.Context, m Mapping, sourceDatabase, targetDatabase string, opts LinkOptions) (Mapping, error) {
	m, err := deduplicatePathways(m, sourceDatabase, targetDatabase, opts.Deduplicate)
	if err != nil {
		return nil, err
	}
	return mp.addCompoundEquivalents(ctx, m, sourceDatabase, targetDatabase, opts)
}

// deduplicatePathways keeps only the path:map form of pathway IDs.
// When the pathway database is the target, the mapping is reversed so
// the filter runs on keys, then reversed back.
func deduplicatePathways(m Mapping, sourceDatabase, targetDatabase string, deduplicate bool) (Mapping, error) {
	if !deduplicate {
		return m, nil
	}
	if sourceDatabase != "pathway" && targetDatabase != "pathway" {
		return nil, fmt.Errorf("deduplication requires the source or target database to be pathway (got %s, %s)",
			sourceDatabase, targetDatabase)
	}

	flipped := targetDatabase == "pathway"
	if flipped {
		m = Reverse(m)
	}
	for pathwayID := range m {
		if !strings.HasPrefix(pathwayID, canonicalPathwayPrefix) {
			delete(m, pathwayID)
		}
	}
	if flipped {
		m = Reverse(m)
	}
	return m, nil
}

// addCompoundEquivalents expands a compound mapping with the compound
// IDs of equivalent glycan and/or drug entries, found by linking
// through the glycan or drug database.
func (mp *Mapper) addCompoundEquivalents(ctx context.Context, m Mapping, sourceDatabase, targetDatabase string, opts LinkOptions) (Mapping, error) {
	if !opts.AddGlycans && !opts.AddDrugs {
		return m, nil
	}
	if sourceDatabase != "compound" && targetDatabase != "compound" {
		mp.logger.Warn().
			Str("source_database", sourceDatabase).
			Str("target_database", targetDatabase).
			Msg("Adding compound equivalents to a mapping not involving the compound database")
	}

	flipped := targetDatabase == "compound"
	effectiveTarget := targetDatabase
	if flipped {
		m = Reverse(m)
		effectiveTarget = sourceDatabase
	}

	equivalents := make([]string, 0, 2)
	if opts.AddGlycans {
		equivalents = append(equivalents, "glycan")
	}
	if opts.AddDrugs {
		equivalents = append(equivalents, "drug")
	}
	for _, intermediate := range equivalents {
		expansion, err := mp.IndirectLink(ctx, "compound", intermediate, effectiveTarget, LinkOptions{})
		if err != nil {
			return nil, err
		}
		m = Combine(m, expansion)
	}

	if flipped {
		m = Reverse(m)
	}
	return m, nil
}

// mapAndReverse converts a response into a mapping, optionally
// reversed.
func mapAndReverse(resp *rest.Response, action string, reverse bool) (Mapping, error) {
	m, err := toMapping(resp, action)
	if err != nil {
		return nil, err
	}
	if reverse {
		m = Reverse(m)
	}
	return m, nil
}

// toMapping parses link or conv output, one tab-separated ID pair per
// line, into a mapping. Unsuccessful responses are errors: there is no
// per-ID classification to fall back on.
func toMapping(resp *rest.Response, action string) (Mapping, error) {
	switch resp.Status {
	case rest.StatusSuccess:
	case rest.StatusTimeout:
		return nil, fmt.Errorf("request timed out while %s", action)
	default:
		return nil, fmt.Errorf("request failed while %s", action)
	}

	m := make(Mapping)
	for _, line := range strings.Split(strings.TrimSpace(resp.Text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fromID, toID, ok := strings.Cut(line, "\t")
		if !ok {
			return nil, fmt.Errorf("malformed cross-reference line %q while %s", line, action)
		}
		m.Add(fromID, toID)
	}
	return m, nil
}
