// Package resturl builds and validates KEGG REST API URLs.
package resturl

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// BaseURL is the root of the KEGG REST API.
const BaseURL = "https://rest.kegg.jp"

// MaxEntryIDsPerURL is the KEGG-imposed maximum number of entry IDs
// allowed in a single get request.
const MaxEntryIDsPerURL = 10

// databases lists the KEGG databases accepted by the list operation.
var databases = map[string]bool{
	"pathway": true, "brite": true, "module": true, "ko": true, "genome": true,
	"vg": true, "vp": true, "ag": true, "compound": true, "glycan": true,
	"reaction": true, "rclass": true, "enzyme": true, "network": true,
	"variant": true, "disease": true, "drug": true, "dgroup": true,
}

// entryFields maps each valid get entry field to whether it supports
// multiple entry IDs in one request.
var entryFields = map[string]bool{
	"aaseq": true, "ntseq": true, "mol": true, "kcf": true,
	"image": false, "conf": false, "kgml": false, "json": false,
}

// URL is a validated KEGG REST API URL.
type URL struct {
	operation string
	url       string
}

// String returns the full request URL.
func (u *URL) String() string { return u.url }

// Operation returns the KEGG API operation name (e.g. "list", "get").
func (u *URL) Operation() string { return u.operation }

func newURL(operation string, options ...string) *URL {
	return &URL{
		operation: operation,
		url:       BaseURL + "/" + operation + "/" + strings.Join(options, "/"),
	}
}

// CanOnlyPullOne reports whether an entry field restricts get requests
// to a single entry ID.
func CanOnlyPullOne(entryField string) bool {
	multi, ok := entryFields[entryField]
	return ok && !multi
}

// IsBinary reports whether an entry field yields a binary response body.
func IsBinary(entryField string) bool {
	return entryField == "image"
}

// ValidDatabase reports whether name is a known KEGG database.
func ValidDatabase(name string) bool { return databases[name] }

func validateDatabase(name string) error {
	if !databases[name] {
		valid := make([]string, 0, len(databases))
		for db := range databases {
			valid = append(valid, db)
		}
		sort.Strings(valid)
		return fmt.Errorf("invalid database %q, valid values are: %s", name, strings.Join(valid, ", "))
	}
	return nil
}

func validateEntryIDs(entryIDs []string) error {
	if len(entryIDs) == 0 {
		return fmt.Errorf("at least one entry ID must be specified")
	}
	for _, id := range entryIDs {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("blank entry ID in list")
		}
	}
	return nil
}

// List builds a URL for the list operation, which returns the entry IDs
// of a database.
func List(database string) (*URL, error) {
	if err := validateDatabase(database); err != nil {
		return nil, err
	}
	return newURL("list", database), nil
}

// Info builds a URL for the info operation.
func Info(database string) (*URL, error) {
	if err := validateDatabase(database); err != nil {
		return nil, err
	}
	return newURL("info", database), nil
}

// GetURL is a validated URL for the get operation. It keeps the entry IDs
// it was built from so responses can be correlated back to them.
type GetURL struct {
	URL
	entryIDs   []string
	entryField string
}

// EntryIDs returns the entry IDs the URL requests, in request order.
func (g *GetURL) EntryIDs() []string { return g.entryIDs }

// EntryField returns the optional entry field, or "" for the default
// flat-file form.
func (g *GetURL) EntryField() string { return g.entryField }

// Get builds a URL for the get operation. entryField may be "" for the
// default flat-file representation.
func Get(entryIDs []string, entryField string) (*GetURL, error) {
	if err := validateEntryIDs(entryIDs); err != nil {
		return nil, err
	}
	if len(entryIDs) > MaxEntryIDsPerURL {
		return nil, fmt.Errorf("%d entry IDs exceed the maximum of %d per get request", len(entryIDs), MaxEntryIDsPerURL)
	}
	if entryField != "" {
		if _, ok := entryFields[entryField]; !ok {
			valid := make([]string, 0, len(entryFields))
			for f := range entryFields {
				valid = append(valid, f)
			}
			sort.Strings(valid)
			return nil, fmt.Errorf("invalid entry field %q, valid values are: %s", entryField, strings.Join(valid, ", "))
		}
		if CanOnlyPullOne(entryField) && len(entryIDs) > 1 {
			return nil, fmt.Errorf("entry field %q only supports one entry per request but %d entry IDs were provided", entryField, len(entryIDs))
		}
	}

	options := strings.Join(entryIDs, "+")
	u := newURL("get", options)
	if entryField != "" {
		u = newURL("get", options, entryField)
	}
	return &GetURL{URL: *u, entryIDs: entryIDs, entryField: entryField}, nil
}

// KeywordsFind builds a URL for the find operation searching by keywords.
func KeywordsFind(database string, keywords []string) (*URL, error) {
	if err := validateDatabase(database); err != nil {
		return nil, err
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("at least one keyword must be specified")
	}
	return newURL("find", database, strings.Join(keywords, "+")), nil
}

// molecularDatabases are the databases that support find-by-attribute.
var molecularDatabases = map[string]bool{"compound": true, "drug": true}

// MolecularFind builds a URL for the find operation searching by a
// molecular attribute. Exactly one of formula, exactMass, or
// molecularWeight must be provided; exactMass and molecularWeight take
// one value (exact match) or two (range).
func MolecularFind(database, formula string, exactMass, molecularWeight []float64) (*URL, error) {
	if err := validateDatabase(database); err != nil {
		return nil, err
	}
	if !molecularDatabases[database] {
		return nil, fmt.Errorf("database %q does not support molecular attribute searches", database)
	}

	nSet := 0
	if formula != "" {
		nSet++
	}
	if len(exactMass) > 0 {
		nSet++
	}
	if len(molecularWeight) > 0 {
		nSet++
	}
	if nSet != 1 {
		return nil, fmt.Errorf("exactly one molecular attribute must be specified")
	}

	if formula != "" {
		return newURL("find", database, formula, "formula"), nil
	}
	if len(exactMass) > 0 {
		option, err := rangeOption(exactMass)
		if err != nil {
			return nil, err
		}
		return newURL("find", database, option, "exact_mass"), nil
	}
	option, err := rangeOption(molecularWeight)
	if err != nil {
		return nil, err
	}
	return newURL("find", database, option, "mol_weight"), nil
}

func rangeOption(values []float64) (string, error) {
	switch len(values) {
	case 1:
		return formatFloat(values[0]), nil
	case 2:
		if values[0] > values[1] {
			return "", fmt.Errorf("range minimum %s exceeds maximum %s", formatFloat(values[0]), formatFloat(values[1]))
		}
		return formatFloat(values[0]) + "-" + formatFloat(values[1]), nil
	default:
		return "", fmt.Errorf("a range is specified by one or two values but %d were provided", len(values))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DatabaseConv builds a URL for the conv operation between a KEGG
// database and an outside database.
func DatabaseConv(keggDatabase, outsideDatabase string) (*URL, error) {
	if keggDatabase == "" || outsideDatabase == "" {
		return nil, fmt.Errorf("both database names must be specified for the conv operation")
	}
	return newURL("conv", keggDatabase, outsideDatabase), nil
}

// EntriesConv builds a URL for the conv operation targeting specific
// entry IDs.
func EntriesConv(targetDatabase string, entryIDs []string) (*URL, error) {
	if targetDatabase == "" {
		return nil, fmt.Errorf("a target database must be specified for the conv operation")
	}
	if err := validateEntryIDs(entryIDs); err != nil {
		return nil, err
	}
	return newURL("conv", targetDatabase, strings.Join(entryIDs, "+")), nil
}

// DatabaseLink builds a URL for the link operation between two databases.
func DatabaseLink(targetDatabase, sourceDatabase string) (*URL, error) {
	if targetDatabase == "" || sourceDatabase == "" {
		return nil, fmt.Errorf("both database names must be specified for the link operation")
	}
	return newURL("link", targetDatabase, sourceDatabase), nil
}

// EntriesLink builds a URL for the link operation targeting specific
// entry IDs.
func EntriesLink(targetDatabase string, entryIDs []string) (*URL, error) {
	if targetDatabase == "" {
		return nil, fmt.Errorf("a target database must be specified for the link operation")
	}
	if err := validateEntryIDs(entryIDs); err != nil {
		return nil, err
	}
	return newURL("link", targetDatabase, strings.Join(entryIDs, "+")), nil
}

// Ddi builds a URL for the ddi (drug-drug interaction) operation.
func Ddi(drugEntryIDs []string) (*URL, error) {
	if err := validateEntryIDs(drugEntryIDs); err != nil {
		return nil, err
	}
	return newURL("ddi", strings.Join(drugEntryIDs, "+")), nil
}
