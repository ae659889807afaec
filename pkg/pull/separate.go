package pull

import (
	"strings"
)

// Separate splits a concatenated multi-entry response body into
// per-entry segments. The delimiter depends on the entry field: flat
// files and kcf terminate each entry with "///", mol files with
// "$$$$", and sequence fields (aaseq, ntseq) start each record with
// ">". Segments are whitespace-trimmed.
func Separate(body, entryField string) []string {
	var entries []string
	switch entryField {
	case "aaseq", "ntseq":
		entries = geneSeparator(body)
	case "mol":
		entries = splitAndDropTail(body, "$$$$")
	default:
		entries = splitAndDropTail(body, "///")
	}

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// geneSeparator splits on the FASTA record marker, dropping whatever
// precedes the first ">".
func geneSeparator(body string) []string {
	entries := strings.Split(body, ">")
	if len(entries) > 1 {
		return entries[1:]
	}
	return entries
}

// splitAndDropTail splits on a terminating delimiter and drops the
// remainder after the final one.
func splitAndDropTail(body, delimiter string) []string {
	entries := strings.Split(body, delimiter)
	if len(entries) > 1 {
		return entries[:len(entries)-1]
	}
	return entries
}

// MatchEntries correlates split segments back to the entry IDs that
// requested them. When the counts agree the match is positional,
// preserving request order. Otherwise each ID is attributed to the
// first unclaimed segment containing its bare form (the ID without the
// database prefix, as it appears on an ENTRY line or sequence header);
// IDs with no segment are returned as missing.
func MatchEntries(entries, entryIDs []string) (matched map[string]string, missing []string) {
	matched = make(map[string]string, len(entryIDs))

	if len(entries) == len(entryIDs) {
		for i, id := range entryIDs {
			matched[id] = entries[i]
		}
		return matched, nil
	}

	claimed := make([]bool, len(entries))
	for _, id := range entryIDs {
		bare := bareEntryID(id)
		found := false
		for i, entry := range entries {
			if claimed[i] {
				continue
			}
			if strings.Contains(entry, bare) {
				matched[id] = entry
				claimed[i] = true
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, id)
		}
	}
	return matched, missing
}

// bareEntryID strips the database prefix from an entry ID, e.g.
// "cpd:C00001" -> "C00001".
func bareEntryID(entryID string) string {
	if i := strings.Index(entryID, ":"); i >= 0 {
		return entryID[i+1:]
	}
	return entryID
}
