package ragpipe

import (
	"fmt"
	"strings"
)

// Record is the final unit of output: an identified, content-bearing,
// metadata-tagged chunk ready for retrieval indexing.
type Record struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// AssembleRecords attaches per-file identity to every section and assigns
// a stable ordinal ID "<source>_<index>". section_id is zero-based in
// document order. Heading path keys are merged into the metadata after
// the fixed keys, so a colliding heading key wins.
//
// Sections whose content trims to empty are still emitted.
func AssembleRecords(sections []Section, sourceName, pageURL string) []Record {
	records := make([]Record, 0, len(sections))
	for i, s := range sections {
		meta := map[string]any{
			"source":     sourceName,
			"url":        pageURL,
			"section_id": i,
		}
		for k, v := range s.HeadingPath {
			meta[k] = v
		}

		records = append(records, Record{
			ID:       fmt.Sprintf("%s_%d", sourceName, i),
			Content:  strings.TrimSpace(s.Content),
			Metadata: meta,
		})
	}
	return records
}
