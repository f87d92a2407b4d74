package ragpipe

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// RunResult is the ordered record collection for one run: per-file
// section order, files in discovery order.
type RunResult struct {
	Records []Record
}

// Stats summarizes a run for console reporting. Character counts are in
// runes, not bytes.
type Stats struct {
	TotalRecords int
	TotalChars   int
	SourceCount  int
	MeanChars    int
}

// Stats computes summary statistics over the result.
func (r *RunResult) Stats() Stats {
	sources := make(map[string]struct{})
	var chars int
	for _, rec := range r.Records {
		chars += utf8.RuneCountInString(rec.Content)
		if src, ok := rec.Metadata["source"].(string); ok {
			sources[src] = struct{}{}
		}
	}

	s := Stats{
		TotalRecords: len(r.Records),
		TotalChars:   chars,
		SourceCount:  len(sources),
	}
	if s.TotalRecords > 0 {
		s.MeanChars = chars / s.TotalRecords
	}
	return s
}

// Summary renders the human-facing statistics block.
func (s Stats) Summary() string {
	var sb strings.Builder
	sb.WriteString("=== conversion summary ===\n")
	fmt.Fprintf(&sb, "records:          %d\n", s.TotalRecords)
	fmt.Fprintf(&sb, "characters:       %d\n", s.TotalChars)
	fmt.Fprintf(&sb, "source files:     %d\n", s.SourceCount)
	fmt.Fprintf(&sb, "mean chars/record: %d\n", s.MeanChars)
	sb.WriteString("==========================")
	return sb.String()
}
