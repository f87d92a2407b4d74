package ragpipe

import (
	"maps"
	"strings"
)

// Section is a contiguous span of structured text between one heading
// boundary and the next, paired with its position in the document outline.
type Section struct {
	// Content is the raw section text. The heading line that opens the
	// section is included.
	Content string

	// HeadingPath maps "Header 1".."Header 6" to the most recent heading
	// text seen at each level still in scope.
	HeadingPath map[string]string
}

var headingKeys = [...]string{"Header 1", "Header 2", "Header 3", "Header 4", "Header 5", "Header 6"}

// SplitSections splits structured text at heading lines (`#` through
// `######`), accumulating the heading path. A heading at level L clears
// recorded levels >= L and leaves shallower levels untouched. Headings
// inside fenced code blocks do not split.
//
// Text with no recognizable headings yields exactly one section with an
// empty heading path. Whitespace-only input yields no sections.
func SplitSections(text string) []Section {
	var sections []Section
	path := make(map[string]string)
	var current []string
	inFence := false

	flush := func() {
		joined := strings.Join(current, "\n")
		current = current[:0]
		if strings.TrimSpace(joined) == "" {
			return
		}
		sections = append(sections, Section{
			Content:     joined,
			HeadingPath: maps.Clone(path),
		})
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
		}

		level := 0
		if !inFence {
			level = headingLevel(trimmed)
		}
		if level == 0 {
			current = append(current, line)
			continue
		}

		flush()
		setHeading(path, level, headingText(trimmed, level))
		current = append(current, line)
	}
	flush()

	return sections
}

// headingLevel returns 1..6 for an ATX heading line, 0 otherwise.
func headingLevel(trimmed string) int {
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0
	}
	if level == len(trimmed) || trimmed[level] != ' ' {
		return 0
	}
	return level
}

// headingText strips the leading markers and an optional closing hash
// run. A hash glued to the text ("C#") is content, not a closing run.
func headingText(trimmed string, level int) string {
	text := strings.TrimSpace(trimmed[level:])
	stripped := strings.TrimRight(text, "#")
	if stripped != text && strings.HasSuffix(stripped, " ") {
		text = strings.TrimRight(stripped, " ")
	}
	return text
}

// setHeading records a heading at the given level, clearing every deeper
// level from the path.
func setHeading(path map[string]string, level int, text string) {
	for l := level; l <= len(headingKeys); l++ {
		delete(path, headingKeys[l-1])
	}
	path[headingKeys[level-1]] = text
}
