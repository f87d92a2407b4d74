package ragpipe

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// noiseAtoms are element kinds removed wholesale before conversion.
var noiseAtoms = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
}

// Filter removes structural HTML noise and user-supplied regex noise.
// The pattern list is compiled once at construction and immutable after.
type Filter struct {
	patterns []*regexp.Regexp
	logger   *slog.Logger
}

// NewFilter compiles patterns with multiline and dot-matches-newline
// semantics. An invalid pattern is logged and skipped, never fatal.
func NewFilter(patterns []string, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Filter{logger: logger}
	for _, p := range patterns {
		re, err := regexp.Compile("(?ms)" + p)
		if err != nil {
			logger.Warn("noise: invalid pattern, skipping", "pattern", p, "error", err)
			continue
		}
		f.patterns = append(f.patterns, re)
	}
	return f
}

// PatternCount returns the number of successfully compiled patterns.
func (f *Filter) PatternCount() int { return len(f.patterns) }

// Apply runs the structural pass, then the pattern pass over the
// re-serialized markup.
func (f *Filter) Apply(htmlText string) string {
	return f.applyPatterns(f.stripNodes(htmlText))
}

// stripNodes parses the document, detaches noise elements and comment
// nodes, and renders the tree back. Text and attributes of surviving
// nodes are untouched. On parse or render failure the input is returned
// unchanged.
func (f *Filter) stripNodes(htmlText string) string {
	doc, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		f.logger.Warn("noise: parse failed, keeping input", "error", err)
		return htmlText
	}

	removeNoiseNodes(doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		f.logger.Warn("noise: render failed, keeping input", "error", err)
		return htmlText
	}
	return buf.String()
}

// applyPatterns deletes every match of every pattern, in load order.
// Each pattern sees the output of the previous one.
func (f *Filter) applyPatterns(text string) string {
	for _, re := range f.patterns {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

func removeNoiseNodes(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if isNoiseNode(c) {
			n.RemoveChild(c)
			continue
		}
		removeNoiseNodes(c)
	}
}

func isNoiseNode(n *html.Node) bool {
	if n.Type == html.CommentNode {
		return true
	}
	return n.Type == html.ElementNode && noiseAtoms[n.DataAtom]
}
