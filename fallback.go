package ragpipe

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// fallbackConverter is a minimal HTML→structured-text transform used when
// the markdown converter fails. It keeps heading, paragraph, and list
// markers and flattens everything else. Nested list depth and inline
// formatting are lost.
type fallbackConverter struct{}

func (fallbackConverter) Convert(htmlText string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fallbackWalk(doc, &sb)
	return sb.String(), nil
}

func fallbackWalk(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		// Text outside the handled elements still flattens into the output.
		if text := strings.TrimSpace(n.Data); text != "" {
			sb.WriteString(text)
			sb.WriteByte('\n')
		}
		return
	}
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Head, atom.Script, atom.Style, atom.Noscript:
			return

		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			text := collectText(n)
			if text != "" {
				level := int(n.Data[1] - '0')
				sb.WriteString(strings.Repeat("#", level))
				sb.WriteByte(' ')
				sb.WriteString(text)
				sb.WriteString("\n\n")
			}
			return

		case atom.P:
			text := collectText(n)
			if text != "" {
				sb.WriteString(text)
				sb.WriteString("\n\n")
			}
			return

		case atom.Ul:
			for _, li := range childItems(n) {
				if text := collectText(li); text != "" {
					sb.WriteString("- ")
					sb.WriteString(text)
					sb.WriteByte('\n')
				}
			}
			sb.WriteByte('\n')
			return

		case atom.Ol:
			idx := 1
			for _, li := range childItems(n) {
				if text := collectText(li); text != "" {
					sb.WriteString(strconv.Itoa(idx))
					sb.WriteString(". ")
					sb.WriteString(text)
					sb.WriteByte('\n')
					idx++
				}
			}
			sb.WriteByte('\n')
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		fallbackWalk(c, sb)
	}
}

// childItems returns all <li> descendants of a list node.
func childItems(n *html.Node) []*html.Node {
	var items []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Li {
				items = append(items, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return items
}

// collectText extracts all text from a node subtree, space-joined.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
