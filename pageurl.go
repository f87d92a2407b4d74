package ragpipe

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractPageURL determines the canonical URL of a saved page. Strategies
// are tried in order, first match wins:
//
//  1. <link rel="canonical"> href
//  2. <meta property="og:url"> content
//  3. scheme://host of the first absolute http(s) anchor
//
// Returns "" when nothing matches or the document cannot be parsed.
func ExtractPageURL(htmlText string) string {
	doc, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return ""
	}

	if u := findLink(doc, atom.Link, "rel", "canonical", "href"); u != "" {
		return u
	}
	if u := findLink(doc, atom.Meta, "property", "og:url", "content"); u != "" {
		return u
	}
	return findFirstAnchorHost(doc)
}

// findLink returns the value of valAttr on the first element of the given
// kind whose matchAttr contains matchVal (space-separated list semantics,
// case-insensitive).
func findLink(n *html.Node, a atom.Atom, matchAttr, matchVal, valAttr string) string {
	if n.Type == html.ElementNode && n.DataAtom == a {
		if attrContains(n, matchAttr, matchVal) {
			if v := attrValue(n, valAttr); v != "" {
				return v
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if u := findLink(c, a, matchAttr, matchVal, valAttr); u != "" {
			return u
		}
	}
	return ""
}

// findFirstAnchorHost returns scheme://host of the first <a> whose href
// is an absolute http(s) URL.
func findFirstAnchorHost(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		href := attrValue(n, "href")
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			if parsed, err := url.Parse(href); err == nil && parsed.Host != "" {
				return parsed.Scheme + "://" + parsed.Host
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if u := findFirstAnchorHost(c); u != "" {
			return u
		}
	}
	return ""
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func attrContains(n *html.Node, key, val string) bool {
	for _, f := range strings.Fields(attrValue(n, key)) {
		if strings.EqualFold(f, val) {
			return true
		}
	}
	return false
}
