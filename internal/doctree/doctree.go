// Package doctree parses, renders, and walks rich-markup fragments. The
// tree type is x/net/html's Node; this package adds fragment-oriented
// helpers so callers never deal with the implicit html/head/body wrapping
// the full-document parser introduces.
package doctree

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses markup as body content and returns the top-level
// nodes in document order.
func ParseFragment(markup string) ([]*html.Node, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return nodes, nil
}

// ParseBody parses markup and returns a detached body element holding the
// fragment's nodes, convenient as a single mutable root.
func ParseBody(markup string) (*html.Node, error) {
	nodes, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	body := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return body, nil
}

// Render serializes a node's children back to markup. Pass the root
// returned by ParseBody to get the fragment without the body wrapper.
func Render(root *html.Node) string {
	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		// Render only fails on unsupported node types, which the parser
		// never produces.
		html.Render(&buf, c)
	}
	return buf.String()
}

// WalkText visits every text node under root in pre-order document order,
// calling fn exactly once per node. Element structure is never touched.
func WalkText(root *html.Node, fn func(n *html.Node)) {
	if root.Type == html.TextNode {
		fn(root)
		return
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		WalkText(c, fn)
	}
}

// TextContent concatenates all text nodes under root in document order.
func TextContent(root *html.Node) string {
	var buf strings.Builder
	WalkText(root, func(n *html.Node) {
		buf.WriteString(n.Data)
	})
	return buf.String()
}

// Clone deep-copies a node and its subtree. Parent and sibling links of
// the returned node are nil.
func Clone(n *html.Node) *html.Node {
	cp := &html.Node{
		Type:     n.Type,
		DataAtom: n.DataAtom,
		Data:     n.Data,
	}
	if len(n.Attr) > 0 {
		cp.Attr = make([]html.Attribute, len(n.Attr))
		copy(cp.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cp.AppendChild(Clone(c))
	}
	return cp
}

// Attr returns the value of the named attribute and whether it is set.
func Attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}
