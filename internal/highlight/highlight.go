// Package highlight overlays non-destructive visual markers on
// problematic characters in a live document tree. Marking wraps each
// flagged character in a span carrying a human-readable reason; clearing
// is the exact inverse, restoring byte-identical text content.
package highlight

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/textwash/internal/doctree"
	"github.com/dgallion1/textwash/internal/textnorm"
)

const (
	// MarkerClass identifies marker spans in the tree.
	MarkerClass = "twash-flag"
	// ReasonAttr carries the classification label on a marker span.
	ReasonAttr = "data-reason"
)

// Classification reason labels.
const (
	ReasonZeroWidth = "Zero-width character"
	ReasonBidi      = "BiDi control character"
	ReasonNBSP      = "Non-breaking space"
	ReasonEmDash    = "Em dash"
	ReasonNonASCII  = "Non-ASCII character"
)

type rule struct {
	matches func(r rune) bool
	label   string
}

// rules is evaluated top to bottom, first match wins. The non-ASCII
// fallback must stay last: it fires only when nothing more specific
// matched.
var rules = []rule{
	{textnorm.IsZeroWidth, ReasonZeroWidth},
	{textnorm.IsBidiControl, ReasonBidi},
	{textnorm.IsNoBreakSpace, ReasonNBSP},
	{func(r rune) bool { return r == textnorm.EmDash }, ReasonEmDash},
	{func(r rune) bool { return r > 0x7F }, ReasonNonASCII},
}

// Classify returns the reason label for a flagged character, or false
// for clean characters.
func Classify(r rune) (string, bool) {
	for _, rl := range rules {
		if rl.matches(r) {
			return rl.label, true
		}
	}
	return "", false
}

// IsMarker reports whether n is a marker span produced by Mark.
func IsMarker(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != "span" {
		return false
	}
	cls, ok := doctree.Attr(n, "class")
	return ok && cls == MarkerClass
}

func newMarker(r rune, label string) *html.Node {
	span := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr: []html.Attribute{
			{Key: "class", Val: MarkerClass},
			{Key: ReasonAttr, Val: label},
		},
	}
	span.AppendChild(&html.Node{Type: html.TextNode, Data: string(r)})
	return span
}

// Mark wraps every flagged character under root in a marker span. Text
// already inside a marker is left alone, so a Clear before each Mark
// keeps markers from nesting or accumulating.
func Mark(root *html.Node) {
	var leaves []*html.Node
	doctree.WalkText(root, func(n *html.Node) {
		if n.Parent != nil && IsMarker(n.Parent) {
			return
		}
		leaves = append(leaves, n)
	})

	for _, leaf := range leaves {
		markLeaf(leaf)
	}
}

// markLeaf splits one text node into plain runs and marker spans. If no
// character is flagged the node stays untouched.
func markLeaf(leaf *html.Node) {
	flagged := false
	for _, r := range leaf.Data {
		if _, ok := Classify(r); ok {
			flagged = true
			break
		}
	}
	if !flagged {
		return
	}

	parent := leaf.Parent
	var plain strings.Builder
	flush := func() {
		if plain.Len() == 0 {
			return
		}
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: plain.String()}, leaf)
		plain.Reset()
	}

	for _, r := range leaf.Data {
		label, ok := Classify(r)
		if !ok {
			plain.WriteRune(r)
			continue
		}
		flush()
		parent.InsertBefore(newMarker(r, label), leaf)
	}
	flush()
	parent.RemoveChild(leaf)
}

// Clear removes every marker under root, replacing each with a plain
// text node carrying the same character. It is the exact inverse of
// Mark: text content afterwards is byte-identical to the tree before
// marking.
func Clear(root *html.Node) {
	var markers []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if IsMarker(n) {
			markers = append(markers, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for _, m := range markers {
		parent := m.Parent
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: doctree.TextContent(m)}, m)
		parent.RemoveChild(m)
	}
}

// ExtractCleanMarkup renders root with all markers stripped, without
// mutating the live tree. The result is what sanitization actually
// consumes, so the overlay never leaks into sanitized output.
func ExtractCleanMarkup(root *html.Node) string {
	cp := doctree.Clone(root)
	Clear(cp)
	return doctree.Render(cp)
}
