// Package sanitize runs the full cleanup pipeline: tree-level text
// normalization, string-level structural cleanup of the serialized
// markup, and the final allowlist restriction.
package sanitize

import (
	"regexp"

	"golang.org/x/net/html"

	"github.com/dgallion1/textwash/internal/doctree"
	"github.com/dgallion1/textwash/internal/options"
	"github.com/dgallion1/textwash/internal/textnorm"
)

// NormalizeTree rewrites every text leaf under root through
// textnorm.Normalize. Element tags, attributes, and nesting are left
// untouched; each leaf is visited exactly once in document order.
func NormalizeTree(root *html.Node, opts options.Options) {
	doctree.WalkText(root, func(n *html.Node) {
		n.Data = textnorm.Normalize(n.Data, opts)
	})
}

var (
	lineEndRe    = regexp.MustCompile(`\r\n?`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	betweenTagRe = regexp.MustCompile(`(</[a-zA-Z][a-zA-Z0-9]*>)\s+(<)`)
	brRunRe      = regexp.MustCompile(`<br\s*/?>(?:\s*<br\s*/?>)+`)
	brOnlyPRe    = regexp.MustCompile(`<p>\s*<br\s*/?>\s*</p>`)
	blankPRe     = regexp.MustCompile(`<p>(?:\s|&nbsp;|\x{00A0})+</p>`)
	emptyPRunRe  = regexp.MustCompile(`<p></p>(?:\s*<p></p>)+`)
)

// CleanMarkup removes redundant structure from serialized markup:
// excess blank lines, whitespace between adjacent tags, stacked line
// breaks, and empty paragraphs. Applying it twice yields the same result
// as applying it once.
func CleanMarkup(markup string, opts options.Options) string {
	if opts.CollapseBlankLines {
		markup = lineEndRe.ReplaceAllString(markup, "\n")
		markup = blankRunRe.ReplaceAllString(markup, "\n\n")
	}

	// The pattern consumes the following "<", so adjacent matches need
	// repeated passes to reach a fixpoint.
	for {
		out := betweenTagRe.ReplaceAllString(markup, "$1$2")
		if out == markup {
			break
		}
		markup = out
	}

	markup = brRunRe.ReplaceAllString(markup, "<br/>")
	markup = brOnlyPRe.ReplaceAllString(markup, "<p></p>")
	markup = blankPRe.ReplaceAllString(markup, "")
	markup = emptyPRunRe.ReplaceAllString(markup, "<p></p>")

	return markup
}
