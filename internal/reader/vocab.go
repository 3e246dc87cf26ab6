package reader

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/textwash/internal/doctree"
)

// toVocabulary rewrites markup into the pipeline's element vocabulary.
// Headings become bold paragraphs; everything else passes through and is
// left for the allowlist filter.
func toVocabulary(markup string) (string, error) {
	root, err := doctree.ParseBody(markup)
	if err != nil {
		return "", err
	}

	var headings []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && headingLevel(c.Data) > 0 {
				headings = append(headings, c)
				continue
			}
			walk(c)
		}
	}
	walk(root)

	for _, h := range headings {
		p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
		b := &html.Node{Type: html.ElementNode, Data: "b", DataAtom: atom.B}
		for c := h.FirstChild; c != nil; {
			next := c.NextSibling
			h.RemoveChild(c)
			b.AppendChild(c)
			c = next
		}
		p.AppendChild(b)
		h.Parent.InsertBefore(p, h)
		h.Parent.RemoveChild(h)
	}

	return doctree.Render(root), nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}
