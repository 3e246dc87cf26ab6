package reader

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/textwash/internal/doctree"
)

// HTMLReader handles HTML files. It extracts the body, drops chrome
// elements that carry no content, and maps headings into the pipeline
// vocabulary.
type HTMLReader struct{}

func (p *HTMLReader) Read(r io.Reader, filename string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	root := findBody(doc)
	if root == nil {
		root = doc
	}

	content := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if skipElement(c) {
			continue
		}
		cp := doctree.Clone(c)
		pruneSkipped(cp)
		content.AppendChild(cp)
	}

	return toVocabulary(doctree.Render(content))
}

// skipElement reports whether an element carries page chrome rather than
// content.
func skipElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "script", "style", "nav", "footer", "header":
		return true
	}
	return false
}

func pruneSkipped(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if skipElement(c) {
			n.RemoveChild(c)
		} else {
			pruneSkipped(c)
		}
		c = next
	}
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
