package reader

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
)

// MarkdownReader handles Markdown files using goldmark.
type MarkdownReader struct{}

func (p *MarkdownReader) Read(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	return toVocabulary(buf.String())
}
