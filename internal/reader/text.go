package reader

import (
	"bufio"
	"io"
	"strings"
)

// TextReader handles plain text files. Blank lines separate paragraphs;
// line breaks within a paragraph become explicit break elements.
type TextReader struct{}

func (p *TextReader) Read(r io.Reader, filename string) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out strings.Builder
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		out.WriteString(paragraph(current))
		current = current[:0]
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return "", err
	}
	return out.String(), nil
}
