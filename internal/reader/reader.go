// Package reader converts uploaded documents into rich markup fragments
// that feed the sanitization pipeline. Every reader emits only the
// pipeline's markup vocabulary: paragraphs, line breaks, lists, and
// inline emphasis.
package reader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// Reader converts raw document bytes into a markup fragment.
type Reader interface {
	Read(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the appropriate reader for a filename.
func ForFile(filename string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextReader{}, nil
	case ".md", ".markdown":
		return &MarkdownReader{}, nil
	case ".csv":
		return &CSVReader{}, nil
	case ".html", ".htm":
		return &HTMLReader{}, nil
	case ".pdf":
		return &PDFReader{}, nil
	case ".docx":
		return &DOCXReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func escape(s string) string {
	return html.EscapeString(s)
}

// paragraph renders lines of plain text as a single paragraph element,
// joining lines with explicit breaks.
func paragraph(lines []string) string {
	var b strings.Builder
	b.WriteString("<p>")
	for i, line := range lines {
		if i > 0 {
			b.WriteString("<br/>")
		}
		b.WriteString(escape(line))
	}
	b.WriteString("</p>")
	return b.String()
}
