package reader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVReader handles CSV files. The header row becomes a bold paragraph;
// data rows become a list with cells labeled by their header.
type CSVReader struct{}

func (p *CSVReader) Read(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	headers := records[0]

	var out strings.Builder
	out.WriteString("<p><b>")
	out.WriteString(escape(strings.Join(headers, ", ")))
	out.WriteString("</b></p>")

	if len(records) > 1 {
		out.WriteString("<ul>")
		for _, row := range records[1:] {
			out.WriteString("<li>")
			for j, cell := range row {
				if j > 0 {
					out.WriteString(", ")
				}
				if j < len(headers) {
					out.WriteString(escape(headers[j] + ": " + cell))
				} else {
					out.WriteString(escape(cell))
				}
			}
			out.WriteString("</li>")
		}
		out.WriteString("</ul>")
	}

	return out.String(), nil
}
