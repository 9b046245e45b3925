package docreader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// csvRowsPerPage groups data rows into page-sized batches so per-page
// processing downstream stays bounded on large files.
const csvRowsPerPage = 20

// newCSVDocument renders each row as a "header: value" line and batches rows
// into synthetic pages. CSVs carry no bookmark structure.
func newCSVDocument(data []byte, filename string) (Document, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return &flatDocument{name: filename, pages: []string{""}}, nil
	}

	headers := records[0]
	rows := records[1:]

	var pages []string
	for i := 0; i < len(rows); i += csvRowsPerPage {
		end := min(i+csvRowsPerPage, len(rows))
		var text strings.Builder
		for _, row := range rows[i:end] {
			for j, cell := range row {
				if j > 0 {
					text.WriteString(", ")
				}
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
			}
			text.WriteByte('\n')
		}
		pages = append(pages, text.String())
	}
	if len(pages) == 0 {
		pages = []string{""}
	}

	return &flatDocument{name: filename, pages: pages}, nil
}
