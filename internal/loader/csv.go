package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVLoader handles CSV files by rendering them as a markdown pipe
// table, which the structural parser picks up as a table block.
type CSVLoader struct{}

func (l *CSVLoader) Load(r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &Document{Title: titleFromFilename(filename)}
	if len(records) == 0 {
		return doc, nil
	}

	var buf strings.Builder
	writeRow(&buf, records[0])
	sep := make([]string, len(records[0]))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&buf, sep)
	for _, row := range records[1:] {
		writeRow(&buf, row)
	}

	doc.Text = buf.String()
	return doc, nil
}

func writeRow(buf *strings.Builder, cells []string) {
	buf.WriteString("|")
	for _, cell := range cells {
		buf.WriteString(" " + strings.ReplaceAll(cell, "|", "\\|") + " |")
	}
	buf.WriteString("\n")
}
