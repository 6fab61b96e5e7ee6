package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// JSONLoader handles structured notes exported as JSON. Two shapes are
// accepted: {"title": ..., "text": ...} or
// {"title": ..., "sections": [{"heading": ..., "text": ...}]}.
type JSONLoader struct{}

type jsonDoc struct {
	Title    string        `json:"title"`
	Text     string        `json:"text"`
	Sections []jsonSection `json:"sections"`
}

type jsonSection struct {
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

func (l *JSONLoader) Load(r io.Reader, filename string) (*Document, error) {
	var obj jsonDoc
	if err := json.NewDecoder(r).Decode(&obj); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	title := obj.Title
	if title == "" {
		title = titleFromFilename(filename)
	}

	if obj.Text != "" {
		return &Document{Title: title, Text: obj.Text}, nil
	}

	if len(obj.Sections) == 0 {
		return nil, fmt.Errorf("json document needs a text field or sections")
	}

	var buf strings.Builder
	for _, s := range obj.Sections {
		if s.Heading != "" {
			buf.WriteString("## " + s.Heading + "\n\n")
		}
		if strings.TrimSpace(s.Text) != "" {
			buf.WriteString(strings.TrimSpace(s.Text) + "\n\n")
		}
	}
	return &Document{Title: title, Text: buf.String()}, nil
}
