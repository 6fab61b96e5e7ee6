package loader

import (
	"io"
)

// TextLoader handles plain text files. The text passes through
// unchanged; the structural parser treats it as one heading-less
// section.
type TextLoader struct{}

func (l *TextLoader) Load(r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		Title: titleFromFilename(filename),
		Text:  string(data),
	}, nil
}
