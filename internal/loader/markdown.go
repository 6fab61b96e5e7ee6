package loader

import (
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownLoader handles Markdown files. The raw markdown passes
// through untouched since the structural parser consumes the markers
// directly; goldmark only pulls the first level-1 heading as the
// document title.
type MarkdownLoader struct{}

func (l *MarkdownLoader) Load(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	title := firstH1(src)
	if title == "" {
		title = titleFromFilename(filename)
	}

	return &Document{
		Title: title,
		Text:  string(src),
	}, nil
}

// firstH1 walks the goldmark AST and returns the text of the first
// level-1 heading, if any.
func firstH1(src []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 {
			continue
		}
		return string(h.Text(src))
	}
	return ""
}
