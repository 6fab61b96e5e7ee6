package loader

import (
	"strings"
	"testing"
)

func TestForFile_Dispatch(t *testing.T) {
	cases := map[string]bool{
		"notes.txt":   true,
		"guide.md":    true,
		"GUIDE.MD":    true,
		"data.csv":    true,
		"page.html":   true,
		"doc.pdf":     true,
		"trip.docx":   true,
		"export.json": true,
		"image.png":   false,
		"archive.zip": false,
	}
	for name, ok := range cases {
		_, err := ForFile(name)
		if ok && err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
		}
		if !ok && err == nil {
			t.Errorf("%s: expected unsupported-extension error", name)
		}
		if got := IsSupportedExtension(name); got != ok {
			t.Errorf("IsSupportedExtension(%s) = %v", name, got)
		}
	}
}

func TestTextLoader_Passthrough(t *testing.T) {
	doc, err := (&TextLoader{}).Load(strings.NewReader("plain notes here\n"), "notes.txt")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text != "plain notes here\n" {
		t.Errorf("text altered: %q", doc.Text)
	}
	if doc.Title != "notes" {
		t.Errorf("title from filename: %q", doc.Title)
	}
}

func TestMarkdownLoader_TitleFromH1(t *testing.T) {
	src := "# Kyoto in Three Days\n\nSome intro prose.\n"
	doc, err := (&MarkdownLoader{}).Load(strings.NewReader(src), "kyoto.md")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Kyoto in Three Days" {
		t.Errorf("title: %q", doc.Title)
	}
	if doc.Text != src {
		t.Error("markdown text must pass through unmodified")
	}
}

func TestMarkdownLoader_TitleFallback(t *testing.T) {
	doc, err := (&MarkdownLoader{}).Load(strings.NewReader("no headings here\n"), "trip-notes.md")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "trip-notes" {
		t.Errorf("fallback title: %q", doc.Title)
	}
}

func TestCSVLoader_RendersPipeTable(t *testing.T) {
	src := "Site,Hours\nMuseum,9-17\nCastle,10-16\n"
	doc, err := (&CSVLoader{}).Load(strings.NewReader(src), "sites.csv")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(doc.Text), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines:\n%s", len(lines), doc.Text)
	}
	if lines[0] != "| Site | Hours |" {
		t.Errorf("header row: %q", lines[0])
	}
	if !strings.Contains(lines[1], "---") {
		t.Errorf("separator row: %q", lines[1])
	}
	if lines[2] != "| Museum | 9-17 |" {
		t.Errorf("data row: %q", lines[2])
	}
}

func TestCSVLoader_EscapesPipes(t *testing.T) {
	src := "Name\nA|B\n"
	doc, err := (&CSVLoader{}).Load(strings.NewReader(src), "x.csv")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc.Text, `A\|B`) {
		t.Errorf("pipe not escaped:\n%s", doc.Text)
	}
}

func TestJSONLoader_TextShape(t *testing.T) {
	src := `{"title":"Trip Notes","text":"Day one was long.\n"}`
	doc, err := (&JSONLoader{}).Load(strings.NewReader(src), "x.json")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Trip Notes" || doc.Text != "Day one was long.\n" {
		t.Errorf("got %+v", doc)
	}
}

func TestJSONLoader_SectionsShape(t *testing.T) {
	src := `{"title":"Trip","sections":[{"heading":"Day 1","text":"Temples."},{"heading":"Day 2","text":"Markets."}]}`
	doc, err := (&JSONLoader{}).Load(strings.NewReader(src), "x.json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc.Text, "## Day 1") || !strings.Contains(doc.Text, "Markets.") {
		t.Errorf("sections not rendered:\n%s", doc.Text)
	}
}

func TestJSONLoader_RejectsEmptyShape(t *testing.T) {
	if _, err := (&JSONLoader{}).Load(strings.NewReader(`{"title":"Empty"}`), "x.json"); err == nil {
		t.Error("expected error for json without text or sections")
	}
}

func TestHTMLLoader_HeadingsAndBlocks(t *testing.T) {
	src := `<html><head><title>City Guide</title><style>p{}</style></head>
<body>
<nav>skip this</nav>
<h1>Old Town</h1>
<p>The square dates to 1348.</p>
<ul><li>Clock tower</li><li>Bridge</li></ul>
<script>alert("skip")</script>
</body></html>`
	doc, err := (&HTMLLoader{}).Load(strings.NewReader(src), "guide.html")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "City Guide" {
		t.Errorf("title: %q", doc.Title)
	}
	if !strings.Contains(doc.Text, "# Old Town") {
		t.Errorf("h1 not rendered as heading:\n%s", doc.Text)
	}
	if !strings.Contains(doc.Text, "The square dates to 1348.") {
		t.Errorf("paragraph lost:\n%s", doc.Text)
	}
	if !strings.Contains(doc.Text, "- Clock tower") {
		t.Errorf("list item lost:\n%s", doc.Text)
	}
	if strings.Contains(doc.Text, "skip") {
		t.Errorf("nav/script content leaked:\n%s", doc.Text)
	}
}
