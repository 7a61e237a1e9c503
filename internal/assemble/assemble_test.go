package assemble

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/bwrigley/docoutline/internal/outline"
)

func TestAssemble_TrustedBuiltinOutlineBypassesClassifier(t *testing.T) {
	a := New(DefaultConfig())

	// "Intro" would never survive normalization; a trusted builtin outline
	// keeps it anyway.
	doc := &outline.Document{
		Filename: "annual_report.pdf",
		Builtin: []outline.BuiltinEntry{
			{Level: 1, Title: "Intro", Page: 1},
			{Level: 2, Title: "Scope", Page: 2},
			{Level: 1, Title: "Findings", Page: 5},
			{Level: 2, Title: "Detail", Page: 7},
		},
	}

	res := a.Assemble(doc)
	if len(res.Outline) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(res.Outline))
	}
	wantLevels := []outline.Level{1, 2, 1, 2}
	wantTexts := []string{"Intro", "Scope", "Findings", "Detail"}
	for i := range wantTexts {
		if res.Outline[i].Text != wantTexts[i] || res.Outline[i].Level != wantLevels[i] {
			t.Errorf("entry %d: got %q/%s, want %q/%s",
				i, res.Outline[i].Text, res.Outline[i].Level, wantTexts[i], wantLevels[i])
		}
	}
}

func TestAssemble_SmallBuiltinOutlineFallsBack(t *testing.T) {
	a := New(DefaultConfig())

	// Three or fewer builtin entries are not trusted; the text pipeline
	// still finds the real headings.
	doc := &outline.Document{
		Filename: "notes.pdf",
		Builtin: []outline.BuiltinEntry{
			{Level: 1, Title: "Cover", Page: 1},
		},
		Runs: []outline.TextRun{
			{Text: "1. Introduction", FontSize: 18, IsBold: true, YPosition: 100, Page: 1, OrderIdx: 0},
			{Text: "This paragraph describes the purpose of the document in plain prose.", FontSize: 11, YPosition: 130, Page: 1, OrderIdx: 1},
			{Text: "2. Conclusions", FontSize: 18, IsBold: true, YPosition: 90, Page: 2, OrderIdx: 2},
		},
	}

	res := a.Assemble(doc)
	if len(res.Outline) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(res.Outline), res.Outline)
	}
	if res.Outline[0].Text != "1. Introduction" || res.Outline[0].Level != 1 {
		t.Errorf("unexpected first entry %+v", res.Outline[0])
	}
	if res.Outline[1].Text != "2. Conclusions" || res.Outline[1].Page != 2 {
		t.Errorf("unexpected second entry %+v", res.Outline[1])
	}
}

func TestAssemble_BuiltinDeduplicates(t *testing.T) {
	a := New(DefaultConfig())

	doc := &outline.Document{
		Filename: "dup.pdf",
		Builtin: []outline.BuiltinEntry{
			{Level: 1, Title: "Overview", Page: 1},
			{Level: 1, Title: " Overview ", Page: 1},
			{Level: 2, Title: "Detail", Page: 2},
			{Level: 2, Title: "Detail", Page: 3},
			{Level: 1, Title: "Closing", Page: 4},
		},
	}

	res := a.Assemble(doc)
	if len(res.Outline) != 3 {
		t.Fatalf("expected 3 deduplicated entries, got %d", len(res.Outline))
	}
}

func TestAssemble_EmptyDocument(t *testing.T) {
	a := New(DefaultConfig())

	res := a.Assemble(&outline.Document{Filename: "empty_scan.pdf"})
	if res.Outline == nil {
		t.Fatal("outline must be an empty slice, not nil")
	}
	if len(res.Outline) != 0 {
		t.Errorf("expected empty outline, got %d entries", len(res.Outline))
	}
	if res.Title != "Empty Scan" {
		t.Errorf("expected filename-derived title, got %q", res.Title)
	}
}

func TestResolveTitle_MetadataWins(t *testing.T) {
	a := New(DefaultConfig())

	doc := &outline.Document{
		Filename: "file.pdf",
		Metadata: outline.Metadata{Title: "Municipal Water Quality Study"},
		Builtin: []outline.BuiltinEntry{
			{Level: 1, Title: "Alpha", Page: 1},
			{Level: 1, Title: "Beta", Page: 2},
			{Level: 1, Title: "Gamma", Page: 3},
			{Level: 1, Title: "Delta", Page: 4},
		},
	}
	if res := a.Assemble(doc); res.Title != "Municipal Water Quality Study" {
		t.Errorf("expected metadata title, got %q", res.Title)
	}
}

func TestResolveTitle_GeneratorArtifactRejected(t *testing.T) {
	a := New(DefaultConfig())

	doc := &outline.Document{
		Filename: "report.pdf",
		Metadata: outline.Metadata{Title: "Microsoft Word - report_final.docx"},
		Runs: []outline.TextRun{
			{Text: "Annual Safety Report", FontSize: 22, IsBold: true, YPosition: 50, Page: 1, OrderIdx: 0},
			{Text: "Prepared by the facilities team for internal circulation.", FontSize: 11, YPosition: 400, Page: 1, OrderIdx: 1},
			{Text: "Some closing text near the bottom of the page.", FontSize: 11, YPosition: 700, Page: 1, OrderIdx: 2},
		},
	}
	if res := a.Assemble(doc); res.Title != "Annual Safety Report" {
		t.Errorf("expected title from large bold run, got %q", res.Title)
	}
}

func TestTitleFromFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"south_of_france-cities.pdf", "South Of France Cities"},
		{"notes.md", "Notes"},
		{"", "Untitled Document"},
		{"dir/some-deck.pptx", "Some Deck"},
	}
	for _, tc := range cases {
		if got := TitleFromFilename(tc.in); got != tc.want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	a := New(DefaultConfig())

	doc := &outline.Document{
		Filename: "determinism.pdf",
		Runs: []outline.TextRun{
			{Text: "1. Introduction", FontSize: 18, IsBold: true, YPosition: 80, Page: 1, OrderIdx: 0},
			{Text: "1.1 Purpose and Audience", FontSize: 16, IsBold: true, YPosition: 200, Page: 1, OrderIdx: 1},
			{Text: "2. Methodology Overview", FontSize: 18, IsBold: true, YPosition: 90, Page: 2, OrderIdx: 2},
			{Text: "Filler body text that should never classify as a heading.", FontSize: 11, YPosition: 300, Page: 2, OrderIdx: 3},
		},
	}

	first, err := json.Marshal(a.Assemble(doc))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(a.Assemble(doc))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("same document produced different outlines:\n%s\n%s", first, second)
	}
}
