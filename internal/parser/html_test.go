package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_HeadingsAndTitle(t *testing.T) {
	src := `<!DOCTYPE html>
<html>
<head><title>Service Handbook</title></head>
<body>
  <nav><a href="/">skip me entirely</a></nav>
  <h1>Getting Started</h1>
  <p>Introductory prose about the service.</p>
  <h2>Authentication <em>Basics</em></h2>
  <p>Token lifetimes and rotation.</p>
  <script>var ignored = true;</script>
</body>
</html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(src), "handbook.html")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Metadata.Title != "Service Handbook" {
		t.Errorf("expected title from <title>, got %q", doc.Metadata.Title)
	}

	if len(doc.Builtin) != 2 {
		t.Fatalf("expected 2 builtin entries, got %d", len(doc.Builtin))
	}
	if doc.Builtin[0].Title != "Getting Started" || doc.Builtin[0].Level != 1 {
		t.Errorf("unexpected first entry %+v", doc.Builtin[0])
	}
	// Inline markup inside a heading collapses into its text.
	if doc.Builtin[1].Title != "Authentication Basics" || doc.Builtin[1].Level != 2 {
		t.Errorf("unexpected second entry %+v", doc.Builtin[1])
	}

	for _, run := range doc.Runs {
		if strings.Contains(run.Text, "skip me") || strings.Contains(run.Text, "ignored") {
			t.Errorf("nav/script content leaked into runs: %q", run.Text)
		}
	}
}

func TestHTMLParser_HeadingRunsAreBold(t *testing.T) {
	src := `<html><body><h3>Appendix A: Field Reference</h3><p>Rows and columns.</p></body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(src), "ref.html")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(doc.Runs))
	}
	if !doc.Runs[0].IsBold || doc.Runs[0].FontSize != 14 {
		t.Errorf("expected bold 14pt h3 run, got %+v", doc.Runs[0])
	}
	if doc.Runs[1].IsBold {
		t.Errorf("body run should not be bold: %+v", doc.Runs[1])
	}
}
