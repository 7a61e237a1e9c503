package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/bwrigley/docoutline/internal/outline"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. ATX/setext headings
// are explicit structure, so they are emitted as a builtin outline; all
// blocks are also synthesized into text runs so the heuristic pipeline can
// take over when a document has too few headings to trust.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, &ExtractionError{Op: "markdown read", Err: err}
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)

	doc := &outline.Document{Filename: filename}

	orderIdx := 0
	y := 0.0
	addRun := func(s string, size float64, bold bool) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		doc.Runs = append(doc.Runs, outline.TextRun{
			Text:      s,
			FontSize:  size,
			IsBold:    bold,
			YPosition: y,
			Page:      1,
			OrderIdx:  orderIdx,
		})
		orderIdx++
		y += lineHeight
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := strings.TrimSpace(string(node.Text(src)))
			if title == "" {
				continue
			}
			doc.Builtin = append(doc.Builtin, outline.BuiltinEntry{
				Level: node.Level,
				Title: title,
				Page:  1,
			})
			addRun(title, fontSizeForLevel(node.Level), true)
		default:
			addRun(blockText(n, src), bodyFontSize, false)
		}
	}

	return doc, nil
}

// blockText gets the text content of a goldmark AST block node.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(blockText(c, src))
	}
	return strings.TrimSpace(buf.String())
}
