package parser

import (
	"io"
	"os"
	"strings"

	"github.com/bwrigley/docoutline/internal/outline"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Paragraphs with Heading styles become
// builtin outline entries; everything is also synthesized into text runs.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "docoutline-docx-*.docx")
	if err != nil {
		return nil, &ExtractionError{Op: "docx temp file", Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, &ExtractionError{Op: "docx temp write", Err: err}
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, &ExtractionError{Op: "docx temp seek", Err: err}
	}

	wordDoc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, &ExtractionError{Op: "docx parse", Err: err}
	}

	doc := &outline.Document{Filename: filename}

	orderIdx := 0
	y := 0.0
	page := 1

	for _, item := range wordDoc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		level := docxHeadingLevel(para)
		if level > 0 {
			doc.Builtin = append(doc.Builtin, outline.BuiltinEntry{
				Level: level,
				Title: text,
				Page:  page,
			})
		}

		size := float64(bodyFontSize)
		bold := false
		if level > 0 {
			size = fontSizeForLevel(level)
			bold = true
		}
		doc.Runs = append(doc.Runs, outline.TextRun{
			Text:      text,
			FontSize:  size,
			IsBold:    bold,
			YPosition: y,
			Page:      page,
			OrderIdx:  orderIdx,
		})
		orderIdx++
		y += lineHeight
	}

	return doc, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	switch style {
	case "heading1":
		return 1
	case "heading2":
		return 2
	case "heading3":
		return 3
	case "heading4":
		return 4
	case "heading5":
		return 5
	case "heading6":
		return 6
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
