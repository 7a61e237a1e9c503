package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/bwrigley/docoutline/internal/normalize"
	"github.com/bwrigley/docoutline/internal/outline"
)

// TextParser handles plain text files. Form feeds delimit pages; wrapped
// lines are re-merged so a heading split across lines arrives as one run.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pages [][]string
	var lines []string

	for scanner.Scan() {
		line := scanner.Text()
		for strings.Contains(line, "\f") {
			before, after, _ := strings.Cut(line, "\f")
			if s := strings.TrimRight(before, " \t"); s != "" {
				lines = append(lines, s)
			}
			pages = append(pages, lines)
			lines = nil
			line = after
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	if err := scanner.Err(); err != nil {
		return nil, &ExtractionError{Op: "text scan", Err: err}
	}
	pages = append(pages, lines)

	merger := normalize.New(normalize.DefaultConfig())

	doc := &outline.Document{Filename: filename}
	orderIdx := 0

	for pageIdx, pageLines := range pages {
		y := 0.0
		for _, text := range merger.MergeFragments(pageLines) {
			text = strings.TrimSpace(text)
			if text == "" {
				y += lineHeight
				continue
			}
			size := float64(bodyFontSize)
			if looksLikeTextHeading(text) {
				size = fontSizeForLevel(2)
			}
			doc.Runs = append(doc.Runs, outline.TextRun{
				Text:      text,
				FontSize:  size,
				IsBold:    false,
				YPosition: y,
				Page:      pageIdx + 1,
				OrderIdx:  orderIdx,
			})
			orderIdx++
			y += lineHeight
		}
	}

	return doc, nil
}

// looksLikeTextHeading spots lines that read like headings in unformatted
// text: short, no trailing sentence punctuation, numbered or capitalized.
func looksLikeTextHeading(line string) bool {
	if len(line) > 80 {
		return false
	}
	if strings.HasSuffix(line, ".") || strings.HasSuffix(line, ",") || strings.HasSuffix(line, ";") {
		// Numbered headings like "3." keep the trailing dot.
		trimmed := strings.TrimRight(line, ".")
		if !isAllDigits(trimmed) {
			return false
		}
	}
	first := []rune(line)
	if len(first) == 0 {
		return false
	}
	c := first[0]
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z')
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
