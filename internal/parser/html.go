package parser

import (
	"io"
	"strings"

	"github.com/bwrigley/docoutline/internal/outline"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. h1..h6 elements become builtin outline
// entries; headings and paragraph-like blocks are also synthesized into text
// runs for the fallback pipeline.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, &ExtractionError{Op: "html parse", Err: err}
	}

	doc := &outline.Document{Filename: filename}
	if title := findTitle(root); title != "" {
		doc.Metadata.Title = title
	}

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

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				title := textContent(n)
				if title != "" {
					doc.Builtin = append(doc.Builtin, outline.BuiltinEntry{
						Level: level,
						Title: title,
						Page:  1,
					})
					addRun(title, fontSizeForLevel(level), true)
				}
				return // text already extracted, skip children
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote", "pre":
				addRun(textContent(n), bodyFontSize, false)
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	return doc, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
