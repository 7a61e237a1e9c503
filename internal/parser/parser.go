// Package parser turns raw document bytes into the pipeline handoff: a
// built-in outline when the format exposes explicit structure, and a
// page-ordered stream of positioned, font-annotated text runs.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bwrigley/docoutline/internal/outline"
)

// Parser converts raw document bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*outline.Document, error)
}

// ExtractionError marks a transient upstream failure (unreadable or corrupt
// input stream). The pipeline retries these with backoff; everything else
// fails the document immediately.
type ExtractionError struct {
	Op  string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// fontSizeForLevel synthesizes a font size for formats that declare heading
// levels instead of typography, so the text pipeline sees familiar signals
// when the built-in outline is too small to trust.
func fontSizeForLevel(level int) float64 {
	switch level {
	case 1:
		return 18
	case 2:
		return 16
	case 3:
		return 14
	default:
		return 12
	}
}

// bodyFontSize is the synthesized size for non-heading text.
const bodyFontSize = 11.0

// lineHeight spaces synthesized runs vertically.
const lineHeight = 14.0
