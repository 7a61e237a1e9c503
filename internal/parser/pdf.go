package parser

import (
	"bytes"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bwrigley/docoutline/internal/outline"
	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFParser handles PDF files. pdfcpu supplies the document's built-in
// outline (bookmarks); ledongthuc/pdf supplies positioned, font-annotated
// text runs for the fallback pipeline.
type PDFParser struct{}

// yLineTolerance groups text fragments whose baselines differ by less than
// this many points into one line.
const yLineTolerance = 2.0

// defaultPageHeight is the US Letter height used when a page carries no
// resolvable MediaBox.
const defaultPageHeight = 792.0

func (p *PDFParser) Parse(r io.Reader, filename string) (*outline.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ExtractionError{Op: "pdf read", Err: err}
	}

	doc := &outline.Document{
		Filename: filename,
		Builtin:  pdfBookmarks(bytes.NewReader(data)),
	}

	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docoutline-pdf-*.pdf")
	if err != nil {
		return nil, &ExtractionError{Op: "pdf temp file", Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, &ExtractionError{Op: "pdf temp write", Err: err}
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, &ExtractionError{Op: "pdf open", Err: err}
	}
	defer f.Close()

	doc.Metadata = pdfMetadata(reader)
	doc.Runs = pdfRuns(reader)

	return doc, nil
}

// pdfBookmarks walks the PDF outline tree, if any, into flat builtin entries.
// A document without bookmarks yields nil, never an error.
func pdfBookmarks(rs io.ReadSeeker) []outline.BuiltinEntry {
	conf := model.NewDefaultConfiguration()
	bms, err := api.Bookmarks(rs, conf)
	if err != nil || len(bms) == 0 {
		return nil
	}

	var entries []outline.BuiltinEntry
	var walk func(bms []pdfcpu.Bookmark, depth int)
	walk = func(bms []pdfcpu.Bookmark, depth int) {
		for _, bm := range bms {
			if title := strings.TrimSpace(bm.Title); title != "" {
				entries = append(entries, outline.BuiltinEntry{
					Level: depth,
					Title: title,
					Page:  bm.PageFrom,
				})
			}
			walk(bm.Kids, depth+1)
		}
	}
	walk(bms, 1)
	return entries
}

// pdfMetadata pulls the Info dictionary. Malformed trailers in the wild make
// this recover-guarded; metadata is best effort.
func pdfMetadata(reader *pdflib.Reader) (meta outline.Metadata) {
	defer func() {
		if recover() != nil {
			meta = outline.Metadata{}
		}
	}()

	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}
	meta.Title = strings.TrimSpace(info.Key("Title").Text())
	meta.Author = strings.TrimSpace(info.Key("Author").Text())
	meta.Creator = strings.TrimSpace(info.Key("Creator").Text())
	meta.Producer = strings.TrimSpace(info.Key("Producer").Text())
	return meta
}

// pdfRuns extracts one TextRun per rendered line, page by page. Pages that
// fail to decode are skipped, never fatal.
func pdfRuns(reader *pdflib.Reader) []outline.TextRun {
	var runs []outline.TextRun
	orderIdx := 0

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		lines := pageLines(page)
		for _, line := range lines {
			text := strings.TrimSpace(line.text)
			if len(text) <= 3 {
				continue
			}
			runs = append(runs, outline.TextRun{
				Text:      text,
				FontSize:  line.fontSize,
				IsBold:    line.bold,
				YPosition: line.yFromTop,
				Page:      pageNum,
				OrderIdx:  orderIdx,
			})
			orderIdx++
		}
	}
	return runs
}

type pdfLine struct {
	text     string
	fontSize float64
	bold     bool
	yFromTop float64
}

// pageLines groups a page's raw text fragments into lines by baseline,
// ordered top to bottom. Decode panics from damaged content streams are
// contained to the page.
func pageLines(page pdflib.Page) (lines []pdfLine) {
	defer func() {
		if recover() != nil {
			lines = nil
		}
	}()

	content := page.Content()
	texts := content.Text
	if len(texts) == 0 {
		return nil
	}

	height := pageHeight(page)

	// Top to bottom (PDF Y grows upward), then left to right.
	sort.SliceStable(texts, func(i, j int) bool {
		if texts[i].Y != texts[j].Y {
			return texts[i].Y > texts[j].Y
		}
		return texts[i].X < texts[j].X
	})

	var cur []pdflib.Text
	flush := func() {
		if len(cur) == 0 {
			return
		}
		lines = append(lines, assembleLine(cur, height))
		cur = nil
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if len(cur) > 0 && abs(cur[0].Y-t.Y) > yLineTolerance {
			flush()
		}
		cur = append(cur, t)
	}
	flush()

	return lines
}

// assembleLine concatenates a line's fragments left to right, inserting a
// space across visible horizontal gaps. Font size and boldness come from the
// largest fragment; the biggest type on a line is what a reader sees.
func assembleLine(frags []pdflib.Text, pageHeight float64) pdfLine {
	sort.SliceStable(frags, func(i, j int) bool { return frags[i].X < frags[j].X })

	var sb strings.Builder
	maxSize := 0.0
	bold := false
	prevEnd := 0.0

	for i, t := range frags {
		if i > 0 && t.X-prevEnd > 1.0 && !strings.HasSuffix(sb.String(), " ") && !strings.HasPrefix(t.S, " ") {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.S)
		prevEnd = t.X + t.W
		if t.FontSize > maxSize {
			maxSize = t.FontSize
			bold = isBoldFont(t.Font)
		}
	}

	return pdfLine{
		text:     sb.String(),
		fontSize: maxSize,
		bold:     bold,
		yFromTop: pageHeight - frags[0].Y,
	}
}

func pageHeight(page pdflib.Page) float64 {
	mb := page.V.Key("MediaBox")
	if mb.IsNull() || mb.Len() < 4 {
		return defaultPageHeight
	}
	h := mb.Index(3).Float64() - mb.Index(1).Float64()
	if h <= 0 {
		return defaultPageHeight
	}
	return h
}

func isBoldFont(font string) bool {
	lower := strings.ToLower(font)
	return strings.Contains(lower, "bold") || strings.Contains(lower, "black") || strings.Contains(lower, "heavy")
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
