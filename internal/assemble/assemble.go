// Package assemble produces the final outline for a parsed document. It
// prefers a document's built-in outline when one of meaningful size exists
// and otherwise runs the normalize -> classify -> hierarchy pipeline over the
// page-ordered text runs.
package assemble

import (
	"sort"
	"strings"

	"github.com/bwrigley/docoutline/internal/classify"
	"github.com/bwrigley/docoutline/internal/hierarchy"
	"github.com/bwrigley/docoutline/internal/normalize"
	"github.com/bwrigley/docoutline/internal/outline"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tocTrustMin is the builtin-outline entry count above which the document's
// own outline is taken as authoritative.
const tocTrustMin = 3

// highConfidence gates title resolution step (c).
const highConfidence = 0.8

// Config carries the assembler and downstream module thresholds.
type Config struct {
	MinFontSize     float64
	MaxOutlineDepth int
	Normalize       normalize.Config
	Classify        classify.Config
}

// DefaultConfig returns the canonical configuration.
func DefaultConfig() Config {
	return Config{
		MinFontSize:     10,
		MaxOutlineDepth: 6,
		Normalize:       normalize.DefaultConfig(),
		Classify:        classify.DefaultConfig(),
	}
}

// Assembler builds outline results. It is stateless across documents; all
// caches live in the per-run normalizer and classifier instances.
type Assembler struct {
	cfg Config
}

func New(cfg Config) *Assembler {
	if cfg.MaxOutlineDepth < 1 || cfg.MaxOutlineDepth > outline.MaxLevel {
		cfg.MaxOutlineDepth = outline.MaxLevel
	}
	return &Assembler{cfg: cfg}
}

// Assemble resolves the title and produces the ordered outline for doc.
func (a *Assembler) Assemble(doc *outline.Document) *outline.Result {
	if len(doc.Builtin) > tocTrustMin {
		return a.fromBuiltin(doc)
	}
	return a.fromRuns(doc)
}

// fromBuiltin trusts the document's own outline: entries are whitespace
// cleaned, deduplicated, and level-clamped. The classifier never sees them.
func (a *Assembler) fromBuiltin(doc *outline.Document) *outline.Result {
	seen := make(map[string]bool)
	entries := make([]outline.Entry, 0, len(doc.Builtin))

	for _, be := range doc.Builtin {
		text := strings.Join(strings.Fields(be.Title), " ")
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		entries = append(entries, outline.Entry{
			Level: outline.Level(be.Level).Clamp(a.cfg.MaxOutlineDepth),
			Text:  text,
			Page:  be.Page,
		})
	}

	// A trusted outline already encodes reading order within a page.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Page < entries[j].Page
	})

	return &outline.Result{
		Title:   a.resolveTitle(doc, nil),
		Outline: entries,
	}
}

// fromRuns runs the full text-derived pipeline.
func (a *Assembler) fromRuns(doc *outline.Document) *outline.Result {
	norm := normalize.New(a.cfg.Normalize)
	clf := classify.New(a.cfg.Classify)

	contexts := runContexts(doc.Runs)
	runs := evaluationOrder(doc.Runs)

	seen := make(map[string]bool)
	var candidates []outline.Candidate

	for _, run := range runs {
		if run.FontSize > 0 && run.FontSize < a.cfg.MinFontSize {
			continue
		}
		cleaned, ok := norm.Normalize(run.Text)
		if !ok || seen[cleaned] {
			continue
		}
		ctx := contexts[run.OrderIdx]
		cls := clf.Classify(cleaned, run.FontSize, run.IsBold, &ctx)
		if cls == nil {
			continue
		}
		seen[cleaned] = true
		candidates = append(candidates, outline.Candidate{
			RawText:     run.Text,
			CleanedText: cleaned,
			FontSize:    run.FontSize,
			IsBold:      run.IsBold,
			Page:        run.Page,
			Confidence:  cls.Confidence,
			Level:       cls.Level,
			Evidence:    cls.Evidence,
			Source:      outline.SourceText,
		})
	}

	roots := hierarchy.New(a.cfg.MaxOutlineDepth).Build(candidates)
	entries := hierarchy.Flatten(roots)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Page != entries[j].Page {
			return entries[i].Page < entries[j].Page
		}
		return entries[i].Level < entries[j].Level
	})
	if entries == nil {
		entries = []outline.Entry{}
	}

	return &outline.Result{
		Title:   a.resolveTitle(doc, candidates),
		Outline: entries,
	}
}

// evaluationOrder sorts runs page-ascending, and within a page largest font
// first, topmost first. This ordering drives adjacency merging and
// tie-breaking among same-position fragments.
func evaluationOrder(runs []outline.TextRun) []outline.TextRun {
	ordered := make([]outline.TextRun, len(runs))
	copy(ordered, runs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Page != ordered[j].Page {
			return ordered[i].Page < ordered[j].Page
		}
		if ordered[i].FontSize != ordered[j].FontSize {
			return ordered[i].FontSize > ordered[j].FontSize
		}
		return ordered[i].YPosition < ordered[j].YPosition
	})
	return ordered
}

// runContexts derives positional hints from the reading-order layout, keyed
// by document order index.
func runContexts(runs []outline.TextRun) map[int]classify.Context {
	byPage := make(map[int][]outline.TextRun)
	for _, run := range runs {
		byPage[run.Page] = append(byPage[run.Page], run)
	}

	contexts := make(map[int]classify.Context, len(runs))
	for _, pageRuns := range byPage {
		sort.SliceStable(pageRuns, func(i, j int) bool {
			return pageRuns[i].YPosition < pageRuns[j].YPosition
		})
		for i, run := range pageRuns {
			ctx := classify.Context{TopOfPage: i == 0}
			if i > 0 {
				gap := run.YPosition - pageRuns[i-1].YPosition
				if run.FontSize > 0 && gap > 1.5*run.FontSize {
					ctx.PrecededByWhitespace = true
				}
			}
			contexts[run.OrderIdx] = ctx
		}
	}
	return contexts
}

// resolveTitle tries, in order: document metadata, a large bold fragment near
// the top of page one, the first high-confidence page-one heading, and
// finally a cleaned-up form of the filename. It never fails.
func (a *Assembler) resolveTitle(doc *outline.Document, candidates []outline.Candidate) string {
	if t := strings.TrimSpace(doc.Metadata.Title); t != "" && !isGeneratorArtifact(t) {
		return t
	}

	if t := a.titleFromFirstPage(doc.Runs); t != "" {
		return t
	}

	for _, c := range candidates {
		if c.Page == 1 && c.Confidence >= highConfidence {
			return c.CleanedText
		}
	}

	return TitleFromFilename(doc.Filename)
}

// titleFromFirstPage looks for a large, bold fragment in the top band of the
// first page.
func (a *Assembler) titleFromFirstPage(runs []outline.TextRun) string {
	var firstPage []outline.TextRun
	maxY := 0.0
	for _, run := range runs {
		if run.Page != 1 {
			continue
		}
		firstPage = append(firstPage, run)
		if run.YPosition > maxY {
			maxY = run.YPosition
		}
	}
	if len(firstPage) == 0 {
		return ""
	}
	topBand := maxY * 0.3

	best := -1
	for i, run := range firstPage {
		if !run.IsBold || run.FontSize < a.cfg.Classify.FontSizeH1 {
			continue
		}
		if maxY > 0 && run.YPosition > topBand {
			continue
		}
		if best == -1 || run.FontSize > firstPage[best].FontSize ||
			(run.FontSize == firstPage[best].FontSize && run.YPosition < firstPage[best].YPosition) {
			best = i
		}
	}
	if best == -1 {
		return ""
	}
	return strings.Join(strings.Fields(firstPage[best].Text), " ")
}

// generator artifacts: titles stamped by authoring tools rather than authors.
var artifactPrefixes = []string{
	"microsoft word -",
	"microsoft powerpoint -",
	"untitled",
	"slide 1",
}

func isGeneratorArtifact(title string) bool {
	lower := strings.ToLower(title)
	for _, p := range artifactPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	for _, ext := range []string{".doc", ".docx", ".pdf", ".indd", ".qxd"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return len([]rune(title)) < 4
}

var titleCaser = cases.Title(language.English)

// TitleFromFilename derives a last-resort document title from a filename:
// extension and separators stripped, title-cased.
func TitleFromFilename(filename string) string {
	name := filename
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	for _, sep := range []string{"_", "-", "."} {
		name = strings.ReplaceAll(name, sep, " ")
	}
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "Untitled Document"
	}
	return titleCaser.String(name)
}
