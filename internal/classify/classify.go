// Package classify scores normalized text fragments on weighted signal
// families and assigns a tentative heading level. Numbering is the strongest
// signal and always wins over typography; typography alone needs both size
// and confidence so merely large text is not over-promoted.
package classify

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/bwrigley/docoutline/internal/outline"
)

// Config carries the classifier thresholds.
type Config struct {
	ConfidenceThreshold float64
	FontSizeH1          float64
	FontSizeH2          float64
	FontSizeH3          float64
}

// DefaultConfig returns the canonical threshold set.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.7,
		FontSizeH1:          18,
		FontSizeH2:          16,
		FontSizeH3:          14,
	}
}

// Context carries positional hints about a fragment.
type Context struct {
	TopOfPage            bool
	PrecededByWhitespace bool
}

// Classification is the classifier verdict for an accepted fragment.
type Classification struct {
	Level      outline.Level
	Confidence float64
	Evidence   []string
}

// Family identifies a signal family; keeping these as a closed enum keeps the
// scoring function exhaustively checkable.
type Family int

const (
	FamilyFormatting Family = iota
	FamilyNumbering
	FamilyKeyword
	FamilyStructure
	FamilyLength
	FamilyContext
)

// Signal is one weighted contribution to the confidence score.
type Signal struct {
	Family Family
	Label  string
	Weight float64
}

var (
	// Go's regexp has no lookahead; the negated character classes below stand
	// in for the original (?!\d) / (?!\.) guards.
	numberedMain   = regexp.MustCompile(`^[1-9]\.([^0-9]|$)`)
	numberedSub    = regexp.MustCompile(`^\d+\.\d+([^.0-9]|$)`)
	numberedSubSub = regexp.MustCompile(`^\d+\.\d+\.\d+`)

	appendixRe = regexp.MustCompile(`(?i)\b(appendix|annex)\b`)
	majorRe    = regexp.MustCompile(`(?i)\b(introduction|summary|conclusion|references|bibliography|acknowledgements|abstract|overview)\b`)

	datesRe   = regexp.MustCompile(`\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}`)
	timesRe   = regexp.MustCompile(`(?i)\d{1,2}:\d{2}(\s*(am|pm))?`)
	fundingRe = regexp.MustCompile(`(?i)(\$|million|funding)`)
	monthsRe  = regexp.MustCompile(`(?i)\b(march|april|may|june|july|august|september|october|november|december)\s+\d{4}\b`)
)

// sectionPriority maps well-known section keywords to their heading level.
// Order matters: the first keyword contained in the text wins.
var sectionPriority = []struct {
	keyword  string
	priority outline.Level
}{
	{"revision history", 1},
	{"table of contents", 1},
	{"acknowledgements", 1},
	{"introduction", 1},
	{"overview", 1},
	{"references", 1},
	{"abstract", 1},
	{"conclusion", 1},
	{"appendix", 1},
	{"bibliography", 1},
	{"summary", 2},
	{"background", 2},
	{"approach", 2},
	{"evaluation", 2},
	{"milestones", 2},
	{"business plan", 2},
	{"specific proposal", 2},
	{"equitable access", 3},
	{"shared decision", 3},
	{"shared governance", 3},
	{"local points", 3},
	{"guidance", 3},
	{"training", 3},
}

// Classifier scores heading candidates. The exclusion cache is per instance;
// create one Classifier per document run.
type Classifier struct {
	cfg            Config
	exclusionCache map[string]bool
}

func New(cfg Config) *Classifier {
	if cfg.ConfidenceThreshold <= 0 || cfg.ConfidenceThreshold > 1 {
		cfg.ConfidenceThreshold = 0.7
	}
	if cfg.FontSizeH1 <= 0 {
		cfg.FontSizeH1 = 18
	}
	if cfg.FontSizeH2 <= 0 {
		cfg.FontSizeH2 = 16
	}
	if cfg.FontSizeH3 <= 0 {
		cfg.FontSizeH3 = 14
	}
	return &Classifier{
		cfg:            cfg,
		exclusionCache: make(map[string]bool),
	}
}

// Classify scores cleaned text against the signal families. It returns nil
// when the fragment is excluded outright or scores below the confidence
// threshold — a miss, not an error.
func (c *Classifier) Classify(text string, fontSize float64, isBold bool, ctx *Context) *Classification {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(strings.TrimSpace(text))

	// Dates, times, funding lines, and "Month YYYY" timeline rows dominate
	// any positive signal.
	if c.isExcluded(lower) {
		return nil
	}

	signals := c.score(text, lower, fontSize, isBold, ctx)
	score := 0.0
	evidence := make([]string, 0, len(signals))
	for _, s := range signals {
		score += s.Weight
		evidence = append(evidence, s.Label)
	}
	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}

	if score < c.cfg.ConfidenceThreshold {
		return nil
	}

	return &Classification{
		Level:      c.level(text, lower, fontSize, score),
		Confidence: score,
		Evidence:   evidence,
	}
}

func (c *Classifier) isExcluded(lower string) bool {
	if v, hit := c.exclusionCache[lower]; hit {
		return v
	}
	excluded := datesRe.MatchString(lower) ||
		timesRe.MatchString(lower) ||
		fundingRe.MatchString(lower) ||
		monthsRe.MatchString(lower)
	c.exclusionCache[lower] = excluded
	return excluded
}

// score sums the independently triggerable signal families.
func (c *Classifier) score(text, lower string, fontSize float64, isBold bool, ctx *Context) []Signal {
	var signals []Signal
	add := func(f Family, label string, w float64) {
		signals = append(signals, Signal{Family: f, Label: label, Weight: w})
	}

	// Formatting.
	if isBold {
		add(FamilyFormatting, "bold formatting", 0.30)
	}
	switch {
	case fontSize >= c.cfg.FontSizeH1:
		add(FamilyFormatting, fmt.Sprintf("large font size (%g)", fontSize), 0.40)
	case fontSize >= c.cfg.FontSizeH2:
		add(FamilyFormatting, fmt.Sprintf("medium font size (%g)", fontSize), 0.30)
	case fontSize >= c.cfg.FontSizeH3:
		add(FamilyFormatting, fmt.Sprintf("above-average font size (%g)", fontSize), 0.20)
	}

	// Numbering.
	switch {
	case numberedMain.MatchString(text):
		add(FamilyNumbering, "numbered main section", 0.50)
	case numberedSub.MatchString(text):
		add(FamilyNumbering, "numbered subsection", 0.40)
	case numberedSubSub.MatchString(text):
		add(FamilyNumbering, "numbered sub-subsection", 0.30)
	}

	// Keywords.
	if majorRe.MatchString(lower) {
		add(FamilyKeyword, "major section keyword", 0.40)
	}
	if appendixRe.MatchString(lower) {
		add(FamilyKeyword, "appendix section", 0.50)
	}

	// Structure.
	if strings.HasSuffix(text, ":") {
		add(FamilyStructure, "ends with colon", 0.20)
	}
	if isTitleCase(text) {
		add(FamilyStructure, "title case", 0.15)
	}
	if isAllUpper(text) && len([]rune(text)) > 8 {
		add(FamilyStructure, "all caps", 0.20)
	}

	// Length.
	length := len([]rune(text))
	switch {
	case length >= 10 && length <= 80:
		add(FamilyLength, "appropriate length", 0.10)
	case length > 200:
		add(FamilyLength, "too long for heading", -0.20)
	}

	// Positional context.
	if ctx != nil {
		if ctx.TopOfPage {
			add(FamilyContext, "top of page", 0.10)
		}
		if ctx.PrecededByWhitespace {
			add(FamilyContext, "preceded by whitespace", 0.05)
		}
	}

	return signals
}

// level assigns the heading level. Precedence: numbering depth, then keyword
// priority, then font size combined with confidence, then H4.
func (c *Classifier) level(text, lower string, fontSize, score float64) outline.Level {
	switch {
	case numberedMain.MatchString(text):
		return 1
	case numberedSub.MatchString(text):
		return 2
	case numberedSubSub.MatchString(text):
		return 3
	}

	for _, s := range sectionPriority {
		if strings.Contains(lower, s.keyword) {
			return s.priority
		}
	}

	switch {
	case fontSize >= c.cfg.FontSizeH1 && score >= 0.8:
		return 1
	case fontSize >= c.cfg.FontSizeH2 && score >= 0.7:
		return 2
	case fontSize >= c.cfg.FontSizeH3:
		return 3
	default:
		return 4
	}
}

// isTitleCase mirrors Python str.istitle: every cased word starts with an
// uppercase letter and continues lowercase, with at least one cased rune.
func isTitleCase(text string) bool {
	cased := false
	expectUpper := true
	for _, r := range text {
		switch {
		case unicode.IsUpper(r):
			if !expectUpper {
				return false
			}
			cased = true
			expectUpper = false
		case unicode.IsLower(r):
			if expectUpper {
				return false
			}
			cased = true
		default:
			expectUpper = true
		}
	}
	return cased
}

// isAllUpper reports whether text has cased runes and none are lowercase.
func isAllUpper(text string) bool {
	cased := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
