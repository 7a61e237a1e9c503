// Package normalize cleans raw text fragments into canonical heading
// candidates. Rules are script-aware: CJK and other non-Latin scripts carry
// meaning in far fewer characters than Latin text does.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Config controls normalization behavior. Zero values fall back to defaults.
type Config struct {
	MinHeadingLength    int     // minimum rune count for Latin-script text
	MaxHeadingLength    int     // fragments longer than this are rejected
	PunctRatioThreshold float64 // dot-artifact ratio above which text is dropped
}

// DefaultConfig returns the canonical thresholds.
func DefaultConfig() Config {
	return Config{
		MinHeadingLength:    5,
		MaxHeadingLength:    200,
		PunctRatioThreshold: 0.3,
	}
}

// Exclusion patterns are compiled once; they match the full cleaned,
// lowercased fragment.
var exclusionPatterns = []*regexp.Regexp{
	// Pure dates and times.
	regexp.MustCompile(`^\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}$`),
	regexp.MustCompile(`^(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}$`),
	regexp.MustCompile(`^\d{1,2}:\d{2}(\s*(am|pm))?$`),
	// Page references, including Japanese and Chinese forms.
	regexp.MustCompile(`^(page\s+\d+|p\.\s*\d+|ページ\s*\d+|第\s*\d+\s*页)$`),
	// Pure numbers.
	regexp.MustCompile(`^\d+$`),
	// Email and URL fragments.
	regexp.MustCompile(`.*([@.]com|[@.]org|[@.]ca|[@.]edu).*`),
	// Table header tokens.
	regexp.MustCompile(`^(s\.no|sr\.no|no\.|name|date|signature|remarks|version|名前|日付|署名)\.?$`),
	// Runs of punctuation and leader artifacts.
	regexp.MustCompile(`^(\.{3,}|_{3,}|-{3,}|…{2,})$`),
	// Connectives and particles that leak out of broken lines.
	regexp.MustCompile(`^(and|or|the|of|in|to|for|with|by|from|at|on|は|が|を|に|で|と|から|まで)$`),
}

// structuralWords are short single words that are still real headings.
var structuralWords = map[string]bool{
	"summary":      true,
	"background":   true,
	"introduction": true,
	"conclusion":   true,
	"references":   true,
	"appendix":     true,
}

type cacheEntry struct {
	text string
	ok   bool
}

// Normalizer cleans raw fragments. It memoizes results per instance; create
// one per document run so the cache never outlives a document.
type Normalizer struct {
	cfg   Config
	cache map[string]cacheEntry
}

func New(cfg Config) *Normalizer {
	if cfg.MinHeadingLength <= 0 {
		cfg.MinHeadingLength = 5
	}
	if cfg.MaxHeadingLength <= 0 {
		cfg.MaxHeadingLength = 200
	}
	if cfg.PunctRatioThreshold <= 0 {
		cfg.PunctRatioThreshold = 0.3
	}
	return &Normalizer{
		cfg:   cfg,
		cache: make(map[string]cacheEntry),
	}
}

// Normalize cleans raw text into a heading candidate. The second return is
// false when the fragment is rejected. It never panics and has no failure
// mode beyond rejection.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	if e, hit := n.cache[raw]; hit {
		return e.text, e.ok
	}
	text, ok := n.clean(raw)
	n.cache[raw] = cacheEntry{text: text, ok: ok}
	return text, ok
}

func (n *Normalizer) clean(raw string) (string, bool) {
	text := norm.NFC.String(raw)

	cjk := hasCJK(text)
	nonLatin := cjk || hasNonLatin(text)

	// Leader-dot artifact filter. Dot density is meaningless for non-Latin
	// scripts where the ratio of ideographs to punctuation runs differently.
	if !nonLatin && dotRatio(text) > n.cfg.PunctRatioThreshold {
		return "", false
	}

	cleaned := strings.Join(strings.Fields(text), " ")
	if cleaned == "" {
		return "", false
	}

	runes := len([]rune(cleaned))
	if runes <= n.minLengthForScript(cleaned, cjk, nonLatin) {
		return "", false
	}
	if runes > n.cfg.MaxHeadingLength {
		return "", false
	}

	lower := strings.ToLower(cleaned)
	for _, p := range exclusionPatterns {
		if p.MatchString(lower) {
			return "", false
		}
	}

	switch {
	case cjk:
		if !passesCJKFilters(cleaned) {
			return "", false
		}
	case nonLatin:
		if !passesNonLatinFilters(cleaned) {
			return "", false
		}
	default:
		if !passesLatinFilters(cleaned, lower) {
			return "", false
		}
	}

	return cleaned, true
}

func (n *Normalizer) minLengthForScript(text string, cjk, nonLatin bool) int {
	switch {
	case cjk:
		return 1 // single ideographs are rarely headings, two already can be
	case nonLatin:
		return 2
	default:
		return n.cfg.MinHeadingLength
	}
}

// passesLatinFilters applies the broken-word and single-word heuristics that
// only make sense for vowel-bearing, space-separated scripts.
func passesLatinFilters(text, lower string) bool {
	runes := len([]rune(text))

	// Short fragments with no vowel are usually OCR debris, unless they carry
	// a single-digit numbering prefix ("1." .. "9.").
	if runes < 15 && !strings.ContainsAny(lower, "aeiou") && !hasDigitDotPrefix(text) {
		return false
	}

	// Lone short words are rejected unless structurally meaningful.
	if !strings.Contains(text, " ") && runes < 10 && !structuralWords[lower] {
		return false
	}

	return true
}

func passesCJKFilters(text string) bool {
	if len([]rune(text)) < 2 {
		return false
	}
	return hasAlnumOrIdeograph(text)
}

func passesNonLatinFilters(text string) bool {
	if len([]rune(text)) < 3 {
		return false
	}
	return hasAlnumOrIdeograph(text)
}

func hasAlnumOrIdeograph(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func hasDigitDotPrefix(text string) bool {
	r := []rune(text)
	return len(r) >= 2 && r[0] >= '1' && r[0] <= '9' && r[1] == '.'
}

func dotRatio(text string) float64 {
	total := 0
	dots := 0
	for _, r := range text {
		total++
		if r == '.' {
			dots++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(dots) / float64(total)
}

// hasCJK reports whether text contains Chinese, Japanese, or Korean
// characters: CJK ideographs (incl. extensions A/B), kana, or hangul.
func hasCJK(text string) bool {
	for _, r := range text {
		switch {
		case r >= 0x4E00 && r <= 0x9FFF, // CJK Unified Ideographs
			r >= 0x3040 && r <= 0x309F, // Hiragana
			r >= 0x30A0 && r <= 0x30FF, // Katakana
			r >= 0xAC00 && r <= 0xD7AF, // Hangul Syllables
			r >= 0x3400 && r <= 0x4DBF, // CJK Extension A
			r >= 0x20000 && r <= 0x2A6DF: // CJK Extension B
			return true
		}
	}
	return false
}

// hasNonLatin reports whether text contains non-Latin, non-CJK script
// characters (Arabic, Hebrew, Cyrillic, Thai, Devanagari, Myanmar).
func hasNonLatin(text string) bool {
	for _, r := range text {
		switch {
		case r >= 0x0600 && r <= 0x06FF, // Arabic
			r >= 0x0590 && r <= 0x05FF, // Hebrew
			r >= 0x0400 && r <= 0x04FF, // Cyrillic
			r >= 0x0E00 && r <= 0x0E7F, // Thai
			r >= 0x0900 && r <= 0x097F, // Devanagari
			r >= 0x1000 && r <= 0x109F: // Myanmar
			return true
		}
	}
	return false
}
