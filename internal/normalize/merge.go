package normalize

import (
	"strings"
	"unicode"
)

// cjkHeadingMarkers are characters that open chapter/section headings in
// Chinese, Japanese, and Korean text.
const cjkHeadingMarkers = "第章節編部제장"

// MergeFragments reassembles heading lines that the upstream extractor split
// across runs. A fragment that does not look like the start of a heading is
// appended to the previous one; fragments shorter than the configured minimum
// are dropped once merging is done.
func (n *Normalizer) MergeFragments(fragments []string) []string {
	if len(fragments) == 0 {
		return nil
	}

	var merged []string
	current := ""

	flush := func() {
		if current != "" && len([]rune(current)) > n.cfg.MinHeadingLength {
			merged = append(merged, strings.TrimSpace(current))
		}
	}

	for _, frag := range fragments {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		if current == "" || isHeadingStart(frag) {
			flush()
			current = frag
		} else {
			current += " " + frag
		}
	}
	flush()

	return merged
}

// isHeadingStart reports whether a fragment opens a new heading rather than
// continuing the previous line.
func isHeadingStart(text string) bool {
	if text == "" {
		return false
	}
	if hasDigitDotPrefix(text) {
		return true
	}

	if hasCJK(text) {
		head := []rune(text)
		limit := min(5, len(head))
		for _, r := range head[:limit] {
			if strings.ContainsRune(cjkHeadingMarkers, r) {
				return true
			}
		}
		return unicode.IsUpper(head[0])
	}

	if hasNonLatin(text) {
		head := []rune(text)
		limit := min(3, len(head))
		for _, r := range head[:limit] {
			if unicode.IsUpper(r) {
				return true
			}
		}
		return false
	}

	r := []rune(text)
	return unicode.IsUpper(r[0])
}
