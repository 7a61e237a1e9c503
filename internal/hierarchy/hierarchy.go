// Package hierarchy assembles classified heading candidates into a
// parent/child forest. Levels are corrected from numbering-pattern depth and
// adjacency context before nodes are attached with an explicit stack.
package hierarchy

import (
	"regexp"
	"strings"

	"github.com/bwrigley/docoutline/internal/outline"
)

var numberingRe = regexp.MustCompile(`^(\d+(?:\.\d+)*)`)

// similarityThreshold is the word-set overlap ratio above which two adjacent
// same-page candidates are treated as one wrapped heading.
const similarityThreshold = 0.3

// confidentClampThreshold gates the level-gap correction: only candidates the
// classifier was sure about get pulled up under their predecessor.
const confidentClampThreshold = 0.8

// Builder turns an ordered candidate stream into a forest of outline nodes.
type Builder struct {
	maxDepth int
}

func New(maxDepth int) *Builder {
	if maxDepth < 1 || maxDepth > outline.MaxLevel {
		maxDepth = outline.MaxLevel
	}
	return &Builder{maxDepth: maxDepth}
}

// Build processes candidates in input order (page then position) and returns
// the root nodes. The input slice is not modified.
func (b *Builder) Build(candidates []outline.Candidate) []*outline.Node {
	if len(candidates) == 0 {
		return nil
	}

	nodes := make([]*outline.Node, 0, len(candidates))
	for _, cand := range candidates {
		nodes = append(nodes, &outline.Node{
			Level:      cand.Level.Clamp(b.maxDepth),
			Text:       cand.CleanedText,
			Page:       cand.Page,
			Confidence: cand.Confidence,
		})
	}

	b.adjustLevels(nodes)
	return attach(nodes)
}

// adjustLevels applies the numbering override and adjacency smoothing.
func (b *Builder) adjustLevels(nodes []*outline.Node) {
	for i, node := range nodes {
		// A leading section number is ground truth: its dot depth overrides
		// whatever the classifier guessed.
		if depth, ok := numberingDepth(node.Text); ok {
			node.Level = outline.Level(depth).Clamp(b.maxDepth)
		}

		if i == 0 {
			continue
		}
		prev := nodes[i-1]

		switch {
		case node.Page == prev.Page && similarHeadings(node.Text, prev.Text):
			// Continuation of a heading wrapped across runs, not a new one.
			node.Level = prev.Level
		case node.Confidence >= confidentClampThreshold && node.Level > prev.Level+1:
			// Confident candidate landing more than one level deeper than its
			// predecessor is noise in the level, not in the heading.
			node.Level = prev.Level + 1
		}
	}
}

// attach builds parent/child links with an explicit stack of open ancestors,
// one per active level. Returns the roots.
func attach(nodes []*outline.Node) []*outline.Node {
	var roots []*outline.Node
	var stack []*outline.Node

	for _, node := range nodes {
		// Close deeper and sibling ancestors.
		for len(stack) > 0 && stack[len(stack)-1].Level >= node.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			stack[len(stack)-1].AddChild(node)
		} else {
			roots = append(roots, node)
		}
		stack = append(stack, node)
	}

	return roots
}

// Flatten walks the forest in document order and emits flat outline entries.
func Flatten(roots []*outline.Node) []outline.Entry {
	var entries []outline.Entry
	var walk func(ns []*outline.Node)
	walk = func(ns []*outline.Node) {
		for _, n := range ns {
			entries = append(entries, outline.Entry{
				Level: n.Level,
				Text:  n.Text,
				Page:  n.Page,
			})
			walk(n.Children)
		}
	}
	walk(roots)
	return entries
}

// numberingDepth returns the dot depth of a leading section number
// ("2.3.1" -> 3) and whether the text has one.
func numberingDepth(text string) (int, bool) {
	m := numberingRe.FindString(text)
	if m == "" {
		return 0, false
	}
	return strings.Count(m, ".") + 1, true
}

// similarHeadings compares lowercase word sets; overlap above the threshold
// marks the pair as one heading split across runs.
func similarHeadings(a, b string) bool {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return false
	}

	intersection := 0
	for w := range wordsA {
		if wordsB[w] {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	return float64(intersection)/float64(union) > similarityThreshold
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}
