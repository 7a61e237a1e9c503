package hierarchy

import (
	"testing"

	"github.com/bwrigley/docoutline/internal/outline"
)

func cand(text string, level outline.Level, page int, conf float64) outline.Candidate {
	return outline.Candidate{
		CleanedText: text,
		Level:       level,
		Page:        page,
		Confidence:  conf,
		Source:      outline.SourceText,
	}
}

func TestBuild_NumberingOverridesLevel(t *testing.T) {
	b := New(outline.MaxLevel)

	// The classifier guessed H1 for both; dot depth corrects the second.
	roots := b.Build([]outline.Candidate{
		cand("1. Preamble", 1, 1, 0.9),
		cand("1.1 Scope", 1, 1, 0.9),
	})

	if len(roots) != 1 {
		t.Fatalf("expected one root, got %d", len(roots))
	}
	root := roots[0]
	if root.Text != "1. Preamble" || root.Level != 1 {
		t.Errorf("unexpected root %q level %s", root.Text, root.Level)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected one child, got %d", len(root.Children))
	}
	child := root.Children[0]
	if child.Text != "1.1 Scope" || child.Level != 2 {
		t.Errorf("expected H2 child from numbering, got %q level %s", child.Text, child.Level)
	}
	if child.Parent != root {
		t.Error("child parent back-reference not set")
	}
}

func TestBuild_DepthClampedToMax(t *testing.T) {
	b := New(outline.MaxLevel)

	roots := b.Build([]outline.Candidate{
		cand("1.2.3.4.5.6.7.8 Deep Section", 4, 1, 0.9),
	})
	if len(roots) != 1 {
		t.Fatalf("expected one root, got %d", len(roots))
	}
	if roots[0].Level != outline.MaxLevel {
		t.Errorf("expected level clamped to %d, got %s", outline.MaxLevel, roots[0].Level)
	}
}

func TestBuild_WrappedHeadingAdoptsLevel(t *testing.T) {
	b := New(outline.MaxLevel)

	// High word overlap on the same page marks a wrapped heading; the
	// second fragment adopts the first's level instead of nesting.
	roots := b.Build([]outline.Candidate{
		cand("Quarterly Financial Review", 1, 3, 0.9),
		cand("Financial Review Continued", 4, 3, 0.9),
	})

	if len(roots) != 2 {
		t.Fatalf("expected two sibling roots, got %d", len(roots))
	}
	if roots[1].Level != roots[0].Level {
		t.Errorf("expected adopted level %s, got %s", roots[0].Level, roots[1].Level)
	}
}

func TestBuild_ConfidentLevelGapClamped(t *testing.T) {
	b := New(outline.MaxLevel)

	roots := b.Build([]outline.Candidate{
		cand("System Architecture", 1, 1, 0.9),
		cand("Deployment Topology", 4, 2, 0.95),
	})

	if len(roots) != 1 {
		t.Fatalf("expected one root, got %d", len(roots))
	}
	if len(roots[0].Children) != 1 {
		t.Fatalf("expected clamped child under root, got %d children", len(roots[0].Children))
	}
	if got := roots[0].Children[0].Level; got != 2 {
		t.Errorf("expected confident candidate clamped to level 2, got %s", got)
	}
}

func TestBuild_LowConfidenceGapKept(t *testing.T) {
	b := New(outline.MaxLevel)

	roots := b.Build([]outline.Candidate{
		cand("System Architecture", 1, 1, 0.9),
		cand("minor note heading", 4, 2, 0.7),
	})

	if len(roots) != 1 || len(roots[0].Children) != 1 {
		t.Fatal("expected single root with one child")
	}
	if got := roots[0].Children[0].Level; got != 4 {
		t.Errorf("expected level kept at 4 for low-confidence candidate, got %s", got)
	}
}

func TestBuild_ParentAlwaysShallower(t *testing.T) {
	b := New(outline.MaxLevel)

	roots := b.Build([]outline.Candidate{
		cand("Alpha Overview Section", 1, 1, 0.75),
		cand("Beta Detail Section", 3, 1, 0.75),
		cand("Gamma Overview Section", 2, 2, 0.75),
		cand("Delta Detail Section", 3, 2, 0.75),
		cand("Epsilon Top Section", 1, 3, 0.75),
	})

	var walk func(n *outline.Node)
	walk = func(n *outline.Node) {
		for _, c := range n.Children {
			if c.Level <= n.Level {
				t.Errorf("child %q level %s not deeper than parent %q level %s",
					c.Text, c.Level, n.Text, n.Level)
			}
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	b := New(outline.MaxLevel)
	if roots := b.Build(nil); roots != nil {
		t.Errorf("expected nil roots for empty input, got %v", roots)
	}
	if entries := Flatten(nil); entries != nil {
		t.Errorf("expected nil entries for empty forest, got %v", entries)
	}
}

func TestFlatten_DocumentOrder(t *testing.T) {
	b := New(outline.MaxLevel)

	roots := b.Build([]outline.Candidate{
		cand("First Major Section", 1, 1, 0.8),
		cand("Nested Detail Section", 2, 1, 0.8),
		cand("Second Major Section", 1, 2, 0.8),
	})
	entries := Flatten(roots)

	want := []string{"First Major Section", "Nested Detail Section", "Second Major Section"}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i, w := range want {
		if entries[i].Text != w {
			t.Errorf("entry %d: got %q, want %q", i, entries[i].Text, w)
		}
	}
}
