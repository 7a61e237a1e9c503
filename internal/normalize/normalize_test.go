package normalize

import (
	"testing"
)

func TestNormalize_RejectsShortLatinText(t *testing.T) {
	n := New(DefaultConfig())

	// Five runes is not longer than the five-rune minimum.
	if _, ok := n.Normalize("Draft"); ok {
		t.Error("expected five-rune Latin fragment to be rejected")
	}
	if cleaned, ok := n.Normalize("Draft Proposal"); !ok || cleaned != "Draft Proposal" {
		t.Errorf("expected two-word fragment to pass, got %q ok=%v", cleaned, ok)
	}
}

func TestNormalize_CJKMinimumIsLower(t *testing.T) {
	n := New(DefaultConfig())

	// Two ideographs carry as much meaning as a full Latin word.
	if cleaned, ok := n.Normalize("概要"); !ok || cleaned != "概要" {
		t.Errorf("expected two-rune CJK fragment to pass, got %q ok=%v", cleaned, ok)
	}
	if cleaned, ok := n.Normalize("第1章 序論"); !ok || cleaned != "第1章 序論" {
		t.Errorf("expected chapter heading to pass, got %q ok=%v", cleaned, ok)
	}
	// A single ideograph is still too short.
	if _, ok := n.Normalize("章"); ok {
		t.Error("expected single ideograph to be rejected")
	}
}

func TestNormalize_ExclusionPatterns(t *testing.T) {
	n := New(DefaultConfig())

	rejected := []string{
		"12/05/2023",        // date
		"March 15, 2024",    // long date
		"14:30 PM",          // time
		"Page 12",           // page reference
		"ページ 12",            // Japanese page reference
		"123456",            // pure number
		"www.example.com",   // URL fragment
		"signature",         // table header token
		"............",      // leader dots
	}
	for _, in := range rejected {
		if cleaned, ok := n.Normalize(in); ok {
			t.Errorf("Normalize(%q) = %q, want rejection", in, cleaned)
		}
	}
}

func TestNormalize_VowelRule(t *testing.T) {
	n := New(DefaultConfig())

	// Short vowel-free fragments are extraction debris.
	if _, ok := n.Normalize("xyzqrst"); ok {
		t.Error("expected vowel-free fragment to be rejected")
	}
	// A single-digit numbering prefix exempts the fragment.
	if cleaned, ok := n.Normalize("1. Xyzqrst"); !ok {
		t.Errorf("expected numbered vowel-free fragment to pass, got %q", cleaned)
	}
}

func TestNormalize_SingleWordRule(t *testing.T) {
	n := New(DefaultConfig())

	if _, ok := n.Normalize("Widgets"); ok {
		t.Error("expected short lone word to be rejected")
	}
	// Structural words are real headings even when standing alone.
	for _, w := range []string{"Summary", "Background", "References"} {
		if _, ok := n.Normalize(w); !ok {
			t.Errorf("expected structural word %q to pass", w)
		}
	}
}

func TestNormalize_WhitespaceCollapse(t *testing.T) {
	n := New(DefaultConfig())

	cleaned, ok := n.Normalize("  Chapter \t One\n  Overview ")
	if !ok {
		t.Fatal("expected fragment to pass")
	}
	if cleaned != "Chapter One Overview" {
		t.Errorf("expected collapsed whitespace, got %q", cleaned)
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	n := New(DefaultConfig())

	first, ok1 := n.Normalize("2.1 Scope and Audience")
	second, ok2 := n.Normalize("2.1 Scope and Audience")
	if first != second || ok1 != ok2 {
		t.Errorf("repeated calls disagree: %q/%v vs %q/%v", first, ok1, second, ok2)
	}
}

func TestMergeFragments_ReassemblesWrappedHeadings(t *testing.T) {
	n := New(DefaultConfig())

	merged := n.MergeFragments([]string{
		"1. Introduction",
		"to the Payment System",
		"2. Background",
	})
	want := []string{
		"1. Introduction to the Payment System",
		"2. Background",
	}
	if len(merged) != len(want) {
		t.Fatalf("expected %d fragments, got %d: %v", len(want), len(merged), merged)
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Errorf("fragment %d: got %q, want %q", i, merged[i], want[i])
		}
	}
}

func TestMergeFragments_DropsTinyFragments(t *testing.T) {
	n := New(DefaultConfig())

	if merged := n.MergeFragments([]string{"Hi"}); len(merged) != 0 {
		t.Errorf("expected tiny fragment to be dropped, got %v", merged)
	}
	if merged := n.MergeFragments(nil); merged != nil {
		t.Errorf("expected nil for empty input, got %v", merged)
	}
}
