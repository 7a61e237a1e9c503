package outline

import (
	"fmt"
	"strconv"
)

// MaxLevel is the deepest heading level the model represents.
const MaxLevel = 6

// Level is a heading depth, 1 (H1) through MaxLevel (H6).
type Level int

// Clamp bounds a level to [1, maxDepth].
func (l Level) Clamp(maxDepth int) Level {
	if maxDepth < 1 || maxDepth > MaxLevel {
		maxDepth = MaxLevel
	}
	if l < 1 {
		return 1
	}
	if int(l) > maxDepth {
		return Level(maxDepth)
	}
	return l
}

func (l Level) String() string {
	return "H" + strconv.Itoa(int(l))
}

// MarshalJSON renders levels as "H1".."H6" per the output schema.
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// UnmarshalJSON accepts both "H2" and bare integers.
func (l *Level) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if len(s) > 1 && (s[0] == 'H' || s[0] == 'h') {
		s = s[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid heading level %q", data)
	}
	*l = Level(n).Clamp(MaxLevel)
	return nil
}

// Source records which path produced a candidate.
type Source string

const (
	SourceTOC  Source = "toc"
	SourceText Source = "text"
)

// TextRun is one line/span of rendered text with position and font metadata,
// as produced by the upstream parser. Read-only to the pipeline.
type TextRun struct {
	Text      string
	FontSize  float64
	IsBold    bool
	YPosition float64 // distance from the top of the page
	Page      int
	OrderIdx  int // document order index, assigned by the parser
}

// Candidate is a TextRun that passed normalization and received a classifier
// score. CleanedText is never empty.
type Candidate struct {
	RawText     string
	CleanedText string
	FontSize    float64
	IsBold      bool
	Page        int
	Confidence  float64
	Level       Level
	Evidence    []string
	Source      Source
}

// Node is a heading in the assembled tree. A child's level is always strictly
// greater than its parent's. Parent is a non-owning back-reference; roots have
// Parent == nil.
type Node struct {
	Level      Level
	Text       string
	Page       int
	Confidence float64
	Parent     *Node
	Children   []*Node
}

// AddChild appends child as the last child of n and sets the back-reference.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Entry is one row of the final flat outline.
type Entry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Result is the final per-document artifact.
type Result struct {
	Title   string  `json:"title"`
	Outline []Entry `json:"outline"`
	Error   string  `json:"error,omitempty"`
}

// BuiltinEntry is one entry of a document's built-in outline (bookmark/TOC),
// as handed over by the parsing collaborator.
type BuiltinEntry struct {
	Level int
	Title string
	Page  int
}

// Metadata is document-level information from the parser.
type Metadata struct {
	Title    string
	Author   string
	Creator  string
	Producer string
}

// Document is the parser handoff: a built-in outline when the format exposes
// one, and/or a page-ordered stream of text runs.
type Document struct {
	Filename string
	Metadata Metadata
	Builtin  []BuiltinEntry
	Runs     []TextRun
}
