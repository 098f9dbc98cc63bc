package doctree

import (
	"encoding/json"
	"fmt"
)

// BBox is a block's bounding box in page space with a top-left origin:
// Y grows downward, so a smaller Y0 is higher on the page.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// CenterX returns the horizontal centre of the box.
func (b BBox) CenterX() float64 { return (b.X0 + b.X1) / 2 }

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 { return b.Y1 - b.Y0 }

// Block is a run of visually uniform text lines on one page.
type Block struct {
	Text     string  // Line texts joined by a space
	Page     int     // 1-indexed page number
	FontSize float64 // Dominant font size in points
	Bold     bool    // Dominant font is a bold weight
	BBox     BBox
	Lines    int // Number of text lines, at least 1
}

// Page is one decoded page with its blocks in reading order.
type Page struct {
	Number int
	Width  float64
	Height float64
	Blocks []Block
}

// Level is an outline heading level.
type Level int

const (
	H1 Level = iota + 1
	H2
	H3
)

func (l Level) String() string {
	switch l {
	case H1:
		return "H1"
	case H2:
		return "H2"
	case H3:
		return "H3"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

func (l Level) MarshalJSON() ([]byte, error) {
	if l < H1 || l > H3 {
		return nil, fmt.Errorf("invalid heading level %d", int(l))
	}
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	lv, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = lv
	return nil
}

// ParseLevel accepts "H1".."H3" in either case, or a bare digit.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "H1", "h1", "1":
		return H1, nil
	case "H2", "h2", "2":
		return H2, nil
	case "H3", "h3", "3":
		return H3, nil
	}
	return 0, fmt.Errorf("unknown heading level %q", s)
}

// Entry is one heading of the final outline.
type Entry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Result is the structured record produced for one document.
type Result struct {
	Title   string  `json:"title"`
	Outline []Entry `json:"outline"`
}

// NewResult returns a Result whose outline serialises as [] when empty.
func NewResult(title string, entries []Entry) Result {
	if entries == nil {
		entries = []Entry{}
	}
	return Result{Title: title, Outline: entries}
}

// Node is a heading with its nested sub-headings.
type Node struct {
	Entry
	Children []*Node
}

// Nest turns the flat outline into a tree. A heading becomes the child of the
// closest preceding heading with a shallower level; skipped levels are kept
// as-is rather than padded.
func Nest(entries []Entry) []*Node {
	type stackEntry struct {
		node  *Node
		level Level
	}

	root := &Node{}
	stack := []stackEntry{{node: root, level: 0}}

	for _, e := range entries {
		n := &Node{Entry: e}
		for len(stack) > 1 && stack[len(stack)-1].level >= e.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].node
		parent.Children = append(parent.Children, n)
		stack = append(stack, stackEntry{node: n, level: e.Level})
	}
	return root.Children
}
