// Package labels reads hand-made expected outlines for evaluation.
package labels

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Parser reads the expected title and outline of one document.
type Parser interface {
	Parse(r io.Reader, filename string) (doctree.Result, error)
}

// SupportedExtensions lists label file extensions, in lookup order.
var SupportedExtensions = []string{".json", ".md", ".markdown", ".html", ".htm", ".docx", ".csv", ".txt"}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported label extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

var pageMarkerRe = regexp.MustCompile(`\s*\((?:p\.|page)\s*(\d+)\)\s*$`)

// splitPage strips a trailing "(p. N)" marker.
func splitPage(s string) (string, int, bool) {
	m := pageMarkerRe.FindStringSubmatchIndex(s)
	if m == nil {
		return strings.TrimSpace(s), 0, false
	}
	n, err := strconv.Atoi(s[m[2]:m[3]])
	if err != nil {
		return strings.TrimSpace(s), 0, false
	}
	return strings.TrimSpace(s[:m[0]]), n, true
}

// outlineBuilder collects headings in document order. A level-1 heading
// without a page marker that comes before any entry is the title. Entries
// without a marker get page 0, which matches any page.
type outlineBuilder struct {
	title   string
	entries []doctree.Entry
}

func (b *outlineBuilder) setTitle(s string) {
	if b.title == "" {
		b.title = strings.Join(strings.Fields(s), " ")
	}
}

// heading adds a heading, taking it as the title when it qualifies.
func (b *outlineBuilder) heading(level int, raw string) {
	text, _, marked := splitPage(raw)
	if level == 1 && !marked && b.title == "" && len(b.entries) == 0 {
		b.setTitle(text)
		if b.title != "" {
			return
		}
	}
	b.entry(level, raw)
}

// entry adds an outline entry. Levels outside H1..H3 are ignored.
func (b *outlineBuilder) entry(level int, raw string) {
	text, page, _ := splitPage(raw)
	text = strings.Join(strings.Fields(text), " ")
	if text == "" || level < int(doctree.H1) || level > int(doctree.H3) {
		return
	}
	b.entries = append(b.entries, doctree.Entry{Level: doctree.Level(level), Text: text, Page: page})
}

func (b *outlineBuilder) result() doctree.Result {
	return doctree.NewResult(b.title, b.entries)
}
