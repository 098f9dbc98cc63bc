package labels

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// TextParser handles indented plain-text outlines: one heading per line,
// two spaces of indent per level below H1, "(p. N)" at the end.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (doctree.Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var b outlineBuilder
	for scanner.Scan() {
		line := strings.ReplaceAll(scanner.Text(), "\t", "  ")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if t, ok := strings.CutPrefix(strings.TrimSpace(line), "title:"); ok {
			b.setTitle(t)
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))
		b.heading(1+indent/2, line)
	}
	if err := scanner.Err(); err != nil {
		return doctree.Result{}, err
	}
	return b.result(), nil
}
