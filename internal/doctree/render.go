package doctree

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
)

// Markdown renders the result as a title heading followed by a nested list
// with page references.
func (r Result) Markdown() string {
	var sb strings.Builder
	if r.Title != "" {
		sb.WriteString("# ")
		sb.WriteString(mdEscaper.Replace(r.Title))
		sb.WriteString("\n\n")
	}

	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			sb.WriteString(strings.Repeat("  ", depth))
			fmt.Fprintf(&sb, "- %s (p. %d)\n", mdEscaper.Replace(n.Text), n.Page)
			walk(n.Children, depth+1)
		}
	}
	walk(Nest(r.Outline), 0)
	return sb.String()
}

// HTML renders the Markdown form through goldmark.
func (r Result) HTML() (string, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(r.Markdown()), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
