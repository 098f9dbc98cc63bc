package labels

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown labels using goldmark. Both headings and
// nested bullet lists count; list depth gives the level. This reads back
// the extractor's own Markdown rendering.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (doctree.Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return doctree.Result{}, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var b outlineBuilder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			b.heading(node.Level, inlineText(node, src))
		case *ast.List:
			walkList(&b, node, 1, src)
		case *ast.Paragraph:
			if t, ok := strings.CutPrefix(inlineText(node, src), "title:"); ok {
				b.setTitle(t)
			}
		}
	}
	return b.result(), nil
}

func walkList(b *outlineBuilder, list *ast.List, depth int, src []byte) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.TextBlock, *ast.Paragraph:
				b.entry(depth, inlineText(c, src))
			case *ast.List:
				walkList(b, c, depth+1, src)
			}
		}
	}
}

// inlineText concatenates the inline text below n, soft breaks as spaces.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
