// Package pdftest writes small uncompressed PDFs for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Build returns a PDF with one content stream per page on US Letter
// paper. Font F1 is Helvetica and F2 Helvetica-Bold, both 500 units wide
// per glyph so text positions are predictable.
func Build(pages ...string) []byte {
	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	var objs []string
	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 5+2*i)
	}
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>", strings.Join(kids, " "), len(pages)))
	objs = append(objs,
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /FirstChar 32 /LastChar 126 /Widths ["+widths+"] >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /FirstChar 32 /LastChar 126 /Widths ["+widths+"] >>",
	)
	for i, stream := range pages {
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Contents %d 0 R /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> >>", 6+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

// Text shows s at baseline (x, y) in PDF user space.
func Text(font string, size, x, y float64, s string) string {
	s = strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(s)
	return fmt.Sprintf("BT /%s %g Tf %g %g Td (%s) Tj ET\n", font, size, x, y, s)
}

// Report is a three-page document with a centred title, one H1 and two
// H2 headings among body paragraphs.
func Report() []byte {
	body := func(y float64) string {
		return Text("F1", 10, 72, y, "The committee reviewed the annual results in detail and") +
			Text("F1", 10, 72, y-12, "found that revenue grew. Costs were held flat this year;") +
			Text("F1", 10, 72, y-24, "margins improved as a result of the new pricing policy.")
	}
	return Build(
		Text("F2", 24, 150, 720, "Annual Report 2024")+
			Text("F2", 18, 72, 640, "Introduction")+
			body(600),
		Text("F2", 14, 72, 720, "Background")+
			body(690)+
			Text("F2", 14, 72, 560, "Methods")+
			body(530),
		body(720),
	)
}
