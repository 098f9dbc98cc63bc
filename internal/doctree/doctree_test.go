package doctree

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestResult_JSONShape(t *testing.T) {
	r := NewResult("Annual Report 2024", []Entry{
		{Level: H1, Text: "Introduction", Page: 1},
		{Level: H2, Text: "Background", Page: 2},
	})
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"title":"Annual Report 2024","outline":[{"level":"H1","text":"Introduction","page":1},{"level":"H2","text":"Background","page":2}]}`
	if string(b) != want {
		t.Errorf("expected %s, got %s", want, b)
	}
}

func TestResult_EmptyOutlineIsArray(t *testing.T) {
	b, err := json.Marshal(NewResult("", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `{"title":"","outline":[]}` {
		t.Errorf("expected empty outline array, got %s", b)
	}
}

func TestLevel_RoundTrip(t *testing.T) {
	var e Entry
	if err := json.Unmarshal([]byte(`{"level":"H3","text":"x","page":4}`), &e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Level != H3 || e.Page != 4 {
		t.Errorf("expected H3 on page 4, got %v on page %d", e.Level, e.Page)
	}
	if err := json.Unmarshal([]byte(`{"level":"H4"}`), &e); err == nil {
		t.Error("expected error for H4")
	}
}

func TestLevel_MarshalInvalid(t *testing.T) {
	if _, err := json.Marshal(Entry{Level: 0}); err == nil {
		t.Error("expected error for zero level")
	}
}

func TestNest_BuildsHierarchy(t *testing.T) {
	nodes := Nest([]Entry{
		{Level: H1, Text: "A", Page: 1},
		{Level: H2, Text: "A.1", Page: 1},
		{Level: H3, Text: "A.1.a", Page: 2},
		{Level: H2, Text: "A.2", Page: 2},
		{Level: H1, Text: "B", Page: 3},
		{Level: H3, Text: "B.x", Page: 3},
	})
	if len(nodes) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(nodes))
	}
	if len(nodes[0].Children) != 2 {
		t.Fatalf("expected 2 children under A, got %d", len(nodes[0].Children))
	}
	if got := nodes[0].Children[0].Children[0].Text; got != "A.1.a" {
		t.Errorf("expected A.1.a, got %q", got)
	}
	if len(nodes[1].Children) != 1 || nodes[1].Children[0].Text != "B.x" {
		t.Errorf("expected skipped level to nest directly under B")
	}
}

func TestResult_Markdown(t *testing.T) {
	r := NewResult("Annual Report", []Entry{
		{Level: H1, Text: "Introduction", Page: 1},
		{Level: H2, Text: "Background", Page: 2},
		{Level: H1, Text: "Results", Page: 3},
	})
	want := "# Annual Report\n\n- Introduction (p. 1)\n  - Background (p. 2)\n- Results (p. 3)\n"
	if got := r.Markdown(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestResult_MarkdownEscapes(t *testing.T) {
	r := NewResult("", []Entry{{Level: H1, Text: "C# *basics*", Page: 1}})
	got := r.Markdown()
	if !strings.Contains(got, `C\# \*basics\*`) {
		t.Errorf("expected escaped markdown, got %q", got)
	}
}

func TestResult_HTML(t *testing.T) {
	r := NewResult("Annual Report", []Entry{
		{Level: H1, Text: "Introduction", Page: 1},
		{Level: H2, Text: "Background", Page: 2},
	})
	html, err := r.HTML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "<h1>Annual Report</h1>") {
		t.Errorf("expected title heading, got %q", html)
	}
	if !strings.Contains(html, "<li>Background (p. 2)</li>") {
		t.Errorf("expected nested item, got %q", html)
	}
}
