package eval

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func result(title string, entries ...doctree.Entry) doctree.Result {
	return doctree.NewResult(title, entries)
}

func e(level doctree.Level, text string, page int) doctree.Entry {
	return doctree.Entry{Level: level, Text: text, Page: page}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCompare_Perfect(t *testing.T) {
	want := result("Annual Report", e(doctree.H1, "Introduction", 1), e(doctree.H2, "Background", 2))
	got := result("annual  report", e(doctree.H1, "INTRODUCTION", 1), e(doctree.H2, "Background", 2))
	s := Compare("a.pdf", want, got)
	if s.Matched != 2 || !near(s.F1, 1) || !s.TitleMatch {
		t.Errorf("expected perfect score, got %+v", s)
	}
}

func TestCompare_Partial(t *testing.T) {
	want := result("T",
		e(doctree.H1, "Introduction", 1),
		e(doctree.H2, "Background", 2),
		e(doctree.H2, "Methods", 3),
	)
	got := result("Other",
		e(doctree.H1, "Introduction", 1),
		e(doctree.H1, "Background", 2), // wrong level
		e(doctree.H2, "Methods", 4),    // wrong page
		e(doctree.H2, "Appendix", 5),
	)
	s := Compare("a.pdf", want, got)
	if s.Matched != 1 || s.TextOnly != 1 {
		t.Fatalf("expected 1 match and 1 level miss, got %+v", s)
	}
	if !near(s.Precision, 0.25) || !near(s.Recall, 1.0/3) {
		t.Errorf("unexpected rates %+v", s)
	}
	if s.TitleMatch {
		t.Error("expected title mismatch")
	}
}

func TestCompare_AnyPage(t *testing.T) {
	want := result("", e(doctree.H1, "Summary", 0))
	got := result("", e(doctree.H1, "Summary", 7))
	if s := Compare("a.pdf", want, got); s.Matched != 1 {
		t.Errorf("expected page 0 to match any page, got %+v", s)
	}
}

func TestCompare_DuplicatesMatchOnce(t *testing.T) {
	want := result("", e(doctree.H2, "Notes", 0))
	got := result("", e(doctree.H2, "Notes", 1), e(doctree.H2, "Notes", 2))
	s := Compare("a.pdf", want, got)
	if s.Matched != 1 || !near(s.Precision, 0.5) {
		t.Errorf("expected one match, got %+v", s)
	}
}

func TestCompare_Empty(t *testing.T) {
	s := Compare("a.pdf", result(""), result(""))
	if !near(s.Precision, 1) || !near(s.Recall, 1) || !near(s.F1, 1) {
		t.Errorf("expected empty outlines to agree, got %+v", s)
	}
	s = Compare("a.pdf", result("", e(doctree.H1, "X", 1)), result(""))
	if s.Precision != 0 || s.Recall != 0 || s.F1 != 0 {
		t.Errorf("expected zero score for missing outline, got %+v", s)
	}
}

func TestSummarize(t *testing.T) {
	r := Summarize([]Score{
		{Expected: 4, Found: 2, Matched: 2, TitleMatch: true},
		{Expected: 0, Found: 2, Matched: 0},
	})
	if r.Expected != 4 || r.Found != 4 || r.Matched != 2 {
		t.Fatalf("unexpected totals %+v", r)
	}
	if !near(r.Precision, 0.5) || !near(r.Recall, 0.5) || !near(r.F1, 0.5) {
		t.Errorf("unexpected rates %+v", r)
	}
	if !near(r.TitleAccuracy, 0.5) {
		t.Errorf("expected title accuracy 0.5, got %v", r.TitleAccuracy)
	}
	if empty := Summarize(nil); empty.TitleAccuracy != 0 {
		t.Errorf("expected zero accuracy, got %v", empty.TitleAccuracy)
	}
}

func TestFindAndLoadLabel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")
	if err := os.WriteFile(path, []byte("title,Report\nH1,Intro,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, ok := FindLabel("/docs/report.pdf", dir)
	if !ok || got != path {
		t.Fatalf("expected %s, got %s (%v)", path, got, ok)
	}
	res, err := LoadLabel(got)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Title != "Report" || len(res.Outline) != 1 {
		t.Errorf("unexpected label %+v", res)
	}
	if _, ok := FindLabel("/docs/missing.pdf", dir); ok {
		t.Error("expected no label")
	}
}
