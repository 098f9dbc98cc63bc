// Package eval scores extracted outlines against labeled ones.
package eval

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/labels"
	"github.com/dgallion1/docoutline/internal/outline"
)

// Score compares one document's outline with its labels.
type Score struct {
	File       string  `json:"file"`
	Expected   int     `json:"expected"`
	Found      int     `json:"found"`
	Matched    int     `json:"matched"`
	TextOnly   int     `json:"text_only"` // Matched by text and page at the wrong level
	Precision  float64 `json:"precision"`
	Recall     float64 `json:"recall"`
	F1         float64 `json:"f1"`
	TitleMatch bool    `json:"title_match"`
}

// Report aggregates scores over a corpus. Rates are micro-averaged.
type Report struct {
	Documents     []Score `json:"documents"`
	Expected      int     `json:"expected"`
	Found         int     `json:"found"`
	Matched       int     `json:"matched"`
	Precision     float64 `json:"precision"`
	Recall        float64 `json:"recall"`
	F1            float64 `json:"f1"`
	TitleAccuracy float64 `json:"title_accuracy"`
}

// Compare matches found entries to expected ones. An entry matches when
// its normalized text, level and page agree; an expected page of 0 matches
// any page. Each expected entry is used at most once.
func Compare(file string, expected, found doctree.Result) Score {
	s := Score{
		File:       file,
		Expected:   len(expected.Outline),
		Found:      len(found.Outline),
		TitleMatch: outline.NormalizeKey(expected.Title) == outline.NormalizeKey(found.Title),
	}

	used := make([]bool, len(expected.Outline))
	for _, f := range found.Outline {
		key := outline.NormalizeKey(f.Text)
		textOnly := -1
		for i, e := range expected.Outline {
			if used[i] || outline.NormalizeKey(e.Text) != key || (e.Page != 0 && e.Page != f.Page) {
				continue
			}
			if e.Level == f.Level {
				used[i] = true
				s.Matched++
				textOnly = -1
				break
			}
			if textOnly < 0 {
				textOnly = i
			}
		}
		if textOnly >= 0 {
			used[textOnly] = true
			s.TextOnly++
		}
	}

	s.Precision, s.Recall, s.F1 = rates(s.Matched, s.Found, s.Expected)
	return s
}

// Summarize totals the per-document scores.
func Summarize(scores []Score) Report {
	r := Report{Documents: scores}
	titles := 0
	for _, s := range scores {
		r.Expected += s.Expected
		r.Found += s.Found
		r.Matched += s.Matched
		if s.TitleMatch {
			titles++
		}
	}
	r.Precision, r.Recall, r.F1 = rates(r.Matched, r.Found, r.Expected)
	if len(scores) > 0 {
		r.TitleAccuracy = float64(titles) / float64(len(scores))
	}
	return r
}

func rates(matched, found, expected int) (precision, recall, f1 float64) {
	precision, recall = 1, 1
	if found > 0 {
		precision = float64(matched) / float64(found)
	} else if expected > 0 {
		precision = 0
	}
	if expected > 0 {
		recall = float64(matched) / float64(expected)
	} else if found > 0 {
		recall = 0
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}

// FindLabel returns the label file for pdfPath in dir: the same base name
// with the first supported label extension that exists.
func FindLabel(pdfPath, dir string) (string, bool) {
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	for _, ext := range labels.SupportedExtensions {
		p := filepath.Join(dir, base+ext)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p, true
		}
	}
	return "", false
}

// LoadLabel parses a label file.
func LoadLabel(path string) (doctree.Result, error) {
	p, err := labels.ForFile(path)
	if err != nil {
		return doctree.Result{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return doctree.Result{}, err
	}
	defer f.Close()
	return p.Parse(f, filepath.Base(path))
}
