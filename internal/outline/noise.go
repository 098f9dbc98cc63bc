package outline

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Class is the Noise Filter verdict for one block.
type Class int

const (
	ClassCandidate Class = iota
	ClassBody
	ClassNoise
)

func (c Class) String() string {
	switch c {
	case ClassCandidate:
		return "candidate"
	case ClassBody:
		return "body"
	case ClassNoise:
		return "noise"
	}
	return "unknown"
}

// PageContext is the document context the filter sees for one page.
type PageContext struct {
	Number    int
	Width     float64
	Height    float64
	PageCount int

	// BodySize is the dominant prose font size on the page.
	BodySize float64

	// Running holds the masked keys of running headers and footers.
	Running map[string]struct{}
}

var (
	pageNumberRe  = regexp.MustCompile(`(?i)^(page|pg\.?|p\.)?\s*[-–—]?\s*\d{1,4}\s*[-–—]?\s*((of|/)\s*\d{1,4})?$`)
	romanNumberRe = regexp.MustCompile(`^x{0,3}(ix|iv|v?i{0,3})$`)
	urlRe         = regexp.MustCompile(`(?i)(https?://|www\.|\.com\b|\.org\b|\.net\b|[\w.+-]+@[\w-]+\.[\w.]+)`)
	boilerplateRe = regexp.MustCompile(`(?i)(©|\(c\)\s*\d{4}|copyright|all rights reserved|^version\s+\d|\bv\d+\.\d+(\.\d+)*\b|^rev(ision)?\.?\s*\d)`)
	captionRe     = regexp.MustCompile(`(?i)^(figure|fig\.|table)\s*\d+`)
	dotLeaderRe   = regexp.MustCompile(`\.{4,}|(\.\s){4,}`)
)

// isPatternNoise reports text that is never content regardless of layout:
// page numbers, links, boilerplate, captions and leader lines.
func isPatternNoise(text string) bool {
	t := strings.TrimSpace(text)
	if utf8.RuneCountInString(t) <= 1 {
		return true
	}
	switch {
	case pageNumberRe.MatchString(t), romanNumberRe.MatchString(t):
		return true
	case urlRe.MatchString(t), boilerplateRe.MatchString(t):
		return true
	case captionRe.MatchString(t), dotLeaderRe.MatchString(t):
		return true
	}
	return strings.Count(t, "-") > 3 || strings.Count(t, ":") > 2
}

// Classify sorts a block into noise, body text or heading candidate.
// Ambiguous blocks fall to body.
func Classify(b doctree.Block, pc PageContext, cfg Config) Class {
	text := NormalizeText(b.Text)
	if utf8.RuneCountInString(text) < cfg.MinTextLength || isPatternNoise(text) {
		return ClassNoise
	}
	if cfg.MinFontSize > 0 && b.FontSize < cfg.MinFontSize {
		return ClassNoise
	}
	if isRunning(b, pc, cfg) {
		return ClassNoise
	}

	if len(strings.Fields(text)) > cfg.MaxHeadingWords {
		return ClassBody
	}
	prominent := b.Bold || b.FontSize > pc.BodySize+cfg.SizeTolerance
	if !prominent {
		return ClassBody
	}
	if !b.Bold && isProse(b, cfg) {
		return ClassBody
	}
	return ClassCandidate
}

// isProse reports paragraph-shaped text: enough words over several lines
// with sentence punctuation.
func isProse(b doctree.Block, cfg Config) bool {
	words := len(strings.Fields(b.Text))
	if words < cfg.BodyTextMinWords || b.Lines < 2 {
		return false
	}
	marks := strings.Count(b.Text, ".") + strings.Count(b.Text, "!") +
		strings.Count(b.Text, "?") + strings.Count(b.Text, ";")
	return float64(marks)*20/float64(words) >= cfg.SentencePunctuationMin
}

// proseShaped is the looser test used to estimate the body size: long or
// multi-line non-bold text.
func proseShaped(b doctree.Block, cfg Config) bool {
	if b.Bold {
		return false
	}
	return b.Lines > 1 || len(strings.Fields(b.Text)) >= cfg.BodyTextMinWords
}

// BodySize returns the rune-weighted dominant font size among prose-shaped
// blocks, or 0 when there are none. Ties go to the smaller size.
func BodySize(blocks []doctree.Block, cfg Config) float64 {
	weight := make(map[float64]int)
	for _, b := range blocks {
		if !proseShaped(b, cfg) {
			continue
		}
		size := math.Round(b.FontSize*10) / 10
		weight[size] += utf8.RuneCountInString(b.Text)
	}
	if len(weight) == 0 {
		return 0
	}
	sizes := make([]float64, 0, len(weight))
	for s := range weight {
		sizes = append(sizes, s)
	}
	sort.Float64s(sizes)
	best := sizes[0]
	for _, s := range sizes[1:] {
		if weight[s] > weight[best] {
			best = s
		}
	}
	return best
}

func inMargin(b doctree.Block, height, frac float64) bool {
	if height <= 0 || frac <= 0 {
		return false
	}
	return b.BBox.Y0 < height*frac || b.BBox.Y1 > height*(1-frac)
}

func isRunning(b doctree.Block, pc PageContext, cfg Config) bool {
	if len(pc.Running) == 0 || !inMargin(b, pc.Height, cfg.RunningMarginFraction) {
		return false
	}
	_, ok := pc.Running[runningKey(b.Text)]
	return ok
}

// detectRunning finds margin texts repeated on at least RunningMinPages
// pages and on more than half of the pages scanned.
func detectRunning(pages []doctree.Page, cfg Config) map[string]struct{} {
	seen := make(map[string]map[int]struct{})
	for i, p := range pages {
		for _, b := range p.Blocks {
			if !inMargin(b, p.Height, cfg.RunningMarginFraction) {
				continue
			}
			key := runningKey(b.Text)
			if key == "" {
				continue
			}
			if seen[key] == nil {
				seen[key] = make(map[int]struct{})
			}
			seen[key][i] = struct{}{}
		}
	}

	running := make(map[string]struct{})
	for key, onPages := range seen {
		n := len(onPages)
		if n >= cfg.RunningMinPages && n*2 > len(pages) {
			running[key] = struct{}{}
		}
	}
	return running
}
