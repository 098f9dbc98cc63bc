package outline

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Title is the detected document title and the page-1 blocks it came from.
type Title struct {
	Text     string
	Blocks   []int // Indices into the page-1 block slice
	Fallback bool  // Taken from the first block, not from large centred text
}

// FindTitle picks the title from page 1: the largest text above the body
// size that sits in the upper part of the page and is horizontally centred,
// merged with the vertically adjacent blocks of nearly the same size. With
// no such block it falls back to the first non-noise block when enabled.
// Running headers and footers in pc never contribute.
func FindTitle(page doctree.Page, pc PageContext, cfg Config) Title {
	order := readingOrder(page.Blocks)

	qualifies := func(b doctree.Block) bool {
		text := NormalizeText(b.Text)
		if utf8.RuneCountInString(text) < cfg.MinTextLength || isPatternNoise(text) {
			return false
		}
		if cfg.MinFontSize > 0 && b.FontSize < cfg.MinFontSize {
			return false
		}
		if b.FontSize <= pc.BodySize+cfg.SizeTolerance || isRunning(b, pc, cfg) {
			return false
		}
		if page.Height > 0 && b.BBox.Y0 > page.Height*cfg.TitleUpperFraction {
			return false
		}
		if page.Width > 0 && math.Abs(b.BBox.CenterX()-page.Width/2) > page.Width*cfg.TitleCenterTolerance {
			return false
		}
		return true
	}

	largest := 0.0
	for _, i := range order {
		if b := page.Blocks[i]; qualifies(b) && b.FontSize > largest {
			largest = b.FontSize
		}
	}
	if largest == 0 {
		return fallbackTitle(page, pc, order, cfg)
	}

	near := func(b doctree.Block) bool {
		return qualifies(b) && largest-b.FontSize <= cfg.TitleSizeTolerance
	}

	start := -1
	for pos, i := range order {
		if near(page.Blocks[i]) {
			start = pos
			break
		}
	}

	used := []int{order[start]}
	parts := []string{page.Blocks[order[start]].Text}
	prev := page.Blocks[order[start]]
	for _, i := range order[start+1:] {
		if len(used) >= cfg.TitleMaxBlocks {
			break
		}
		b := page.Blocks[i]
		if !near(b) || b.BBox.Y0-prev.BBox.Y1 > cfg.TitleMaxLineGap*largest {
			break
		}
		used = append(used, i)
		parts = append(parts, b.Text)
		prev = b
	}

	return Title{Text: NormalizeText(strings.Join(parts, " ")), Blocks: used}
}

func fallbackTitle(page doctree.Page, pc PageContext, order []int, cfg Config) Title {
	if !cfg.TitleFallbackEnabled {
		return Title{}
	}
	for _, i := range order {
		text := NormalizeText(page.Blocks[i].Text)
		if utf8.RuneCountInString(text) < cfg.MinTextLength || isPatternNoise(text) || isRunning(page.Blocks[i], pc, cfg) {
			continue
		}
		return Title{Text: text, Blocks: []int{i}, Fallback: true}
	}
	return Title{}
}

// readingOrder returns block indices sorted top-to-bottom, then
// left-to-right. The input slice is not reordered.
func readingOrder(blocks []doctree.Block) []int {
	order := make([]int, len(blocks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ba, bb := blocks[order[a]].BBox, blocks[order[b]].BBox
		if ba.Y0 != bb.Y0 {
			return ba.Y0 < bb.Y0
		}
		return ba.X0 < bb.X0
	})
	return order
}
