package outline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Source yields the pages of one document. Page is 1-indexed.
type Source interface {
	NumPages() int
	Page(n int) (doctree.Page, error)
}

// Pages is an in-memory Source.
type Pages []doctree.Page

func (p Pages) NumPages() int { return len(p) }

func (p Pages) Page(n int) (doctree.Page, error) {
	if n < 1 || n > len(p) {
		return doctree.Page{}, fmt.Errorf("page %d out of range [1, %d]", n, len(p))
	}
	return p[n-1], nil
}

// Stats counts what happened to the blocks of one document.
type Stats struct {
	Pages       int  `json:"pages"`
	Blocks      int  `json:"blocks"`
	Noise       int  `json:"noise"`
	Body        int  `json:"body"`
	Candidates  int  `json:"candidates"`
	Dropped     int  `json:"dropped"`
	Duplicates  int  `json:"duplicates"`
	TitleEchoes int  `json:"title_echoes"`
	Tiers       int  `json:"tiers"`
	Degenerate  bool `json:"degenerate"`
}

// Builder runs the classifier over one document at a time. A Builder holds
// no per-document state and is safe for concurrent use.
type Builder struct {
	cfg Config
	log *slog.Logger
}

func NewBuilder(cfg Config, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Builder{cfg: cfg, log: log}
}

// Config returns the heuristics in use.
func (b *Builder) Config() Config { return b.cfg }

type dedupKey struct {
	text string
	page int
}

// Build extracts the title and outline of src. Page errors end the document
// and are returned as-is. A document without any text yields an empty
// result, Stats.Degenerate and no error. ctx is checked between pages.
func (b *Builder) Build(ctx context.Context, src Source) (doctree.Result, Stats, error) {
	var st Stats

	n := src.NumPages()
	pages := make([]doctree.Page, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return doctree.Result{}, st, err
		}
		p, err := src.Page(i)
		if err != nil {
			return doctree.Result{}, st, err
		}
		p.Number = i
		p.Blocks = sortedBlocks(p.Blocks)
		pages = append(pages, p)
		st.Blocks += len(p.Blocks)
	}
	st.Pages = len(pages)

	if st.Blocks == 0 {
		st.Degenerate = true
		b.log.Debug("no text blocks found", "pages", st.Pages)
		return doctree.NewResult("", nil), st, nil
	}

	var all []doctree.Block
	for _, p := range pages {
		all = append(all, p.Blocks...)
	}
	docBody := BodySize(all, b.cfg)
	bodyOf := func(p doctree.Page) float64 {
		if s := BodySize(p.Blocks, b.cfg); s > 0 {
			return s
		}
		return docBody
	}

	running := detectRunning(pages, b.cfg)
	contextOf := func(p doctree.Page) PageContext {
		return PageContext{
			Number:    p.Number,
			Width:     p.Width,
			Height:    p.Height,
			PageCount: len(pages),
			BodySize:  bodyOf(p),
			Running:   running,
		}
	}

	title := FindTitle(pages[0], contextOf(pages[0]), b.cfg)
	titleBlocks := make(map[int]bool, len(title.Blocks))
	for _, i := range title.Blocks {
		titleBlocks[i] = true
	}
	titleKey := NormalizeKey(title.Text)

	var candidates []Candidate
	for pi, p := range pages {
		pc := contextOf(p)
		for bi, blk := range p.Blocks {
			if pi == 0 && titleBlocks[bi] {
				continue
			}
			switch Classify(blk, pc, b.cfg) {
			case ClassNoise:
				st.Noise++
				continue
			case ClassBody:
				st.Body++
				continue
			}
			text := NormalizeText(blk.Text)
			if titleKey != "" && NormalizeKey(text) == titleKey {
				st.TitleEchoes++
				continue
			}
			candidates = append(candidates, Candidate{
				Text:     text,
				Page:     p.Number,
				FontSize: blk.FontSize,
				Bold:     blk.Bold,
				Y:        blk.BBox.Y0,
				X:        blk.BBox.X0,
			})
		}
	}
	st.Candidates = len(candidates)

	profile := NewProfile(candidates, b.cfg.SizeTolerance)
	st.Tiers = profile.Len()

	entries := make([]doctree.Entry, 0, len(candidates))
	seen := make(map[dedupKey]struct{}, len(candidates))
	for _, c := range candidates {
		level, ok := AssignLevel(c, profile, b.cfg)
		if !ok {
			st.Dropped++
			continue
		}
		key := dedupKey{text: NormalizeKey(c.Text), page: c.Page}
		if _, dup := seen[key]; dup {
			st.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		entries = append(entries, doctree.Entry{Level: level, Text: c.Text, Page: c.Page})
	}

	b.log.Debug("outline built",
		"pages", st.Pages,
		"blocks", st.Blocks,
		"candidates", st.Candidates,
		"entries", len(entries),
		"tiers", profile.Sizes(),
		"title_fallback", title.Fallback,
	)
	return doctree.NewResult(title.Text, entries), st, nil
}

// sortedBlocks returns a copy of blocks in reading order.
func sortedBlocks(blocks []doctree.Block) []doctree.Block {
	order := readingOrder(blocks)
	out := make([]doctree.Block, len(blocks))
	for i, j := range order {
		out[i] = blocks[j]
	}
	return out
}
