// Package collector turns PDF pages into positioned text blocks.
package collector

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/docoutline/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// US Letter, used when a page has no usable MediaBox.
const (
	defaultWidth  = 612.0
	defaultHeight = 792.0
)

// Options control page limits and how glyphs are grouped.
type Options struct {
	// MaxPages stops reading after this many pages. 0 reads all.
	MaxPages int

	// Preflight validates the file with pdfcpu before reading text.
	Preflight bool

	// LineTolerance is the baseline distance, as a fraction of the font
	// size, within which glyphs share a line.
	LineTolerance float64

	// WordGapRatio is the horizontal gap, as a fraction of the font size,
	// above which a space is inserted between glyphs.
	WordGapRatio float64

	// ColumnGapRatio splits a line in two when the horizontal gap exceeds
	// this multiple of the font size.
	ColumnGapRatio float64

	// BlockGapRatio is the largest vertical gap, as a multiple of the font
	// size, between two lines of one block.
	BlockGapRatio float64

	// SizeJump starts a new block when the line font size differs from the
	// block by more than this many points.
	SizeJump float64
}

func DefaultOptions() Options {
	return Options{
		LineTolerance:  0.3,
		WordGapRatio:   0.3,
		ColumnGapRatio: 3.0,
		BlockGapRatio:  0.8,
		SizeJump:       0.5,
	}
}

// Document is an open PDF. It reads pages lazily and satisfies the
// outline Source interface.
type Document struct {
	path   string
	closer io.Closer
	r      *pdflib.Reader
	opts   Options
	pages  int
}

// Open opens the PDF at path.
func Open(path string, opts Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DocumentReadError{Path: path, Reason: ReasonOpen, Err: err}
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &DocumentReadError{Path: path, Reason: ReasonOpen, Err: err}
	}
	d, err := open(f, st.Size(), path, opts)
	if err != nil {
		f.Close()
		return nil, err
	}
	d.closer = f
	return d, nil
}

// OpenReader reads a PDF from memory or any other random-access source.
// name only labels errors.
func OpenReader(ra io.ReaderAt, size int64, name string, opts Options) (*Document, error) {
	return open(ra, size, name, opts)
}

func open(ra io.ReaderAt, size int64, name string, opts Options) (d *Document, err error) {
	if opts.Preflight {
		if _, err := preflight(io.NewSectionReader(ra, 0, size)); err != nil {
			return nil, &DocumentReadError{Path: name, Reason: ReasonPreflight, Err: err}
		}
	}

	// The reader panics on some malformed trailers.
	defer func() {
		if p := recover(); p != nil {
			d, err = nil, &DocumentReadError{Path: name, Reason: ReasonDecode, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	r, err := pdflib.NewReader(ra, size)
	if err != nil {
		reason := ReasonDecode
		if errors.Is(err, pdflib.ErrInvalidPassword) {
			reason = ReasonEncrypted
		}
		return nil, &DocumentReadError{Path: name, Reason: reason, Err: err}
	}

	n := r.NumPage()
	if opts.MaxPages > 0 && n > opts.MaxPages {
		n = opts.MaxPages
	}
	return &Document{path: name, r: r, opts: opts, pages: n}, nil
}

// NumPages is the number of pages that will be read.
func (d *Document) NumPages() int { return d.pages }

// Page collects the text blocks of page n (1-indexed). Pages without a
// content stream yield no blocks.
func (d *Document) Page(n int) (page doctree.Page, err error) {
	if n < 1 || n > d.pages {
		return doctree.Page{}, fmt.Errorf("page %d out of range [1, %d]", n, d.pages)
	}

	defer func() {
		if p := recover(); p != nil {
			err = &DocumentReadError{Path: d.path, Reason: ReasonDecode, Page: n, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	p := d.r.Page(n)
	page = doctree.Page{Number: n, Width: defaultWidth, Height: defaultHeight}
	if p.V.IsNull() {
		return page, nil
	}
	page.Width, page.Height = mediaBox(p.V)

	content := p.Content()
	glyphs := make([]glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, glyph{
			s:    t.S,
			x:    t.X,
			y:    page.Height - t.Y,
			w:    t.W,
			size: t.FontSize,
			bold: isBoldFont(t.Font),
		})
	}
	page.Blocks = groupBlocks(groupLines(glyphs, d.opts), n, d.opts)
	return page, nil
}

// Close releases the file opened by Open. It is a no-op for OpenReader.
func (d *Document) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// mediaBox returns the page size, following the Parent chain for an
// inherited box.
func mediaBox(v pdflib.Value) (float64, float64) {
	for depth := 0; !v.IsNull() && depth < 32; depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdflib.Array && box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h
			}
		}
		v = v.Key("Parent")
	}
	return defaultWidth, defaultHeight
}
