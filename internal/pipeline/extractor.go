package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/docoutline/internal/collector"
	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
)

// Extraction is the outcome of one document.
type Extraction struct {
	Result   doctree.Result
	Stats    outline.Stats
	Duration time.Duration
}

// Extractor reads PDFs and builds their outlines. It is shared by the job
// workers, the batch driver and the HTTP and MCP front ends, and is safe for
// concurrent use.
type Extractor struct {
	builder *outline.Builder
	opts    collector.Options
	stats   *LatencyStats
	log     *slog.Logger
}

func NewExtractor(cfg outline.Config, opts collector.Options, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Extractor{
		builder: outline.NewBuilder(cfg, log),
		opts:    opts,
		stats:   NewLatencyStats(time.Hour),
		log:     log,
	}
}

// Stats returns the latency window of recent extractions.
func (e *Extractor) Stats() *LatencyStats { return e.stats }

// ExtractFile extracts the outline of the PDF at path.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (Extraction, error) {
	start := time.Now()
	doc, err := collector.Open(path, e.opts)
	if err != nil {
		e.stats.Record(time.Since(start), 0, true)
		return Extraction{}, err
	}
	defer doc.Close()
	return e.run(ctx, doc, start)
}

// ExtractBytes extracts the outline of an in-memory PDF. name labels errors.
func (e *Extractor) ExtractBytes(ctx context.Context, name string, data []byte) (Extraction, error) {
	start := time.Now()
	doc, err := collector.OpenReader(bytes.NewReader(data), int64(len(data)), name, e.opts)
	if err != nil {
		e.stats.Record(time.Since(start), 0, true)
		return Extraction{}, err
	}
	return e.run(ctx, doc, start)
}

func (e *Extractor) run(ctx context.Context, doc *collector.Document, start time.Time) (Extraction, error) {
	res, st, err := e.builder.Build(ctx, doc)
	d := time.Since(start)
	e.stats.Record(d, st.Pages, err != nil)
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Result: res, Stats: st, Duration: d}, nil
}
