package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Output formats written by RunBatch.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// BatchOptions configure a directory run.
type BatchOptions struct {
	InputDir  string
	OutputDir string
	Workers   int
	Format    string // FormatJSON (default) or FormatMarkdown
}

// BatchReport summarises a directory run.
type BatchReport struct {
	Total     int
	Succeeded int
	Failed    []string // Input file names that could not be extracted
}

// ListPDFs returns the *.pdf files of dir, any case, sorted by name.
func ListPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// EncodeJSON writes res with a two-space indent and without HTML escaping.
func EncodeJSON(res doctree.Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doctree.NewResult(res.Title, res.Outline)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunBatch extracts every PDF in opts.InputDir with opts.Workers workers and
// writes one output file per input. A document that cannot be read gets an
// empty record and is counted as failed without stopping the others; the
// returned error reports the failures after every document has been
// attempted.
func RunBatch(ctx context.Context, ex *Extractor, opts BatchOptions, log *slog.Logger) (BatchReport, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	format := opts.Format
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatMarkdown {
		return BatchReport{}, fmt.Errorf("unknown output format %q", format)
	}

	files, err := ListPDFs(opts.InputDir)
	if err != nil {
		return BatchReport{}, err
	}
	report := BatchReport{Total: len(files)}
	if len(files) == 0 {
		log.Info("no pdf files found", "input", opts.InputDir)
		return report, nil
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return report, fmt.Errorf("create output dir: %w", err)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	paths := make(chan string)
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range paths {
				err := processFile(ctx, ex, path, opts.OutputDir, format, log)
				mu.Lock()
				if err != nil {
					report.Failed = append(report.Failed, filepath.Base(path))
				} else {
					report.Succeeded++
				}
				mu.Unlock()
			}
		}()
	}
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		paths <- path
	}
	close(paths)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return report, err
	}
	sort.Strings(report.Failed)
	if n := len(report.Failed); n > 0 {
		return report, fmt.Errorf("%d of %d documents failed", n, report.Total)
	}
	return report, nil
}

func processFile(ctx context.Context, ex *Extractor, path, outDir, format string, log *slog.Logger) error {
	log = log.With("file", filepath.Base(path))
	ext, extractErr := ex.ExtractFile(ctx, path)
	if extractErr != nil {
		// Still emit an empty record so every input has an output.
		log.Error("extraction failed", "error", extractErr)
		ext = Extraction{Result: doctree.NewResult("", nil)}
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var (
		data []byte
		name string
		err  error
	)
	switch format {
	case FormatMarkdown:
		data, name = []byte(ext.Result.Markdown()), base+".md"
	default:
		data, err = EncodeJSON(ext.Result)
		if err != nil {
			log.Error("encode failed", "error", err)
			return err
		}
		name = base + ".json"
	}
	if err := os.WriteFile(filepath.Join(outDir, name), data, 0o644); err != nil {
		log.Error("write failed", "error", err)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if extractErr != nil {
		return extractErr
	}
	log.Info("outline written",
		"output", name,
		"pages", ext.Stats.Pages,
		"entries", len(ext.Result.Outline),
		"duration_ms", ext.Duration.Milliseconds(),
	)
	return nil
}
