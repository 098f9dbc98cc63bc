package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docoutline/internal/store"
)

// ResultStore persists finished extractions.
type ResultStore interface {
	Put(ctx context.Context, doc store.Document) error
	FindByHash(ctx context.Context, hash string) (store.Document, error)
}

// Worker processes a single document job.
type Worker struct {
	ex    *Extractor
	store ResultStore
	log   *slog.Logger
}

func NewWorker(ex *Extractor, st ResultStore, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Worker{ex: ex, store: st, log: log}
}

// Process runs the extraction pipeline for a job. A file already stored
// under the same content hash ends as a duplicate carrying the stored result.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)
	defer job.releaseFileData()

	// Phase 1: Hash and dedup
	job.SetStatus(StatusReading, "hashing")
	data := job.FileData()
	hash := ContentHashHex(data)
	job.mu.Lock()
	job.ContentHash = hash
	job.mu.Unlock()

	if w.store != nil {
		existing, err := w.store.FindByHash(ctx, hash)
		switch {
		case err == nil:
			log.Info("duplicate document, skipping", "existing_doc_id", existing.ID)
			job.SetPages(existing.Stats.Pages)
			job.SetResult(existing.ID, existing.Result)
			job.SetStatus(StatusDuplicate, "dedup")
			return
		case !errors.Is(err, store.ErrNotFound):
			log.Warn("dedup check failed, proceeding", "error", err)
		}
	}

	// Phase 2: Extract
	job.SetStatus(StatusExtracting, "extracting")
	ext, err := w.ex.ExtractBytes(ctx, job.Filename, data)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	job.SetPages(ext.Stats.Pages)
	job.SetResult(job.DocID, ext.Result)
	log.Info("outline extracted",
		"pages", ext.Stats.Pages,
		"entries", len(ext.Result.Outline),
		"duration_ms", ext.Duration.Milliseconds(),
	)

	// Phase 3: Store
	if w.store != nil {
		job.SetStatus(StatusStoring, "storing")
		err := w.store.Put(ctx, store.Document{
			ID:          job.DocID,
			Filename:    job.Filename,
			ContentHash: hash,
			Result:      ext.Result,
			Stats:       ext.Stats,
			DurationMs:  ext.Duration.Milliseconds(),
			CreatedAt:   time.Now(),
		})
		if err != nil {
			log.Error("store failed", "error", err)
			job.AddError(fmt.Sprintf("store: %s", err))
			job.SetStatus(StatusFailed, "storing")
			return
		}
	}

	job.SetStatus(StatusCompleted, "done")
}
