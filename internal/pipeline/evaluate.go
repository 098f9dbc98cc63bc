package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/eval"
)

// Evaluate extracts every labeled PDF in inputDir and scores it against its
// label in labelDir. PDFs without a label are skipped. A PDF that cannot be
// read scores as an empty outline.
func Evaluate(ctx context.Context, ex *Extractor, inputDir, labelDir string, log *slog.Logger) (eval.Report, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	files, err := ListPDFs(inputDir)
	if err != nil {
		return eval.Report{}, err
	}

	var scores []eval.Score
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return eval.Report{}, err
		}
		name := filepath.Base(path)
		labelPath, ok := eval.FindLabel(path, labelDir)
		if !ok {
			log.Debug("no label, skipping", "file", name)
			continue
		}
		expected, err := eval.LoadLabel(labelPath)
		if err != nil {
			log.Error("label unreadable, skipping", "file", name, "label", labelPath, "error", err)
			continue
		}

		found := doctree.NewResult("", nil)
		ext, err := ex.ExtractFile(ctx, path)
		if err != nil {
			log.Error("extraction failed", "file", name, "error", err)
		} else {
			found = ext.Result
		}

		s := eval.Compare(name, expected, found)
		log.Info("scored",
			"file", name,
			"precision", s.Precision,
			"recall", s.Recall,
			"f1", s.F1,
			"title_match", s.TitleMatch,
		)
		scores = append(scores, s)
	}
	return eval.Summarize(scores), nil
}
