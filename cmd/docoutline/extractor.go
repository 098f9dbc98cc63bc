package main

import (
	"log/slog"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

// newExtractor builds an extractor from env config overlaid with flags.
func (g *globalFlags) newExtractor(log *slog.Logger) (*pipeline.Extractor, error) {
	cfg := config.Load()
	if g.maxPages > 0 {
		cfg.MaxPages = g.maxPages
	}
	if g.heuristics != "" {
		cfg.HeuristicsFile = g.heuristics
	}
	if g.preflight {
		cfg.PDFPreflight = true
	}
	heuristics, err := config.LoadHeuristics(cfg.HeuristicsFile)
	if err != nil {
		return nil, err
	}
	return pipeline.NewExtractor(heuristics, cfg.CollectorOptions(), log), nil
}
