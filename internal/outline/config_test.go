package outline

import (
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		key    string
		mutate func(*Config)
	}{
		{"min_text_length", func(c *Config) { c.MinTextLength = 0 }},
		{"min_font_size", func(c *Config) { c.MinFontSize = -1 }},
		{"max_heading_words", func(c *Config) { c.MaxHeadingWords = 0 }},
		{"size_tolerance", func(c *Config) { c.SizeTolerance = -0.1 }},
		{"title_center_tolerance", func(c *Config) { c.TitleCenterTolerance = 0.6 }},
		{"title_upper_fraction", func(c *Config) { c.TitleUpperFraction = 0 }},
		{"title_max_blocks", func(c *Config) { c.TitleMaxBlocks = 0 }},
		{"max_tracked_tiers", func(c *Config) { c.MaxTrackedTiers = -1 }},
		{"running_min_pages", func(c *Config) { c.RunningMinPages = 1 }},
		{"running_margin_fraction", func(c *Config) { c.RunningMarginFraction = 0.7 }},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("expected error naming %s, got %v", tt.key, err)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	if NormalizeKey("  INTRODUCTION\n") != NormalizeKey("introduction") {
		t.Error("expected case and space insensitive keys")
	}
	if NormalizeKey("ﬁnal") != "final" {
		t.Errorf("expected NFKC ligature folding, got %q", NormalizeKey("ﬁnal"))
	}
	if runningKey("Page 3") != runningKey("Page 14") {
		t.Error("expected digit runs masked")
	}
}
