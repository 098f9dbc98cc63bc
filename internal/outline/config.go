package outline

import "fmt"

// Config holds the tunable heuristics of the classifier. All thresholds are
// document-relative unless noted; sizes are in points.
type Config struct {
	// MinTextLength is the minimum trimmed rune length of any useful block.
	MinTextLength int `json:"min_text_length" yaml:"min_text_length"`

	// MinFontSize drops text smaller than this (absolute points). 0 disables.
	MinFontSize float64 `json:"min_font_size" yaml:"min_font_size"`

	// BodyTextMinWords is the word count from which a multi-line,
	// punctuated, non-bold block reads as prose.
	BodyTextMinWords int `json:"body_text_min_words" yaml:"body_text_min_words"`

	// MaxHeadingWords is the longest block that can still be a heading.
	MaxHeadingWords int `json:"max_heading_words" yaml:"max_heading_words"`

	// SentencePunctuationMin is the minimum number of sentence marks
	// (. ! ? ; per 20 words) for a multi-line block to count as prose.
	SentencePunctuationMin float64 `json:"sentence_punctuation_min" yaml:"sentence_punctuation_min"`

	// SizeTolerance collapses font sizes this close into one tier and is the
	// margin a block must exceed the body size by to stand out.
	SizeTolerance float64 `json:"size_tolerance" yaml:"size_tolerance"`

	// TitleSizeTolerance is how close a block's size must be to the largest
	// page-1 size to be merged into a multi-line title.
	TitleSizeTolerance float64 `json:"title_size_tolerance" yaml:"title_size_tolerance"`

	// TitleCenterTolerance is the allowed distance of a title block's centre
	// from the page centre, as a fraction of the page width.
	TitleCenterTolerance float64 `json:"title_center_tolerance" yaml:"title_center_tolerance"`

	// TitleUpperFraction limits title blocks to the top part of page 1.
	TitleUpperFraction float64 `json:"title_upper_fraction" yaml:"title_upper_fraction"`

	// TitleMaxBlocks caps how many adjacent blocks merge into the title.
	TitleMaxBlocks int `json:"title_max_blocks" yaml:"title_max_blocks"`

	// TitleMaxLineGap is the largest vertical gap between merged title
	// blocks, as a multiple of the title font size.
	TitleMaxLineGap float64 `json:"title_max_line_gap" yaml:"title_max_line_gap"`

	// TitleFallbackEnabled uses the first non-noise page-1 block when no
	// large centred text exists.
	TitleFallbackEnabled bool `json:"title_fallback_enabled" yaml:"title_fallback_enabled"`

	// BoldPromotionEnabled lets a bold candidate rank one tier higher.
	BoldPromotionEnabled bool `json:"bold_promotion_enabled" yaml:"bold_promotion_enabled"`

	// MaxTrackedTiers drops candidates ranked deeper than this instead of
	// folding them into H3. 0 folds everything.
	MaxTrackedTiers int `json:"max_tracked_tiers" yaml:"max_tracked_tiers"`

	// RunningMinPages is how many pages a margin text must repeat on to be a
	// running header or footer.
	RunningMinPages int `json:"running_min_pages" yaml:"running_min_pages"`

	// RunningMarginFraction is the height of the top and bottom bands, as a
	// fraction of the page height, searched for running text.
	RunningMarginFraction float64 `json:"running_margin_fraction" yaml:"running_margin_fraction"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		MinTextLength:          3,
		MinFontSize:            6,
		BodyTextMinWords:       12,
		MaxHeadingWords:        25,
		SentencePunctuationMin: 1,
		SizeTolerance:          0.5,
		TitleSizeTolerance:     1.0,
		TitleCenterTolerance:   0.25,
		TitleUpperFraction:     0.5,
		TitleMaxBlocks:         3,
		TitleMaxLineGap:        1.5,
		TitleFallbackEnabled:   true,
		BoldPromotionEnabled:   true,
		MaxTrackedTiers:        0,
		RunningMinPages:        3,
		RunningMarginFraction:  0.08,
	}
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch {
	case c.MinTextLength < 1:
		return fmt.Errorf("min_text_length must be >= 1")
	case c.MinFontSize < 0:
		return fmt.Errorf("min_font_size must be >= 0")
	case c.BodyTextMinWords < 1:
		return fmt.Errorf("body_text_min_words must be >= 1")
	case c.MaxHeadingWords < 1:
		return fmt.Errorf("max_heading_words must be >= 1")
	case c.SentencePunctuationMin < 0:
		return fmt.Errorf("sentence_punctuation_min must be >= 0")
	case c.SizeTolerance < 0:
		return fmt.Errorf("size_tolerance must be >= 0")
	case c.TitleSizeTolerance < 0:
		return fmt.Errorf("title_size_tolerance must be >= 0")
	case c.TitleCenterTolerance <= 0 || c.TitleCenterTolerance > 0.5:
		return fmt.Errorf("title_center_tolerance must be in (0, 0.5]")
	case c.TitleUpperFraction <= 0 || c.TitleUpperFraction > 1:
		return fmt.Errorf("title_upper_fraction must be in (0, 1]")
	case c.TitleMaxBlocks < 1:
		return fmt.Errorf("title_max_blocks must be >= 1")
	case c.TitleMaxLineGap < 0:
		return fmt.Errorf("title_max_line_gap must be >= 0")
	case c.MaxTrackedTiers < 0:
		return fmt.Errorf("max_tracked_tiers must be >= 0")
	case c.RunningMinPages < 2:
		return fmt.Errorf("running_min_pages must be >= 2")
	case c.RunningMarginFraction < 0 || c.RunningMarginFraction > 0.5:
		return fmt.Errorf("running_margin_fraction must be in [0, 0.5]")
	}
	return nil
}
