package outline

import "github.com/dgallion1/docoutline/internal/doctree"

// Candidate is a block that survived the Noise Filter.
type Candidate struct {
	Text     string
	Page     int
	FontSize float64
	Bold     bool
	Y, X     float64
}

// AssignLevel maps a candidate to H1..H3 from its tier in the profile.
// Tiers below the third fold into H3. It returns false for sizes the
// profile does not know, and for tiers past MaxTrackedTiers when set.
//
// With BoldPromotionEnabled, a bold candidate in a tier that also holds
// regular text ranks one tier higher, unless a regular candidate of that
// tier is larger. Promotion moves one tier at most, so a larger size never
// maps to a deeper level.
func AssignLevel(c Candidate, p Profile, cfg Config) (doctree.Level, bool) {
	r, ok := p.Rank(c.FontSize)
	if !ok {
		return 0, false
	}
	if cfg.MaxTrackedTiers > 0 && r > cfg.MaxTrackedTiers {
		return 0, false
	}
	if cfg.BoldPromotionEnabled && c.Bold && r > 1 && p.Promotable(r, c.FontSize) {
		r--
	}
	if r > int(doctree.H3) {
		r = int(doctree.H3)
	}
	return doctree.Level(r), true
}
