package outline

import "sort"

// Profile is the ranked set of distinct candidate font sizes of one
// document, largest first. Sizes within the tolerance of a tier's largest
// size share that tier.
type Profile struct {
	tiers []float64
	rank  map[float64]int

	// mixed marks tiers holding both bold and regular candidates.
	mixed map[int]bool
	// maxRegular is the largest regular size in each tier.
	maxRegular map[int]float64
}

// NewProfile ranks the sizes of the given candidates.
func NewProfile(candidates []Candidate, tolerance float64) Profile {
	p := Profile{
		rank:       make(map[float64]int),
		mixed:      make(map[int]bool),
		maxRegular: make(map[int]float64),
	}

	sizes := make([]float64, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := p.rank[c.FontSize]; ok {
			continue
		}
		p.rank[c.FontSize] = 0
		sizes = append(sizes, c.FontSize)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	for _, s := range sizes {
		if len(p.tiers) == 0 || p.tiers[len(p.tiers)-1]-s > tolerance {
			p.tiers = append(p.tiers, s)
		}
		p.rank[s] = len(p.tiers)
	}

	bold := make(map[int]bool)
	regular := make(map[int]bool)
	for _, c := range candidates {
		r := p.rank[c.FontSize]
		if c.Bold {
			bold[r] = true
		} else {
			regular[r] = true
			if c.FontSize > p.maxRegular[r] {
				p.maxRegular[r] = c.FontSize
			}
		}
	}
	for r := range bold {
		if regular[r] {
			p.mixed[r] = true
		}
	}
	return p
}

// Rank returns the 1-based tier of size, or false if the size never
// occurred among the profiled candidates.
func (p Profile) Rank(size float64) (int, bool) {
	r, ok := p.rank[size]
	return r, ok && r > 0
}

// Sizes returns the tier sizes, largest first.
func (p Profile) Sizes() []float64 {
	out := make([]float64, len(p.tiers))
	copy(out, p.tiers)
	return out
}

// Len is the number of tiers.
func (p Profile) Len() int { return len(p.tiers) }

// Mixed reports whether tier r has both bold and regular candidates.
func (p Profile) Mixed(r int) bool { return p.mixed[r] }

// Promotable reports whether a bold candidate of size in tier r may rank
// one tier higher: the tier is mixed and no regular candidate in it is
// larger.
func (p Profile) Promotable(r int, size float64) bool {
	return p.mixed[r] && size >= p.maxRegular[r]
}
