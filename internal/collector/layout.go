package collector

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// glyph is one shown character with its baseline measured from the top of
// the page.
type glyph struct {
	s    string
	x, y float64
	w    float64
	size float64
	bold bool
}

type line struct {
	text     string
	baseline float64
	x0, x1   float64
	size     float64
	bold     bool
	runes    int
}

func (l line) top() float64    { return l.baseline - l.size }
func (l line) bottom() float64 { return l.baseline + l.size*0.2 }

var boldMarkers = []string{"bold", "black", "heavy", "semibold", "demi"}

// isBoldFont guesses the weight from the base font name, e.g.
// "ABCDEF+Helvetica-Bold", "Arial,Bold" or "TimesNewRoman,B".
func isBoldFont(name string) bool {
	if i := strings.IndexByte(name, '+'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.ToLower(name)
	if strings.HasSuffix(name, ",b") || strings.HasSuffix(name, ",bi") {
		return true
	}
	for _, m := range boldMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// groupLines clusters glyphs by baseline, orders each cluster left to right
// and splits it at column-sized gaps.
func groupLines(glyphs []glyph, opts Options) []line {
	sorted := make([]glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if g.s == "" || g.size <= 0 {
			continue
		}
		sorted = append(sorted, g)
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].y < sorted[j].y })

	var rows [][]glyph
	for _, g := range sorted {
		if n := len(rows); n > 0 {
			ref := rows[n-1][0]
			if math.Abs(g.y-ref.y) <= opts.LineTolerance*math.Max(g.size, ref.size) {
				rows[n-1] = append(rows[n-1], g)
				continue
			}
		}
		rows = append(rows, []glyph{g})
	}

	var lines []line
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].x < row[j].x })
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) {
				prev := row[i-1]
				if row[i].x-(prev.x+prev.w) <= opts.ColumnGapRatio*prev.size {
					continue
				}
			}
			if l, ok := buildLine(row[start:i], opts); ok {
				lines = append(lines, l)
			}
			start = i
		}
	}
	return lines
}

func buildLine(run []glyph, opts Options) (line, bool) {
	var (
		b        strings.Builder
		pending  bool
		boldRune int
		total    int
		baseline float64
	)
	sizeRune := make(map[float64]int)
	l := line{x0: math.Inf(1), x1: math.Inf(-1)}
	var prev *glyph
	for i := range run {
		g := &run[i]
		if strings.TrimSpace(g.s) == "" {
			pending = b.Len() > 0
			prev = g
			continue
		}
		if prev != nil && b.Len() > 0 && g.x-(prev.x+prev.w) > opts.WordGapRatio*g.size {
			pending = true
		}
		if pending {
			b.WriteByte(' ')
			pending = false
		}
		b.WriteString(g.s)

		n := utf8.RuneCountInString(g.s)
		sizeRune[math.Round(g.size*10)/10] += n
		if g.bold {
			boldRune += n
		}
		total += n
		baseline += g.y * float64(n)
		l.x0 = math.Min(l.x0, g.x)
		l.x1 = math.Max(l.x1, g.x+g.w)
		prev = g
	}
	if total == 0 {
		return line{}, false
	}
	l.text = b.String()
	l.size = dominant(sizeRune)
	l.bold = boldRune*2 > total
	l.runes = total
	l.baseline = baseline / float64(total)
	return l, true
}

// dominant returns the key with the largest count, the larger size on ties.
func dominant(counts map[float64]int) float64 {
	best, bestN := 0.0, -1
	for s, n := range counts {
		if n > bestN || (n == bestN && s > best) {
			best, bestN = s, n
		}
	}
	return best
}

type blockAcc struct {
	lines []line
	x0    float64
	x1    float64
	y0    float64
	y1    float64
}

func (a *blockAcc) add(l line) {
	if len(a.lines) == 0 {
		a.x0, a.x1, a.y0, a.y1 = l.x0, l.x1, l.top(), l.bottom()
	} else {
		a.x0 = math.Min(a.x0, l.x0)
		a.x1 = math.Max(a.x1, l.x1)
		a.y0 = math.Min(a.y0, l.top())
		a.y1 = math.Max(a.y1, l.bottom())
	}
	a.lines = append(a.lines, l)
}

func (a *blockAcc) last() line { return a.lines[len(a.lines)-1] }

// groupBlocks merges consecutive lines into blocks. A line joins the
// nearest block above it that overlaps it horizontally when the two share
// size and weight and the vertical gap is small.
func groupBlocks(lines []line, pageNum int, opts Options) []doctree.Block {
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].baseline != lines[j].baseline {
			return lines[i].baseline < lines[j].baseline
		}
		return lines[i].x0 < lines[j].x0
	})

	var accs []*blockAcc
	for _, l := range lines {
		var target *blockAcc
		for i := len(accs) - 1; i >= 0; i-- {
			a := accs[i]
			if l.x0 > a.x1 || l.x1 < a.x0 {
				continue
			}
			last := a.last()
			if math.Abs(last.size-l.size) <= opts.SizeJump &&
				last.bold == l.bold &&
				l.top()-last.bottom() <= opts.BlockGapRatio*l.size {
				target = a
			}
			break
		}
		if target == nil {
			target = &blockAcc{}
			accs = append(accs, target)
		}
		target.add(l)
	}

	blocks := make([]doctree.Block, 0, len(accs))
	for _, a := range accs {
		blocks = append(blocks, a.block(pageNum))
	}
	return blocks
}

func (a *blockAcc) block(pageNum int) doctree.Block {
	var (
		parts    []string
		boldRune int
		total    int
	)
	sizeRune := make(map[float64]int)
	for _, l := range a.lines {
		parts = appendJoined(parts, l.text)
		sizeRune[l.size] += l.runes
		if l.bold {
			boldRune += l.runes
		}
		total += l.runes
	}
	return doctree.Block{
		Text:     strings.Join(parts, " "),
		Page:     pageNum,
		FontSize: dominant(sizeRune),
		Bold:     boldRune*2 > total,
		BBox:     doctree.BBox{X0: a.x0, Y0: a.y0, X1: a.x1, Y1: a.y1},
		Lines:    len(a.lines),
	}
}

// appendJoined adds next to parts, rejoining a word hyphenated across the
// line break.
func appendJoined(parts []string, next string) []string {
	n := len(parts)
	if n == 0 {
		return append(parts, next)
	}
	prev := parts[n-1]
	first, _ := utf8.DecodeRuneInString(next)
	if strings.HasSuffix(prev, "-") && len(prev) > 1 && unicode.IsLower(first) {
		parts[n-1] = strings.TrimSuffix(prev, "-") + next
		return parts
	}
	return append(parts, next)
}
