package collector

import "testing"

// run lays s out from x on baseline y, half an em per glyph.
func run(s string, x, y, size float64, bold bool) []glyph {
	var out []glyph
	for _, r := range s {
		out = append(out, glyph{s: string(r), x: x, y: y, w: size / 2, size: size, bold: bold})
		x += size / 2
	}
	return out
}

func TestIsBoldFont(t *testing.T) {
	tests := map[string]bool{
		"Helvetica-Bold":            true,
		"ABCDEF+TimesNewRoman,Bold": true,
		"Arial-Black":               true,
		"SourceSansPro-Semibold":    true,
		"FuturaStd-Heavy":           true,
		"TimesNewRoman,B":           true,
		"Arial,BI":                  true,
		"Helvetica":                 false,
		"XYZABC+Garamond-Italic":    false,
	}
	for name, want := range tests {
		if got := isBoldFont(name); got != want {
			t.Errorf("isBoldFont(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestGroupLines_WordGaps(t *testing.T) {
	var g []glyph
	g = append(g, run("Hello", 72, 100, 10, false)...)
	g = append(g, run("world", 72+5*5+4, 100.5, 10, false)...)
	lines := groupLines(g, DefaultOptions())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].text != "Hello world" {
		t.Errorf("expected gap to become a space, got %q", lines[0].text)
	}
}

func TestGroupLines_SplitsColumns(t *testing.T) {
	var g []glyph
	g = append(g, run("Left", 72, 100, 10, false)...)
	g = append(g, run("Right", 320, 100, 10, false)...)
	lines := groupLines(g, DefaultOptions())
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

func TestGroupLines_DominantSizeAndWeight(t *testing.T) {
	var g []glyph
	g = append(g, run("Big", 72, 100, 18, true)...)
	g = append(g, run(" heading words", 72+3*9, 100, 12, false)...)
	lines := groupLines(g, DefaultOptions())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].size != 12 || lines[0].bold {
		t.Errorf("expected 12pt regular by rune count, got %v bold=%v", lines[0].size, lines[0].bold)
	}
}

func TestGroupBlocks(t *testing.T) {
	var g []glyph
	g = append(g, run("Introduction", 72, 100, 18, true)...)
	g = append(g, run("First line of the", 72, 130, 10, false)...)
	g = append(g, run("paragraph and", 72, 142, 10, false)...)
	g = append(g, run("graphs continue here", 72, 154, 10, false)...)
	g = append(g, run("Next paragraph", 72, 200, 10, false)...)

	opts := DefaultOptions()
	blocks := groupBlocks(groupLines(g, opts), 4, opts)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blocks[0].Text != "Introduction" || !blocks[0].Bold || blocks[0].FontSize != 18 {
		t.Errorf("unexpected heading block %+v", blocks[0])
	}
	if blocks[1].Lines != 3 || blocks[1].Page != 4 {
		t.Errorf("expected 3-line block on page 4, got %+v", blocks[1])
	}
	if blocks[2].Text != "Next paragraph" {
		t.Errorf("unexpected last block %+v", blocks[2])
	}
	if blocks[1].BBox.Y0 >= blocks[2].BBox.Y0 {
		t.Error("expected blocks in top-down order")
	}
}

func TestAppendJoined(t *testing.T) {
	got := appendJoined([]string{"infor-"}, "mation")
	if len(got) != 1 || got[0] != "information" {
		t.Errorf("expected hyphen rejoined, got %v", got)
	}
	got = appendJoined([]string{"2019-"}, "2020")
	if len(got) != 2 {
		t.Errorf("expected no join before a digit, got %v", got)
	}
}
