package text

import (
	"testing"

	"github.com/tsawler/asyncpdf/model"
)

// run builds a horizontal text run at the given position.
func run(s string, x, y, w float64) model.TextRun {
	return model.TextRun{
		Text:   s,
		Box:    model.NewBBox(x, y, w, 12),
		Matrix: model.Identity(),
	}
}

// leftAlignedPage builds a page whose lines all start at x=10 with
// varying widths: a classic left-aligned (LTR) layout.
func leftAlignedPage(texts []string) model.PageRuns {
	var page model.PageRuns
	y := 700.0
	widths := []float64{200, 150, 180, 120, 210}
	for i, s := range texts {
		page = append(page, run(s, 10, y, widths[i%len(widths)]))
		y -= 20
	}
	return page
}

// rightAlignedPage builds a page whose lines all end at x=400 with
// varying widths: a classic right-aligned (RTL) layout.
func rightAlignedPage(texts []string) model.PageRuns {
	var page model.PageRuns
	y := 700.0
	widths := []float64{200, 150, 180, 120, 210}
	for i, s := range texts {
		w := widths[i%len(widths)]
		page = append(page, run(s, 400-w, y, w))
		y -= 20
	}
	return page
}

func TestDetectLatinLeftAligned(t *testing.T) {
	page := leftAlignedPage([]string{
		"The quick brown fox",
		"jumps over",
		"the lazy dog near the river",
		"and sleeps",
	})

	if got := Detect([]model.PageRuns{page}); got != LTR {
		t.Errorf("Detect() = %v, want LTR", got)
	}
}

func TestDetectHebrewRightAligned(t *testing.T) {
	page := rightAlignedPage([]string{
		"שלום עולם זהו מסמך",
		"בדיקה של כיוון",
		"הטקסט בעמוד הזה",
		"מיושר לימין",
	})

	if got := Detect([]model.PageRuns{page}); got != RTL {
		t.Errorf("Detect() = %v, want RTL", got)
	}
}

func TestDetectArabicRightAligned(t *testing.T) {
	page := rightAlignedPage([]string{
		"مرحبا بالعالم هذه وثيقة",
		"اختبار اتجاه النص",
		"في هذه الصفحة",
	})

	if got := Detect([]model.PageRuns{page}); got != RTL {
		t.Errorf("Detect() = %v, want RTL", got)
	}
}

// A document whose characters are mostly Hebrew but whose lines are
// consistently left-aligned must come out LTR: alignment beats script.
func TestDetectAlignmentBeatsScript(t *testing.T) {
	page := leftAlignedPage([]string{
		"שלום עולם זהו מסמך ארוך",
		"בדיקה של כיוון הטקסט כאן",
		"ab", // a couple of Latin characters, far fewer than the Hebrew
		"עוד שורה אחת בעברית",
	})

	if got := Detect([]model.PageRuns{page}); got != LTR {
		t.Errorf("Detect() = %v, want LTR (alignment signal must win)", got)
	}
}

func TestDetectInsufficientDataDefaultsLTR(t *testing.T) {
	tests := []struct {
		name  string
		pages []model.PageRuns
	}{
		{"no pages", nil},
		{"empty page", []model.PageRuns{{}}},
		{"two lines only", []model.PageRuns{{
			run("one", 10, 700, 100),
			run("two", 10, 680, 100),
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.pages); got != LTR {
				t.Errorf("Detect() = %v, want LTR default", got)
			}
		})
	}
}

// Votes across pages combine at a 60% majority threshold.
func TestDetectMultiPageMajority(t *testing.T) {
	rtl := rightAlignedPage([]string{"שלום", "עולם", "שלום שוב", "עוד"})
	pages := []model.PageRuns{rtl, rtl, rtl}

	if got := Detect(pages); got != RTL {
		t.Errorf("Detect() over three RTL pages = %v, want RTL", got)
	}
}

func TestGroupIntoLines(t *testing.T) {
	page := model.PageRuns{
		// Line 1 (y=700), given out of order on the line.
		run("World", 60, 700, 40),
		run("Hello", 10, 700, 40),
		// Line 2 (y=680): within tolerance of itself, not of line 1.
		run("Second", 10, 681, 50),
		// Line 3 (y=660).
		run("Third", 10, 660, 50),
	}

	lines := groupIntoLines(page)
	if len(lines) != 3 {
		t.Fatalf("groupIntoLines() produced %d lines, want 3", len(lines))
	}
	if len(lines[0]) != 2 {
		t.Errorf("first line has %d runs, want 2", len(lines[0]))
	}
	if lines[0][0].Text != "Hello" || lines[0][1].Text != "World" {
		t.Errorf("first line order = %q, %q; want Hello, World",
			lines[0][0].Text, lines[0][1].Text)
	}
}

func TestGroupIntoLinesSeparatesOrientations(t *testing.T) {
	rotated := model.TextRun{
		Text:   "vertical",
		Box:    model.NewBBox(10, 700, 12, 80),
		Matrix: model.Matrix{0, 1, -1, 0, 0, 0},
	}
	page := model.PageRuns{
		run("horizontal", 10, 700, 80),
		rotated,
	}

	lines := groupIntoLines(page)
	if len(lines) != 2 {
		t.Fatalf("groupIntoLines() produced %d lines, want 2 (one per orientation)", len(lines))
	}
}

func TestOrientationCode(t *testing.T) {
	tests := []struct {
		name string
		m    model.Matrix
		want int
	}{
		{"normal", model.Identity(), 0},
		{"rotated 90", model.Matrix{0, 1, -1, 0, 0, 0}, 1},
		{"rotated 180", model.Matrix{-1, 0, 0, -1, 0, 0}, 2},
		{"rotated 270", model.Matrix{0, -1, 1, 0, 0, 0}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := model.TextRun{Matrix: tt.m}
			if got := orientationCode(r); got != tt.want {
				t.Errorf("orientationCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEdgeVariance(t *testing.T) {
	metrics := []lineMetrics{
		{leftEdge: 10, rightEdge: 100},
		{leftEdge: 10, rightEdge: 200},
		{leftEdge: 10, rightEdge: 150},
	}

	if v := edgeVariance(metrics, true); v != 0 {
		t.Errorf("left edge variance = %v, want 0 for perfectly aligned edges", v)
	}
	if v := edgeVariance(metrics, false); v <= 0 {
		t.Errorf("right edge variance = %v, want > 0 for ragged edges", v)
	}
	if v := edgeVariance(metrics[:1], true); v != 0 {
		t.Errorf("variance of a single line = %v, want 0", v)
	}
}
