package engine

import (
	"strings"

	"github.com/tsawler/asyncpdf/model"
	"github.com/tsawler/asyncpdf/text"
)

// composeText flattens per-page runs into a single string in reading
// order: runs joined within each line, lines separated by \n, pages by
// \f so page boundaries survive in the flat text.
func composeText(pages []model.PageRuns, dir text.Direction) string {
	var sb strings.Builder
	for pi, page := range pages {
		if pi > 0 {
			sb.WriteByte('\f')
		}
		composePage(&sb, page, dir)
	}
	return sb.String()
}

func composePage(sb *strings.Builder, page model.PageRuns, dir text.Direction) {
	lines := text.Lines(page)
	for li, line := range lines {
		if li > 0 {
			sb.WriteByte('\n')
		}
		composeLine(sb, line, dir)
	}
}

// composeLine writes one line's runs in reading order. Lines arrive
// sorted left-to-right; under RTL the rightmost run is read first, so
// the order is reversed.
//
// The library often reports every glyph as its own run, so runs are
// concatenated directly and a space is synthesized only where the
// horizontal gap between two runs is wide enough to be a word break
// the content stream expressed as a positioning jump rather than a
// space character.
func composeLine(sb *strings.Builder, line model.PageRuns, dir text.Direction) {
	ordered := line
	if dir == text.RTL {
		ordered = make(model.PageRuns, len(line))
		for i, r := range line {
			ordered[len(line)-1-i] = r
		}
	}

	var prev *model.TextRun
	for i := range ordered {
		r := &ordered[i]
		if r.Text == "" {
			continue
		}
		if prev != nil && readingGap(prev, r, dir) >= wordGap(r) {
			sb.WriteByte(' ')
		}
		sb.WriteString(r.Text)
		prev = r
	}
}

// readingGap is the horizontal distance between a run and its
// predecessor in reading order.
func readingGap(prev, cur *model.TextRun, dir text.Direction) float64 {
	if dir == text.RTL {
		return prev.Box.Left() - cur.Box.Right()
	}
	return cur.Box.Left() - prev.Box.Right()
}

// wordGap is how wide a positioning jump must be to count as a word
// break, scaled to the run's size.
func wordGap(r *model.TextRun) float64 {
	if h := r.Box.Height; h > 0 {
		return 0.3 * h
	}
	return 1.0
}
