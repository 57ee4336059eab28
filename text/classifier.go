package text

import (
	"math"
	"sort"

	"github.com/tsawler/asyncpdf/model"
)

// lineTolerance is how far apart (in page units) two runs' baselines may
// be while still counting as the same line.
const lineTolerance = 5.0

// lineMetrics holds the measurements taken from a single line of text.
type lineMetrics struct {
	leftEdge  float64
	rightEdge float64
	rtlChars  int
	ltrChars  int
}

// analysis accumulates direction evidence across all pages.
type analysis struct {
	leftVariance  float64
	rightVariance float64
	rtlChars      int
	ltrChars      int
	ltrVotes      int
	rtlVotes      int
}

// Detect returns the document-level reading direction for the given
// per-page text runs.
//
// Two signals are combined. The alignment signal groups runs into lines
// and votes per page on whether left or right edges are the more
// consistently aligned. The script signal counts strong RTL versus
// strong LTR characters across the document. With no usable data at all
// (fewer than three lines on every page and no directional characters)
// the verdict defaults to LTR.
func Detect(pages []model.PageRuns) Direction {
	var a analysis
	for i := range pages {
		a.addPage(pages[i])
	}

	alignment := a.alignmentVerdict()

	// The script signal is confirmatory only. When the two signals
	// disagree, alignment wins: script mixing (Latin proper nouns inside
	// Hebrew or Arabic prose) is common and must not flip the verdict of
	// a consistently aligned document.
	if script := a.scriptVerdict(); script == alignment {
		return script
	}
	return alignment
}

// addPage analyzes one page and folds its evidence into the analysis.
// Pages with fewer than three lines carry no statistical weight and are
// skipped entirely.
func (a *analysis) addPage(runs model.PageRuns) {
	lines := groupIntoLines(runs)
	if len(lines) < 3 {
		return
	}

	metrics := make([]lineMetrics, 0, len(lines))
	for _, line := range lines {
		m := analyzeLine(line)
		metrics = append(metrics, m)
		a.rtlChars += m.rtlChars
		a.ltrChars += m.ltrChars
	}

	leftVar := edgeVariance(metrics, true)
	rightVar := edgeVariance(metrics, false)
	a.leftVariance += leftVar
	a.rightVariance += rightVar

	// A page votes only when one edge is clearly more aligned than the
	// other. Similar variance means mixed or centered text: no vote.
	if leftVar < rightVar*0.7 {
		a.ltrVotes++
	} else if rightVar < leftVar*0.7 {
		a.rtlVotes++
	}
}

// alignmentVerdict resolves the alignment signal: per-page vote majority
// at a 60% threshold, falling back to the globally accumulated variances
// when votes are split or absent. Uncertain defaults to LTR.
func (a *analysis) alignmentVerdict() Direction {
	if votes := a.ltrVotes + a.rtlVotes; votes > 0 {
		rtlRatio := float64(a.rtlVotes) / float64(votes)
		if rtlRatio >= 0.6 {
			return RTL
		}
		if rtlRatio <= 0.4 {
			return LTR
		}
	}

	if a.leftVariance < a.rightVariance*0.8 {
		return LTR
	}
	if a.rightVariance < a.leftVariance*0.8 {
		return RTL
	}

	return LTR
}

// scriptVerdict resolves the script signal. An RTL verdict requires the
// RTL character count to exceed twice the LTR count; anything weaker,
// including no directional characters at all, is LTR.
func (a *analysis) scriptVerdict() Direction {
	if a.rtlChars == 0 && a.ltrChars == 0 {
		return LTR
	}
	if a.rtlChars > a.ltrChars*2 {
		return RTL
	}
	return LTR
}

// analyzeLine measures one line: the leftmost and rightmost extents and
// the strong directional character counts of its runs.
func analyzeLine(line []model.TextRun) lineMetrics {
	if len(line) == 0 {
		return lineMetrics{}
	}

	m := lineMetrics{
		leftEdge:  line[0].Box.Left(),
		rightEdge: line[0].Box.Right(),
	}
	for i := range line {
		m.leftEdge = math.Min(m.leftEdge, line[i].Box.Left())
		m.rightEdge = math.Max(m.rightEdge, line[i].Box.Right())
		countScriptChars(line[i].Text, &m.rtlChars, &m.ltrChars)
	}
	return m
}

// edgeVariance computes the variance of the left (or right) edges across
// lines. Fewer than two lines have no variance.
func edgeVariance(metrics []lineMetrics, left bool) float64 {
	if len(metrics) < 2 {
		return 0
	}

	edge := func(m lineMetrics) float64 {
		if left {
			return m.leftEdge
		}
		return m.rightEdge
	}

	var sum float64
	for _, m := range metrics {
		sum += edge(m)
	}
	mean := sum / float64(len(metrics))

	var varianceSum float64
	for _, m := range metrics {
		diff := edge(m) - mean
		varianceSum += diff * diff
	}
	return varianceSum / float64(len(metrics))
}

// orientationCode classifies a run's orientation from its transformation
// matrix: 0 = normal horizontal, 1 = rotated 90°, 2 = rotated 180°,
// 3 = anything else.
func orientationCode(r model.TextRun) int {
	switch {
	case r.Matrix[0] > 0 && r.Matrix[3] > 0:
		return 0
	case r.Matrix[1] > 0 && r.Matrix[2] < 0:
		return 1
	case r.Matrix[0] < 0 && r.Matrix[3] < 0:
		return 2
	default:
		return 3
	}
}

// sameLine reports whether two runs lie on the same line: they must share
// an orientation class and be within lineTolerance of each other along
// the axis perpendicular to their reading direction.
func sameLine(a, b model.TextRun) bool {
	codeA := orientationCode(a)
	if codeA != orientationCode(b) {
		return false
	}

	if codeA == 0 || codeA == 2 {
		return math.Abs(a.Box.Bottom()-b.Box.Bottom()) <= lineTolerance
	}
	return math.Abs(a.Box.Left()-b.Box.Left()) <= lineTolerance
}

// lessWithinOrientation orders two runs of the same orientation class
// into reading order: line-major, then along the line.
func lessWithinOrientation(a, b model.TextRun, code int) bool {
	switch code {
	case 0:
		// Normal horizontal: top-to-bottom, then left-to-right.
		if math.Abs(a.Box.Bottom()-b.Box.Bottom()) > lineTolerance {
			return b.Box.Bottom() < a.Box.Bottom()
		}
		return a.Box.Left() < b.Box.Left()
	case 1:
		if math.Abs(a.Box.Left()-b.Box.Left()) > lineTolerance {
			return a.Box.Left() < b.Box.Left()
		}
		return a.Box.Bottom() < b.Box.Bottom()
	case 2:
		if math.Abs(a.Box.Bottom()-b.Box.Bottom()) > lineTolerance {
			return a.Box.Bottom() < b.Box.Bottom()
		}
		return b.Box.Left() < a.Box.Left()
	default:
		if math.Abs(a.Box.Left()-b.Box.Left()) > lineTolerance {
			return b.Box.Left() < a.Box.Left()
		}
		return b.Box.Bottom() < a.Box.Bottom()
	}
}

// runLess is the full reading-order comparison: orientation class first,
// then position within the class.
func runLess(a, b model.TextRun) bool {
	codeA, codeB := orientationCode(a), orientationCode(b)
	if codeA != codeB {
		return codeA < codeB
	}
	return lessWithinOrientation(a, b, codeA)
}

// Lines sorts a page's runs into reading order and groups them into
// lines. The same grouping drives both the alignment signal and the
// final text composition, so both always agree on what a "line" is.
func Lines(runs model.PageRuns) []model.PageRuns {
	return groupIntoLines(runs)
}

// groupIntoLines sorts the page's runs into reading order and groups
// consecutive runs that lie on the same line.
func groupIntoLines(runs model.PageRuns) []model.PageRuns {
	sorted := make(model.PageRuns, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return runLess(sorted[i], sorted[j])
	})

	var lines []model.PageRuns
	var current model.PageRuns
	for _, run := range sorted {
		if len(current) == 0 || sameLine(current[len(current)-1], run) {
			current = append(current, run)
			continue
		}
		lines = append(lines, current)
		current = model.PageRuns{run}
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}
