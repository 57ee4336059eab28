// Package model holds the shared value types the engine passes between
// the PDF parsing collaborator, the direction classifier, and the text
// composer: positioned text runs and the geometry they are measured in.
package model

// TextRun is a fragment of extracted text together with its location and
// orientation on a page. Runs are produced by the PDF parsing library and
// consumed read-only by everything downstream.
type TextRun struct {
	// Text is the run's content, UTF-8 encoded.
	Text string

	// Box is the run's bounding box in page space.
	Box BBox

	// Matrix is the text transformation matrix describing the run's
	// orientation on the page.
	Matrix Matrix
}

// PageRuns holds all text runs of a single page.
type PageRuns []TextRun
