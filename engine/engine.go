// Package engine implements the four extraction operations: text and
// metadata, each from a file or an in-memory buffer. Every operation is
// a thin composition: open the byte stream, check the cancellation flag,
// delegate the actual PDF walk to the parsing library, check the flag
// again, and package the result.
//
// The cancellation flag is polled only before and after the library
// call, never during: the library offers no yield points, so for a
// document large enough to still be mid-parse when cancellation arrives,
// the operation cannot stop until the call returns. That latency bound
// is a known property of the design, not a defect.
package engine

import (
	"errors"

	"github.com/tsawler/asyncpdf/bytestream"
	"github.com/tsawler/asyncpdf/model"
	"github.com/tsawler/asyncpdf/text"
	"go.uber.org/zap"
)

// Extraction error kinds. Callers match them with errors.Is; Cancelled
// is distinguished from the failures so a deliberate stop is never
// misreported as a fault.
var (
	// ErrCancelled means the operation observed its own cancellation flag.
	ErrCancelled = errors.New("operation cancelled")
	// ErrOpen means the file or stream could not be opened.
	ErrOpen = errors.New("failed to open source")
	// ErrParse means the parsing library rejected the document.
	ErrParse = errors.New("failed to parse document")
)

// DirectionMode selects how the reading direction of extracted text is
// determined.
type DirectionMode int

const (
	// DirectionAuto runs the direction classifier over the extracted runs.
	DirectionAuto DirectionMode = iota
	// DirectionLTR forces left-to-right.
	DirectionLTR
	// DirectionRTL forces right-to-left.
	DirectionRTL
)

// String returns a string representation of the mode.
func (m DirectionMode) String() string {
	switch m {
	case DirectionAuto:
		return "auto"
	case DirectionLTR:
		return "ltr"
	case DirectionRTL:
		return "rtl"
	default:
		return "unknown"
	}
}

// resolved returns the fixed direction for the mode, and whether the
// classifier should decide instead.
func (m DirectionMode) resolved() (dir text.Direction, auto bool) {
	switch m {
	case DirectionRTL:
		return text.RTL, false
	case DirectionLTR:
		return text.LTR, false
	default:
		return text.LTR, true
	}
}

// TextResult is the outcome of a text extraction operation. It is built
// once, never mutated afterwards, and owned by the caller once the
// future resolves.
type TextResult struct {
	// Text is the extracted text: runs joined in reading order, lines
	// separated by \n, pages by \f.
	Text string
	// PageCount is the number of pages in the document.
	PageCount int
	// Direction is the resolved reading direction: either the one the
	// caller forced, or the classifier's verdict under DirectionAuto.
	Direction text.Direction
	// Cancelled is set when the operation observed its cancellation flag
	// partway through instead of producing text.
	Cancelled bool
}

// MetadataResult is the outcome of a metadata extraction operation.
// Optional fields are nil when the document's info dictionary has no
// such entry; an empty string means the entry exists and is empty.
type MetadataResult struct {
	PageCount int
	// Version is the document's declared PDF version, e.g. "1.7".
	Version string

	Title            *string
	Author           *string
	Subject          *string
	Creator          *string
	Producer         *string
	CreationDate     *string // opaque PDF date string, not parsed
	ModificationDate *string // opaque PDF date string, not parsed

	// Cancelled is set when the operation observed its cancellation flag
	// partway through instead of producing metadata.
	Cancelled bool
}

// cancelFlag is the subset of the worker cancellation handle the engine
// polls at its checkpoints.
type cancelFlag interface {
	Cancelled() bool
}

// runExtractor is the parsing library's bulk text entry point: the whole
// document in, positioned text runs per page out.
type runExtractor interface {
	extractRuns(s bytestream.Stream) ([]model.PageRuns, error)
}

// docParser is the parsing library's document entry point: page count,
// declared version, and the info dictionary's string fields.
type docParser interface {
	parseDocument(s bytestream.Stream) (*documentInfo, error)
}

// documentInfo is what a document parse yields. Field pointers are nil
// for info-dictionary entries that are absent.
type documentInfo struct {
	pageCount int
	version   string

	title            *string
	author           *string
	subject          *string
	creator          *string
	producer         *string
	creationDate     *string
	modificationDate *string
}

// Engine runs extraction operations against the PDF parsing library.
// Constructing an Engine is the process-scoped initialization point for
// the library binding; construct once and share. An Engine is safe for
// concurrent use and operations share no mutable state.
type Engine struct {
	logger *zap.Logger
	runs   runExtractor
	docs   docParser
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger supplies a logger for operation lifecycle events. Without
// one the engine is silent.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an Engine bound to the PDF parsing library.
func New(opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	lib := pdfLib{}
	e.runs = lib
	e.docs = lib
	return e
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *zap.Logger {
	return e.logger
}
