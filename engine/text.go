package engine

import (
	"fmt"

	"github.com/tsawler/asyncpdf/bytestream"
	"github.com/tsawler/asyncpdf/text"
	"go.uber.org/zap"
)

// ExtractTextFile extracts text from the PDF at path. The file is opened
// once, privately, for this operation.
func (e *Engine) ExtractTextFile(path string, mode DirectionMode, flag cancelFlag) (TextResult, error) {
	s, err := bytestream.OpenFile(path)
	if err != nil {
		return TextResult{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer s.Close()

	return e.ExtractText(s, mode, flag)
}

// ExtractTextBuffer extracts text from an in-memory PDF. The buffer is
// copied, so the caller may reuse data as soon as this call is queued.
func (e *Engine) ExtractTextBuffer(data []byte, mode DirectionMode, flag cancelFlag) (TextResult, error) {
	s := bytestream.NewBuffer(data)
	defer s.Close()

	return e.ExtractText(s, mode, flag)
}

// ExtractText runs the core text extraction over an open stream.
//
// The cancellation flag is checked before and after the library call.
// When either check fires the result carries Cancelled=true and no text;
// converting that into a distinguished error is the dispatch layer's
// job. Direction is resolved by the classifier only under DirectionAuto.
func (e *Engine) ExtractText(s bytestream.Stream, mode DirectionMode, flag cancelFlag) (TextResult, error) {
	dir, auto := mode.resolved()

	if flag != nil && flag.Cancelled() {
		return TextResult{Direction: dir, Cancelled: true}, nil
	}

	pages, err := e.runs.extractRuns(s)

	if flag != nil && flag.Cancelled() {
		return TextResult{Direction: dir, Cancelled: true}, nil
	}
	if err != nil {
		return TextResult{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if auto {
		dir = text.Detect(pages)
		e.logger.Debug("direction classified",
			zap.String("direction", dir.String()),
			zap.Int("pages", len(pages)))
	}

	return TextResult{
		Text:      composeText(pages, dir),
		PageCount: len(pages),
		Direction: dir,
	}, nil
}
