package asyncpdf

import (
	"github.com/tsawler/asyncpdf/engine"
	"github.com/tsawler/asyncpdf/text"
)

// Direction is the reading direction of extracted text.
type Direction = text.Direction

// Reading directions reported in a TextResult.
const (
	LTR = text.LTR
	RTL = text.RTL
)

// DirectionMode selects how the reading direction is determined for a
// text extraction.
type DirectionMode = engine.DirectionMode

// Direction modes accepted by WithDirection.
const (
	// DirectionAuto classifies the document from its content and layout.
	DirectionAuto = engine.DirectionAuto
	// DirectionLTR forces left-to-right.
	DirectionLTR = engine.DirectionLTR
	// DirectionRTL forces right-to-left.
	DirectionRTL = engine.DirectionRTL
)

// textOptions holds configuration for one text extraction.
type textOptions struct {
	direction DirectionMode
}

// defaultTextOptions returns the default text extraction options.
func defaultTextOptions() textOptions {
	return textOptions{direction: DirectionAuto}
}

// TextOption configures a text extraction operation.
type TextOption func(*textOptions)

// WithDirection sets how the reading direction is determined. The
// default is DirectionAuto.
func WithDirection(mode DirectionMode) TextOption {
	return func(o *textOptions) { o.direction = mode }
}
