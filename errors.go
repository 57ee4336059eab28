package asyncpdf

import (
	"errors"

	"github.com/tsawler/asyncpdf/engine"
	"github.com/tsawler/asyncpdf/worker"
)

// Error kinds an operation's future can resolve with. Match them with
// errors.Is. Cancelled is distinguished from the failures so a caller
// can tell "I stopped this" from "it failed". None of them are retried
// here; retrying means starting a new operation.
var (
	// ErrCancelled means the operation observed its cancellation flag
	// and aborted.
	ErrCancelled = engine.ErrCancelled
	// ErrOpen means the file or stream could not be opened.
	ErrOpen = engine.ErrOpen
	// ErrParse means the PDF library rejected the document.
	ErrParse = engine.ErrParse
	// ErrInternal means the worker routine failed unexpectedly.
	ErrInternal = worker.ErrInternal
)

// IsCancelled reports whether err is the result of a deliberate
// cancellation rather than a failure.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
