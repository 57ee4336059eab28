package asyncpdf

import (
	"context"

	"github.com/tsawler/asyncpdf/engine"
	"github.com/tsawler/asyncpdf/worker"
)

// TextResult is the outcome of a text extraction operation.
type TextResult = engine.TextResult

// MetadataResult is the outcome of a metadata extraction operation.
type MetadataResult = engine.MetadataResult

// Operation is a caller-visible handle to one extraction in flight: a
// future for the result plus the handle cancellation dispatches on.
type Operation[T any] struct {
	handle string
	worker *worker.Worker[T]
}

// TextOperation is an in-flight text extraction.
type TextOperation = Operation[TextResult]

// MetadataOperation is an in-flight metadata extraction.
type MetadataOperation = Operation[MetadataResult]

// Handle returns the operation's opaque cancellation handle.
func (op *Operation[T]) Handle() string {
	return op.handle
}

// Cancel requests cooperative cancellation of this operation. It is
// idempotent and a no-op once the operation has resolved.
func (op *Operation[T]) Cancel() {
	op.worker.Cancel()
}

// Done returns a channel closed when the operation resolves.
func (op *Operation[T]) Done() <-chan struct{} {
	return op.worker.Done()
}

// Result blocks until the operation resolves and returns its outcome.
func (op *Operation[T]) Result() (T, error) {
	return op.worker.Result()
}

// Wait blocks until the operation resolves or ctx expires. On expiry it
// returns ctx's error immediately and requests cancellation of the
// background work as a decoupled side effect: the return is instant,
// the worker stops at its next checkpoint.
func (op *Operation[T]) Wait(ctx context.Context) (T, error) {
	return op.worker.Wait(ctx)
}
