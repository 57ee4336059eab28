// Package asyncpdf extracts text and metadata from PDF documents on
// background workers, with best-effort cooperative cancellation and
// automatic left-to-right / right-to-left classification of the
// extracted text.
//
// Basic usage:
//
//	op := asyncpdf.ExtractText("document.pdf")
//	result, err := op.Wait(ctx)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(result.Direction, result.PageCount)
//
// Every operation runs off the calling goroutine and resolves exactly
// once. An operation in flight can be cancelled through its handle:
//
//	op := asyncpdf.ExtractText("huge.pdf")
//	asyncpdf.Cancel(op.Handle())
//
// Cancellation is cooperative: the flag is checked before and after the
// underlying parse, never during it, so a cancel issued mid-parse takes
// effect only when the parse returns.
//
// The package-level functions share one process-scoped Extractor. For a
// private engine (for example, with a logger attached) construct one
// with New and call the same methods on it.
package asyncpdf

import (
	"sync"

	"github.com/tsawler/asyncpdf/engine"
	"github.com/tsawler/asyncpdf/worker"
	"go.uber.org/zap"
)

// Extractor owns an extraction engine and the registry of operations in
// flight. It is safe for concurrent use; operations share no mutable
// state with one another.
type Extractor struct {
	engine   *engine.Engine
	registry *worker.Registry
	logger   *zap.Logger
}

// Option configures an Extractor.
type Option func(*extractorConfig)

type extractorConfig struct {
	logger *zap.Logger
}

// WithLogger supplies a logger for worker lifecycle and operation
// events. Without one the extractor is silent.
func WithLogger(logger *zap.Logger) Option {
	return func(c *extractorConfig) { c.logger = logger }
}

// New creates an Extractor. Construction is the process-scoped
// initialization point for the PDF library binding; construct once and
// share it.
func New(opts ...Option) *Extractor {
	cfg := extractorConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Extractor{
		engine:   engine.New(engine.WithLogger(cfg.logger)),
		registry: worker.NewRegistry(),
		logger:   cfg.logger,
	}
}

// ExtractText starts text extraction from the PDF at path and returns
// immediately. Open and parse failures resolve the returned operation's
// future; they are never reported synchronously.
func (x *Extractor) ExtractText(path string, opts ...TextOption) *TextOperation {
	o := defaultTextOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return startOperation(x, "text-extraction", func(flag *worker.Flag) (TextResult, error) {
		result, err := x.engine.ExtractTextFile(path, o.direction, flag)
		return finishText(result, err)
	})
}

// ExtractTextBuffer starts text extraction from an in-memory PDF. The
// buffer is copied before the call returns; the caller may immediately
// reuse it.
func (x *Extractor) ExtractTextBuffer(data []byte, opts ...TextOption) *TextOperation {
	o := defaultTextOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return startOperation(x, "text-extraction-buffer", func(flag *worker.Flag) (TextResult, error) {
		result, err := x.engine.ExtractTextBuffer(data, o.direction, flag)
		return finishText(result, err)
	})
}

// ExtractMetadata starts metadata extraction from the PDF at path.
func (x *Extractor) ExtractMetadata(path string) *MetadataOperation {
	return startOperation(x, "metadata-extraction", func(flag *worker.Flag) (MetadataResult, error) {
		result, err := x.engine.ExtractMetadataFile(path, flag)
		return finishMetadata(result, err)
	})
}

// ExtractMetadataBuffer starts metadata extraction from an in-memory
// PDF. The buffer is copied before the call returns.
func (x *Extractor) ExtractMetadataBuffer(data []byte) *MetadataOperation {
	return startOperation(x, "metadata-extraction-buffer", func(flag *worker.Flag) (MetadataResult, error) {
		result, err := x.engine.ExtractMetadataBuffer(data, flag)
		return finishMetadata(result, err)
	})
}

// Cancel requests cancellation of the operation behind handle. It is
// idempotent and a no-op for unknown or already-resolved handles.
func (x *Extractor) Cancel(handle string) {
	x.registry.Cancel(handle)
}

// startOperation wires one extraction into the worker framework: create
// the worker, register it for cancel-by-handle dispatch, then queue it.
// Registration happens before queueing so the resolve callback can never
// observe an unregistered handle.
func startOperation[T any](x *Extractor, name string, fn func(*worker.Flag) (T, error)) *Operation[T] {
	var handle string

	w := worker.New(fn,
		worker.WithName(name),
		worker.WithLogger(x.logger),
		worker.WithOnResolve(func() { x.registry.Remove(handle) }),
	)
	handle = x.registry.Add(w)
	w.Queue()

	return &Operation[T]{handle: handle, worker: w}
}

// finishText converts an engine text result into the operation's final
// resolution: an observed cancellation becomes ErrCancelled.
func finishText(result TextResult, err error) (TextResult, error) {
	if err != nil {
		return TextResult{}, err
	}
	if result.Cancelled {
		return TextResult{}, ErrCancelled
	}
	return result, nil
}

// finishMetadata is finishText's metadata counterpart.
func finishMetadata(result MetadataResult, err error) (MetadataResult, error) {
	if err != nil {
		return MetadataResult{}, err
	}
	if result.Cancelled {
		return MetadataResult{}, ErrCancelled
	}
	return result, nil
}

// defaultExtractor is the process-wide Extractor behind the
// package-level functions, created on first use.
var defaultExtractor = sync.OnceValue(func() *Extractor {
	return New()
})

// ExtractText starts text extraction on the default Extractor.
func ExtractText(path string, opts ...TextOption) *TextOperation {
	return defaultExtractor().ExtractText(path, opts...)
}

// ExtractTextBuffer starts buffer text extraction on the default Extractor.
func ExtractTextBuffer(data []byte, opts ...TextOption) *TextOperation {
	return defaultExtractor().ExtractTextBuffer(data, opts...)
}

// ExtractMetadata starts metadata extraction on the default Extractor.
func ExtractMetadata(path string) *MetadataOperation {
	return defaultExtractor().ExtractMetadata(path)
}

// ExtractMetadataBuffer starts buffer metadata extraction on the default
// Extractor.
func ExtractMetadataBuffer(data []byte) *MetadataOperation {
	return defaultExtractor().ExtractMetadataBuffer(data)
}

// Cancel requests cancellation of an operation started on the default
// Extractor.
func Cancel(handle string) {
	defaultExtractor().Cancel(handle)
}
