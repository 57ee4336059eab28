// Package worker provides the cancellable background-task primitive the
// extraction operations are built on: run a unit of work off the calling
// goroutine, expose a future to the caller, and expose a cooperative
// cancellation flag to the work itself.
//
// Cancellation is cooperative. The work function decides where its
// checkpoints are; between checkpoints a cancel request has no effect.
// The flag is one-shot: once set it is never cleared.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ErrInternal marks an unexpected failure inside a work function (such
// as a panic). It is caught at the worker boundary and resolves the
// future; it never escapes to the scheduling goroutine.
var ErrInternal = errors.New("internal error")

// Flag is a one-shot cancellation flag shared between the caller-visible
// handle and the background routine. Once set it stays set.
type Flag struct {
	v atomic.Bool
}

// Set marks the flag as cancelled. Setting an already-set flag is a no-op.
func (f *Flag) Set() {
	f.v.Store(true)
}

// Cancelled reports whether the flag has been set.
func (f *Flag) Cancelled() bool {
	return f.v.Load()
}

// Cancellable is the capability a caller needs to request cancellation
// of an operation in flight. Every worker implements it; the dispatch
// layer cancels only through this interface.
type Cancellable interface {
	Cancel()
}

// State identifies where a worker is in its lifecycle.
type State int32

const (
	// StateCreated means the worker exists but has not been handed to
	// the execution substrate yet.
	StateCreated State = iota
	// StateQueued means the worker's goroutine has been scheduled but
	// the work function has not started yet.
	StateQueued
	// StateRunning means the work function is executing.
	StateRunning
	// StateResolved means the future has settled, with either a result
	// or an error. Terminal.
	StateResolved
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateQueued:
		return "queued"
	case StateRunning:
		return "running"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Worker runs a single unit of work on its own goroutine and resolves
// exactly once. It is both the caller-visible future and the Cancellable
// handle for the operation.
type Worker[T any] struct {
	flag      Flag
	state     atomic.Int32
	queueOnce sync.Once
	once      sync.Once
	done      chan struct{}
	fn        func(*Flag) (T, error)
	result    T
	err       error
	name      string
	logger    *zap.Logger
	onResolve func()
}

// StartOption configures Start.
type StartOption func(*startConfig)

type startConfig struct {
	name      string
	logger    *zap.Logger
	onResolve func()
}

// WithName attaches a name to the worker for logging.
func WithName(name string) StartOption {
	return func(c *startConfig) { c.name = name }
}

// WithLogger attaches a logger to the worker. Without one the worker is
// silent.
func WithLogger(logger *zap.Logger) StartOption {
	return func(c *startConfig) { c.logger = logger }
}

// WithOnResolve registers a callback invoked once, after the future has
// settled. The dispatch layer uses it to drop the worker from its
// cancellation registry.
func WithOnResolve(fn func()) StartOption {
	return func(c *startConfig) { c.onResolve = fn }
}

// New creates a worker for fn without scheduling it. fn receives the
// worker's cancellation flag and should poll it at its checkpoints.
// The caller attaches the worker wherever it needs to (a cancellation
// registry, a result map) and then calls Queue.
//
// Errors returned by fn resolve the future as-is. A panic inside fn is
// recovered and resolved as ErrInternal; it never crashes the program.
func New[T any](fn func(*Flag) (T, error), opts ...StartOption) *Worker[T] {
	cfg := startConfig{name: "worker", logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	w := &Worker[T]{
		done:      make(chan struct{}),
		fn:        fn,
		name:      cfg.name,
		logger:    cfg.logger,
		onResolve: cfg.onResolve,
	}
	w.state.Store(int32(StateCreated))
	return w
}

// Start creates a worker for fn and queues it immediately.
func Start[T any](fn func(*Flag) (T, error), opts ...StartOption) *Worker[T] {
	w := New(fn, opts...)
	w.Queue()
	return w
}

// Queue hands the worker to the execution substrate: its work function
// starts on a fresh goroutine. Queueing twice is a no-op.
func (w *Worker[T]) Queue() {
	w.queueOnce.Do(func() {
		w.state.Store(int32(StateQueued))
		go w.run(w.fn)
	})
}

func (w *Worker[T]) run(fn func(*Flag) (T, error)) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			w.resolve(zero, fmt.Errorf("%w: %s panicked: %v", ErrInternal, w.name, r))
		}
	}()

	w.state.Store(int32(StateRunning))
	w.logger.Debug("worker running", zap.String("name", w.name))

	result, err := fn(&w.flag)
	w.resolve(result, err)
}

// resolve settles the future exactly once. A second call (such as the
// recover path firing after the resolution callback panicked) is a no-op.
func (w *Worker[T]) resolve(result T, err error) {
	w.once.Do(func() {
		w.result = result
		w.err = err
		w.state.Store(int32(StateResolved))
		close(w.done)

		if err != nil {
			w.logger.Debug("worker resolved with error",
				zap.String("name", w.name), zap.Error(err))
		} else {
			w.logger.Debug("worker resolved", zap.String("name", w.name))
		}

		if w.onResolve != nil {
			w.onResolve()
		}
	})
}

// Cancel requests cooperative cancellation. It is idempotent, safe from
// any goroutine, and a no-op once the worker has resolved.
func (w *Worker[T]) Cancel() {
	if w.State() == StateResolved {
		return
	}
	w.flag.Set()
	w.logger.Debug("worker cancellation requested", zap.String("name", w.name))
}

// State returns the worker's current lifecycle state.
func (w *Worker[T]) State() State {
	return State(w.state.Load())
}

// Done returns a channel that is closed when the future settles.
func (w *Worker[T]) Done() <-chan struct{} {
	return w.done
}

// Result returns the settled result and error. It blocks until the
// future settles.
func (w *Worker[T]) Result() (T, error) {
	<-w.done
	return w.result, w.err
}

// Wait blocks until the future settles or ctx expires. On expiry it
// returns ctx's error immediately and requests cancellation as a side
// effect; the two are decoupled. The return is authoritative and
// instant, while the background routine stops at its next checkpoint.
func (w *Worker[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-w.done:
		return w.result, w.err
	case <-ctx.Done():
		w.Cancel()
		var zero T
		return zero, ctx.Err()
	}
}
