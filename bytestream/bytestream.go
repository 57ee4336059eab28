// Package bytestream provides a positional byte-stream abstraction over
// the two physical PDF sources the engine accepts: files on disk and
// in-memory buffers. Both sources present the same capability (read the
// next chunk, seek from either end, skip, report the current offset), so
// everything above this package is indifferent to where the bytes live.
//
// All positioning operations clamp to the valid range [0, Size()] instead
// of returning an error. Seeking past the end lands exactly at the end;
// seeking before the start lands exactly at the start.
package bytestream

import "io"

// Stream is a positional byte stream over a PDF source.
//
// Implementations also satisfy io.ReaderAt so they can be handed directly
// to PDF parsers that want random access; ReadAt does not disturb the
// stream position. The standard Seek clamps like the named positioning
// methods instead of returning an out-of-range error.
type Stream interface {
	io.Reader
	io.ReaderAt
	io.Seeker
	io.Closer

	// NotEnded reports whether bytes remain past the current position.
	NotEnded() bool

	// SeekFromStart positions the stream at the given offset from the
	// beginning, clamped to [0, Size()].
	SeekFromStart(offset int64)

	// SeekFromEnd positions the stream at the given offset back from the
	// end. A negative or oversized offset clamps to the start.
	SeekFromEnd(offset int64)

	// Skip advances the position by n bytes, clamped to Size().
	Skip(n int64)

	// Position returns the current offset from the beginning.
	Position() int64

	// Size returns the total number of bytes in the stream.
	Size() int64
}

// clamp restricts offset to the range [0, size].
func clamp(offset, size int64) int64 {
	if offset < 0 {
		return 0
	}
	if offset > size {
		return size
	}
	return offset
}
