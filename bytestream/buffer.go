package bytestream

import (
	"fmt"
	"io"
)

// BufferStream is an in-memory Stream. It takes a private copy of the
// bytes at construction time, so the background routine that reads it can
// never observe the caller mutating or releasing the original buffer.
type BufferStream struct {
	data []byte
	pos  int64
}

// NewBuffer creates a BufferStream holding a private copy of data.
func NewBuffer(data []byte) *BufferStream {
	private := make([]byte, len(data))
	copy(private, data)
	return &BufferStream{data: private}
}

// Read reads up to len(p) bytes from the current position.
func (b *BufferStream) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

// ReadAt reads len(p) bytes starting at off without moving the position.
func (b *BufferStream) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, io.EOF
	}
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Seek implements io.Seeker with clamping position semantics.
func (b *BufferStream) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		b.pos = clamp(offset, b.Size())
	case io.SeekCurrent:
		b.pos = clamp(b.pos+offset, b.Size())
	case io.SeekEnd:
		b.pos = clamp(b.Size()+offset, b.Size())
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	return b.pos, nil
}

// NotEnded reports whether bytes remain past the current position.
func (b *BufferStream) NotEnded() bool {
	return b.pos < int64(len(b.data))
}

// SeekFromStart positions the stream at offset, clamped to [0, Size()].
func (b *BufferStream) SeekFromStart(offset int64) {
	b.pos = clamp(offset, b.Size())
}

// SeekFromEnd positions the stream offset bytes back from the end.
// A negative or oversized offset clamps to the start.
func (b *BufferStream) SeekFromEnd(offset int64) {
	if offset < 0 || offset > b.Size() {
		b.pos = 0
		return
	}
	b.pos = b.Size() - offset
}

// Skip advances the position by n bytes, clamped to Size().
func (b *BufferStream) Skip(n int64) {
	b.pos = clamp(b.pos+n, b.Size())
}

// Position returns the current offset from the beginning.
func (b *BufferStream) Position() int64 {
	return b.pos
}

// Size returns the total number of bytes held by the stream.
func (b *BufferStream) Size() int64 {
	return int64(len(b.data))
}

// Close releases the private copy. It is safe to call more than once.
func (b *BufferStream) Close() error {
	b.data = nil
	b.pos = 0
	return nil
}
