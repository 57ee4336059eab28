package bytestream

import (
	"fmt"
	"io"
	"os"
)

// FileStream is a Stream backed by a file on disk. Each FileStream owns
// its own *os.File, opened once per operation, so concurrent operations
// over the same path never share a file position.
type FileStream struct {
	file *os.File
	size int64
	pos  int64
}

// OpenFile opens the file at path and returns a FileStream over it.
func OpenFile(path string) (*FileStream, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &FileStream{file: file, size: info.Size()}, nil
}

// Read reads up to len(p) bytes from the current position.
func (f *FileStream) Read(p []byte) (int, error) {
	if f.pos >= f.size {
		return 0, io.EOF
	}
	n, err := f.file.ReadAt(p, f.pos)
	f.pos += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

// ReadAt reads len(p) bytes starting at off without moving the position.
func (f *FileStream) ReadAt(p []byte, off int64) (int, error) {
	return f.file.ReadAt(p, off)
}

// Seek implements io.Seeker with clamping position semantics.
func (f *FileStream) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		f.pos = clamp(offset, f.size)
	case io.SeekCurrent:
		f.pos = clamp(f.pos+offset, f.size)
	case io.SeekEnd:
		f.pos = clamp(f.size+offset, f.size)
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	return f.pos, nil
}

// NotEnded reports whether bytes remain past the current position.
func (f *FileStream) NotEnded() bool {
	return f.pos < f.size
}

// SeekFromStart positions the stream at offset, clamped to [0, Size()].
func (f *FileStream) SeekFromStart(offset int64) {
	f.pos = clamp(offset, f.size)
}

// SeekFromEnd positions the stream offset bytes back from the end.
// A negative or oversized offset clamps to the start.
func (f *FileStream) SeekFromEnd(offset int64) {
	if offset < 0 || offset > f.size {
		f.pos = 0
		return
	}
	f.pos = f.size - offset
}

// Skip advances the position by n bytes, clamped to Size().
func (f *FileStream) Skip(n int64) {
	f.pos = clamp(f.pos+n, f.size)
}

// Position returns the current offset from the beginning.
func (f *FileStream) Position() int64 {
	return f.pos
}

// Size returns the total number of bytes in the file.
func (f *FileStream) Size() int64 {
	return f.size
}

// Close closes the underlying file. It is safe to call more than once.
func (f *FileStream) Close() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}
