package sink

import (
	"context"
	"io"
)

const (
	// DefaultBufferSize is the initial owned-buffer size when the caller does
	// not choose one.
	DefaultBufferSize = 4096
	// maxRetainedSize caps doubling growth; once a token would push the
	// buffer past it, buffered bytes are committed first and the buffer is
	// resized only as far as that token requires.
	maxRetainedSize = 1 << 20
)

// Stream is the io.Writer-backed sink: it owns a resizable byte buffer and
// periodically flushes it to the underlying blocking writer.
type Stream struct {
	buffer
	w io.Writer
}

// NewStream returns a stream-backed sink with the given initial buffer size
// (zero selects DefaultBufferSize).
func NewStream(w io.Writer, initial int) *Stream {
	if initial <= 0 {
		initial = DefaultBufferSize
	}
	return &Stream{
		buffer: buffer{buf: make([]byte, initial)},
		w:      w,
	}
}

// Ensure grows by doubling while the result stays under the retained-size cap;
// past the cap it commits buffered bytes synchronously and then sizes the
// buffer for the requesting token alone.
func (s *Stream) Ensure(min int) error {
	if s.Free() >= min {
		return nil
	}
	want := s.off + min
	if want > maxRetainedSize && s.off > 0 {
		if err := s.Flush(context.Background()); err != nil {
			return err
		}
		want = min
	}
	if len(s.buf) < want {
		size := len(s.buf) * 2
		if size == 0 {
			size = DefaultBufferSize
		}
		for size < want {
			size *= 2
		}
		grown := make([]byte, size)
		copy(grown, s.buf[:s.off])
		s.buf = grown
	}
	return nil
}

// Flush writes buffered bytes to the underlying writer. Cancellation takes
// effect before the write is issued; once issued, the bytes are committed.
func (s *Stream) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.off == 0 {
		return nil
	}
	n, err := s.w.Write(s.buf[:s.off])
	s.committed += int64(n)
	if err != nil {
		return err
	}
	s.off = 0
	return nil
}

// Reset restores a fresh-document baseline, keeping the backing buffer.
func (s *Stream) Reset() {
	s.zeroBuffered()
	s.off = 0
	s.committed = 0
}
