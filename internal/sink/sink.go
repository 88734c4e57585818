// Package sink owns the destination buffer for a writer instance and the
// policy for enlarging it or committing it. Two disciplines exist: a growable
// buffer flushed to a blocking io.Writer (Stream), and caller-managed memory
// windows obtained through an Allocator (External). Exactly one is bound per
// writer, at construction.
package sink

import "context"

// Sink is the uniform contract the writer engine programs against. Raw writes
// never fail and never grow; the engine calls Ensure with the full byte count
// of a token before writing it, so a token is either buffered whole or not at
// all.
type Sink interface {
	// Ensure guarantees at least min free bytes in the current window,
	// growing the buffer or committing buffered bytes as needed. Any commit
	// it performs is synchronous.
	Ensure(min int) error
	// Free returns the writable bytes remaining in the current window.
	Free() int

	RawByte(c byte)
	RawBytes(p []byte)
	RawString(s string)

	// Buffered returns the bytes written but not yet committed.
	Buffered() int
	// Committed returns the cumulative bytes handed irrevocably to the
	// destination. Monotonically non-decreasing; never rolled back.
	Committed() int64

	// Flush commits buffered bytes to the destination in order. Stream sinks
	// honor ctx cancellation before issuing the underlying write; external
	// sinks are synchronous by construction and ignore ctx.
	Flush(ctx context.Context) error

	// Reset returns the sink to a fresh-document baseline without releasing
	// backing storage. Previously buffered memory is zeroed so partial writes
	// cannot leak to an owner inspecting the raw storage.
	Reset()
}

// buffer is the window bookkeeping shared by both sink kinds: a byte window,
// a fill offset, and the committed counter.
type buffer struct {
	buf       []byte
	off       int
	committed int64
}

func (b *buffer) Free() int        { return len(b.buf) - b.off }
func (b *buffer) Buffered() int    { return b.off }
func (b *buffer) Committed() int64 { return b.committed }

func (b *buffer) RawByte(c byte) {
	b.buf[b.off] = c
	b.off++
}

func (b *buffer) RawBytes(p []byte) {
	b.off += copy(b.buf[b.off:], p)
}

func (b *buffer) RawString(s string) {
	b.off += copy(b.buf[b.off:], s)
}

// zeroBuffered wipes the used portion of the current window.
func (b *buffer) zeroBuffered() {
	for i := 0; i < b.off && i < len(b.buf); i++ {
		b.buf[i] = 0
	}
}
