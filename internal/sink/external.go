package sink

import "context"

// Allocator hands out reusable memory windows to write into. Implementations
// own the destination memory; the sink reports how many bytes of the current
// window were actually used via Advance before requesting the next one.
type Allocator interface {
	// Next returns a writable window of at least min bytes.
	Next(min int) ([]byte, error)
	// Advance marks the first n bytes of the most recently returned window as
	// used. After Advance the window must not be written again; call Next for
	// fresh memory.
	Advance(n int)
}

// External is the caller-managed sink: it borrows windows from an Allocator
// and commits by advancing. All operations are synchronous by construction,
// since the destination memory is the caller's.
type External struct {
	buffer
	alloc Allocator
}

// NewExternal returns a sink over caller-supplied memory windows.
func NewExternal(a Allocator) *External {
	return &External{alloc: a}
}

// Ensure commits the current window's used bytes and requests a fresh window
// large enough for min.
func (e *External) Ensure(min int) error {
	if e.Free() >= min {
		return nil
	}
	e.commit()
	win, err := e.alloc.Next(min)
	if err != nil {
		return err
	}
	e.buf = win
	return nil
}

// Flush advances the used byte count to the allocator. ctx is ignored; the
// external sink never blocks.
func (e *External) Flush(ctx context.Context) error {
	e.commit()
	return nil
}

func (e *External) commit() {
	if e.off == 0 {
		return
	}
	e.alloc.Advance(e.off)
	e.committed += int64(e.off)
	e.off = 0
	// The advanced window is spent; fresh memory comes from Next.
	e.buf = nil
}

// Reset restores a fresh-document baseline. The unadvanced portion of the
// current window is zeroed and the window is relinquished.
func (e *External) Reset() {
	e.zeroBuffered()
	e.off = 0
	e.committed = 0
	e.buf = nil
}
