package jsonw_test

import (
	"context"
	"testing"

	jsonw "github.com/reoring/jsonw"
)

// pageAllocator hands out fixed-minimum pages and keeps the advanced byte
// counts, the way a segment-pooling caller would.
type pageAllocator struct {
	page  int
	pages [][]byte
	used  []int
}

func (a *pageAllocator) Next(min int) ([]byte, error) {
	size := a.page
	if min > size {
		size = min
	}
	p := make([]byte, size)
	a.pages = append(a.pages, p)
	a.used = append(a.used, 0)
	return p, nil
}

func (a *pageAllocator) Advance(n int) {
	a.used[len(a.used)-1] = n
}

func (a *pageAllocator) bytes() []byte {
	var out []byte
	for i, p := range a.pages {
		out = append(out, p[:a.used[i]]...)
	}
	return out
}

func TestAllocatorWriter_CompactObject(t *testing.T) {
	alloc := &pageAllocator{page: 8}
	w := jsonw.NewAllocatorWriter(alloc, jsonw.Options{})

	mustWrite(t, w.BeginObject())
	mustWrite(t, w.WriteKey("a"))
	mustWrite(t, w.WriteInt(1))
	mustWrite(t, w.WriteKey("b"))
	mustWrite(t, w.WriteString("x"))
	mustWrite(t, w.EndObject())
	mustWrite(t, w.Finish(context.Background()))

	want := `{"a":1,"b":"x"}`
	if got := string(alloc.bytes()); got != want {
		t.Fatalf("unexpected output: %s", got)
	}
	if w.BytesCommitted() != int64(len(want)) {
		t.Fatalf("committed %d, want %d", w.BytesCommitted(), len(want))
	}
	if len(alloc.pages) < 2 {
		t.Fatalf("expected the document to span multiple windows, got %d", len(alloc.pages))
	}
}

func TestAllocatorWriter_LargeTokenGetsLargeWindow(t *testing.T) {
	alloc := &pageAllocator{page: 4}
	w := jsonw.NewAllocatorWriter(alloc, jsonw.Options{})

	long := make([]byte, 100)
	for i := range long {
		long[i] = 'z'
	}
	mustWrite(t, w.WriteString(string(long)))
	mustWrite(t, w.Finish(context.Background()))

	if got := string(alloc.bytes()); got != `"`+string(long)+`"` {
		t.Fatalf("unexpected output (%d bytes)", len(got))
	}
}

func TestAllocatorWriter_FinishValidatesCompleteness(t *testing.T) {
	alloc := &pageAllocator{page: 16}
	w := jsonw.NewAllocatorWriter(alloc, jsonw.Options{})

	mustWrite(t, w.BeginArray())
	wantCode(t, w.Finish(context.Background()), jsonw.CodeIncompleteDocument)
	mustWrite(t, w.EndArray())
	mustWrite(t, w.Finish(context.Background()))
	if got := string(alloc.bytes()); got != "[]" {
		t.Fatalf("unexpected output: %s", got)
	}
}
