package sink

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestStream_EnsureGrows(t *testing.T) {
	var out bytes.Buffer
	s := NewStream(&out, 4)

	if err := s.Ensure(3); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	s.RawString("abc")
	if err := s.Ensure(10); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	s.RawString("0123456789")
	if s.Buffered() != 13 {
		t.Fatalf("buffered %d", s.Buffered())
	}
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if out.String() != "abc0123456789" {
		t.Fatalf("unexpected output: %s", out.String())
	}
	if s.Committed() != 13 || s.Buffered() != 0 {
		t.Fatalf("accounting: committed=%d buffered=%d", s.Committed(), s.Buffered())
	}
}

func TestStream_FlushEmptyIsNoop(t *testing.T) {
	var out bytes.Buffer
	s := NewStream(&out, 0)
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if s.Committed() != 0 || out.Len() != 0 {
		t.Fatalf("empty flush committed bytes")
	}
}

func TestStream_FlushCanceled(t *testing.T) {
	var out bytes.Buffer
	s := NewStream(&out, 0)
	if err := s.Ensure(2); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	s.RawString("ok")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Flush(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if out.Len() != 0 || s.Buffered() != 2 {
		t.Fatalf("canceled flush touched the sink")
	}
}

type failWriter struct{ err error }

func (f failWriter) Write(p []byte) (int, error) { return 0, f.err }

func TestStream_FlushWriteError(t *testing.T) {
	wantErr := errors.New("broken pipe")
	s := NewStream(failWriter{err: wantErr}, 0)
	if err := s.Ensure(1); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	s.RawByte('x')
	if err := s.Flush(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
	// nothing was accepted, so the byte stays buffered
	if s.Committed() != 0 || s.Buffered() != 1 {
		t.Fatalf("accounting after failed flush: committed=%d buffered=%d", s.Committed(), s.Buffered())
	}
}

func TestStream_ResetKeepsStorageZeroesContent(t *testing.T) {
	var out bytes.Buffer
	s := NewStream(&out, 8)
	if err := s.Ensure(6); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	s.RawString("secret")
	s.Reset()
	if s.Buffered() != 0 || s.Committed() != 0 {
		t.Fatalf("reset accounting")
	}
	for i, c := range s.buf {
		if c != 0 {
			t.Fatalf("byte %d not zeroed: %q", i, c)
		}
	}
}
