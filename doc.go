package jsonw

// Package jsonw provides:
//
// - A forward-only streaming JSON writer (Begin/End containers, key and scalar writes)
// - Structural validation with a fixed nesting ceiling and an explicit opt-out
// - On-demand escaping (scan first, copy only when needed) with pooled scratch buffers
// - Two output disciplines: a growable buffer flushed to an io.Writer, or
//   caller-managed memory windows obtained through an Allocator
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place the CLI under cmd/jsonw.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	w := jsonw.NewWriter(out, jsonw.Options{})
//	_ = w.BeginObject()
//	_ = w.WriteKey("a")
//	_ = w.WriteInt(1)
//	_ = w.EndObject()
//	err := w.Finish(ctx)
//
// A writer instance is not safe for concurrent use; create one writer per
// goroutine and merge output externally.
