package jsonw

import (
	"context"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/reoring/jsonw/internal/escape"
	"github.com/reoring/jsonw/internal/sink"
	"github.com/reoring/jsonw/internal/structural"
)

// MaxDepth is the fixed nesting ceiling. Exceeding it fails regardless of the
// SkipValidation option.
const MaxDepth = structural.MaxDepth

// MaxTextLength is the largest key or string value, in bytes, a writer
// accepts. It bounds the worst-case escaped form plus syntax overhead to a
// 32-bit length.
const MaxTextLength = (1<<31-1)/escape.MaxExpansion - 3

// Allocator hands out reusable memory windows for writers constructed with
// NewAllocatorWriter. The alias keeps the contract in one place.
type Allocator = sink.Allocator

// Writer converts a sequence of structural and scalar write calls into
// well-formed UTF-8 JSON text, emitted incrementally. It is forward-only:
// committed bytes are never revisited.
//
// Every write call either fully succeeds, or fails leaving depth, the last
// token, and buffered bytes exactly as they were.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	sink sink.Sink
	opt  Options
	val  structural.Validator

	last       TokenKind
	pendingSep bool // a comma must precede the next sibling at this depth

	newline string
	indentW int
}

// NewWriter returns a writer over a growable owned buffer that is flushed to
// out. Flushing blocks on the underlying write.
func NewWriter(out io.Writer, opt Options) *Writer {
	return newWriter(sink.NewStream(out, opt.BufferSize), opt)
}

// NewAllocatorWriter returns a writer over caller-managed memory windows.
// The allocator is told how many bytes of each window were used before the
// next window is requested; flushing never blocks.
func NewAllocatorWriter(a Allocator, opt Options) *Writer {
	return newWriter(sink.NewExternal(a), opt)
}

func newWriter(s sink.Sink, opt Options) *Writer {
	return &Writer{
		sink:    s,
		opt:     opt,
		newline: opt.newline(),
		indentW: opt.indentWidth(),
	}
}

// BeginObject opens a JSON object.
func (w *Writer) BeginObject() error { return w.begin(true) }

// BeginArray opens a JSON array.
func (w *Writer) BeginArray() error { return w.begin(false) }

// EndObject closes the innermost container, which must be an object.
func (w *Writer) EndObject() error { return w.end(true) }

// EndArray closes the innermost container, which must be an array.
func (w *Writer) EndArray() error { return w.end(false) }

// WriteKey writes a property name, escaping it as needed.
func (w *Writer) WriteKey(name string) error {
	return w.stringToken(name, true, true)
}

// WriteKeyUnescaped writes a property name without scanning it for characters
// that require escaping. The caller asserts the name is already properly
// escaped; misuse produces invalid output with no diagnostic, by design.
func (w *Writer) WriteKeyUnescaped(name string) error {
	return w.stringToken(name, false, true)
}

// WriteString writes a string value, escaping it as needed.
func (w *Writer) WriteString(v string) error {
	return w.stringToken(v, true, false)
}

// WriteStringUnescaped writes a string value without the escape scan. The
// caller asserts the text is already properly escaped; misuse produces
// invalid output with no diagnostic, by design.
func (w *Writer) WriteStringUnescaped(v string) error {
	return w.stringToken(v, false, false)
}

// WriteBool writes true or false.
func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.literal("true", TokenTrue)
	}
	return w.literal("false", TokenFalse)
}

// WriteNull writes null.
func (w *Writer) WriteNull() error { return w.literal("null", TokenNull) }

// WriteInt writes a signed integer value.
func (w *Writer) WriteInt(v int64) error {
	var tmp [21]byte
	return w.scalar(strconv.AppendInt(tmp[:0], v, 10), TokenNumber)
}

// WriteUint writes an unsigned integer value.
func (w *Writer) WriteUint(v uint64) error {
	var tmp [21]byte
	return w.scalar(strconv.AppendUint(tmp[:0], v, 10), TokenNumber)
}

// WriteFloat writes a floating-point value in its shortest round-trippable
// decimal form. NaN and infinities have no JSON representation and fail with
// CodeUnsupportedValue.
func (w *Writer) WriteFloat(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &WriteError{
			Code:    CodeUnsupportedValue,
			Message: "non-finite numbers cannot be represented in JSON",
			Token:   TokenNumber,
		}
	}
	var tmp [32]byte
	return w.scalar(strconv.AppendFloat(tmp[:0], v, 'g', -1, 64), TokenNumber)
}

// timeLayout is the fixed round-trippable calendar format: date, time, a
// 7-digit fraction, and zero-UTC-offset notation. Values are normalized to
// UTC before formatting.
const timeLayout = "2006-01-02T15:04:05.0000000Z"

// WriteTime writes t as a quoted timestamp in the fixed layout
// 2006-01-02T15:04:05.0000000Z, after normalizing to UTC.
func (w *Writer) WriteTime(t time.Time) error {
	var tmp [48]byte
	b := append(tmp[:0], '"')
	b = t.UTC().AppendFormat(b, timeLayout)
	b = append(b, '"')
	return w.scalar(b, TokenString)
}

// Flush commits buffered bytes to the sink without requiring the document to
// be complete. Structural state is untouched: flush is a commit operation,
// not a document reset. For stream-backed writers, ctx cancellation takes
// effect before the underlying write is issued; a cancellation racing an
// already-issued write cannot unwind bytes the sink has accepted.
func (w *Writer) Flush(ctx context.Context) error {
	return w.sink.Flush(ctx)
}

// Finish performs the final flush. Unless SkipValidation is set, it fails
// with CodeIncompleteDocument while containers remain open or when nothing
// has been written.
func (w *Writer) Finish(ctx context.Context) error {
	if !w.opt.SkipValidation {
		if w.val.Depth() != 0 || w.last == TokenNone || w.last == TokenKey {
			return &WriteError{
				Code:    CodeIncompleteDocument,
				Message: "document has open containers or no content",
				Token:   w.last,
			}
		}
	}
	return w.sink.Flush(ctx)
}

// Reset returns the writer to a fresh-document baseline: counters and
// container state are zeroed and previously buffered memory is wiped, but
// backing storage is kept so repeated documents amortize allocation.
func (w *Writer) Reset() {
	w.sink.Reset()
	w.val.Reset()
	w.last = TokenNone
	w.pendingSep = false
}

// BytesCommitted returns the cumulative bytes handed irrevocably to the sink.
func (w *Writer) BytesCommitted() int64 { return w.sink.Committed() }

// Buffered returns the bytes written but not yet committed.
func (w *Writer) Buffered() int { return w.sink.Buffered() }

// Depth returns the number of currently open containers.
func (w *Writer) Depth() int { return w.val.Depth() }

// LastToken returns the kind of the most recently written token.
func (w *Writer) LastToken() TokenKind { return w.last }

// ---- engine internals ----

func (w *Writer) begin(object bool) error {
	kind, open := TokenBeginArray, byte('[')
	if object {
		kind, open = TokenBeginObject, '{'
	}
	if err := w.val.CheckDepth(); err != nil {
		return &WriteError{Code: CodeDepthExceeded, Message: err.Error(), Token: kind}
	}
	if !w.opt.SkipValidation {
		if err := w.val.CheckValue(w.last == TokenKey, w.last != TokenNone); err != nil {
			return w.invalid(kind, "container start requires a property name here, or a single root value")
		}
	}
	if err := w.sink.Ensure(w.valuePrefixLen() + 1); err != nil {
		return err
	}
	w.writeValuePrefix()
	w.sink.RawByte(open)
	w.val.Push(object)
	w.pendingSep = false
	w.last = kind
	return nil
}

func (w *Writer) end(object bool) error {
	kind, closer := TokenEndArray, byte(']')
	if object {
		kind, closer = TokenEndObject, '}'
	}
	if !w.opt.SkipValidation {
		if err := w.val.CheckEnd(object, w.last == TokenKey); err != nil {
			return w.invalid(kind, "closing token does not match the innermost open container")
		}
	}
	if err := w.sink.Ensure(w.endPrefixLen() + 1); err != nil {
		return err
	}
	if w.opt.Indented && !w.last.isStart() && w.val.Depth() > 0 {
		w.writeNewlineIndent(w.val.Depth() - 1)
	}
	w.sink.RawByte(closer)
	w.val.Pop()
	w.pendingSep = true
	w.last = kind
	return nil
}

func (w *Writer) stringToken(text string, scan, isKey bool) error {
	kind := TokenString
	if isKey {
		kind = TokenKey
	}
	if len(text) > MaxTextLength {
		code := CodeValueTooLarge
		if isKey {
			code = CodeKeyTooLarge
		}
		return &WriteError{Code: code, Message: "text exceeds the maximum encodable length", Token: kind}
	}
	if !w.opt.SkipValidation {
		if isKey {
			if err := w.val.CheckKey(w.last == TokenKey); err != nil {
				return w.invalid(kind, "property names are only legal inside an object, after a value")
			}
		} else {
			if err := w.val.CheckValue(w.last == TokenKey, w.last != TokenNone); err != nil {
				return w.invalid(kind, "string value requires a property name here, or a single root value")
			}
		}
	}
	idx := -1
	if scan {
		idx = escape.Index(text, w.opt.RelaxedEscaping)
	}
	if idx < 0 {
		return w.emitQuoted(text, nil, isKey, kind)
	}
	// Escape into a small on-stack buffer when the worst case fits, otherwise
	// borrow pooled scratch. The scratch is returned on every exit path.
	var stackBuf [escape.StackThreshold]byte
	var pooled *[]byte
	buf := stackBuf[:0]
	if escape.MaxEscapedLen(len(text)) > len(stackBuf) {
		pooled = escape.GetScratch()
		buf = (*pooled)[:0]
	}
	esc := escape.Append(buf, text, idx, w.opt.RelaxedEscaping)
	err := w.emitQuoted("", esc, isKey, kind)
	if pooled != nil {
		*pooled = esc
		escape.PutScratch(pooled)
	}
	return err
}

// emitQuoted writes a quoted payload taken from exactly one of s or b, plus
// the key/value syntax around it.
func (w *Writer) emitQuoted(s string, b []byte, isKey bool, kind TokenKind) error {
	n := w.valuePrefixLen() + len(s) + len(b) + 2
	if isKey {
		n++ // colon
		if w.opt.Indented {
			n++ // space after colon
		}
	}
	if err := w.sink.Ensure(n); err != nil {
		return err
	}
	w.writeValuePrefix()
	w.sink.RawByte('"')
	if b != nil {
		w.sink.RawBytes(b)
	} else {
		w.sink.RawString(s)
	}
	w.sink.RawByte('"')
	if isKey {
		w.sink.RawByte(':')
		if w.opt.Indented {
			w.sink.RawByte(' ')
		}
		w.pendingSep = false
	} else {
		w.pendingSep = true
	}
	w.last = kind
	return nil
}

func (w *Writer) literal(lit string, kind TokenKind) error {
	if err := w.scalarPre(kind, len(lit)); err != nil {
		return err
	}
	w.writeValuePrefix()
	w.sink.RawString(lit)
	w.pendingSep = true
	w.last = kind
	return nil
}

func (w *Writer) scalar(payload []byte, kind TokenKind) error {
	if err := w.scalarPre(kind, len(payload)); err != nil {
		return err
	}
	w.writeValuePrefix()
	w.sink.RawBytes(payload)
	w.pendingSep = true
	w.last = kind
	return nil
}

func (w *Writer) scalarPre(kind TokenKind, size int) error {
	if !w.opt.SkipValidation {
		if err := w.val.CheckValue(w.last == TokenKey, w.last != TokenNone); err != nil {
			return w.invalid(kind, "value requires a property name here, or a single root value")
		}
	}
	return w.sink.Ensure(w.valuePrefixLen() + size)
}

func (w *Writer) invalid(tok TokenKind, msg string) error {
	return &WriteError{Code: CodeInvalidStructure, Message: msg, Token: tok}
}

// valuePrefixLen sizes the separator and indentation that precede a value or
// key token; writeValuePrefix emits exactly those bytes.
func (w *Writer) valuePrefixLen() int {
	n := 0
	if w.pendingSep {
		n++
	}
	if w.opt.Indented && w.last != TokenKey && w.last != TokenNone {
		n += len(w.newline) + w.val.Depth()*w.indentW
	}
	return n
}

func (w *Writer) writeValuePrefix() {
	if w.pendingSep {
		w.sink.RawByte(',')
	}
	if w.opt.Indented && w.last != TokenKey && w.last != TokenNone {
		w.writeNewlineIndent(w.val.Depth())
	}
}

func (w *Writer) endPrefixLen() int {
	if w.opt.Indented && !w.last.isStart() && w.val.Depth() > 0 {
		return len(w.newline) + (w.val.Depth()-1)*w.indentW
	}
	return 0
}

func (w *Writer) writeNewlineIndent(depth int) {
	w.sink.RawString(w.newline)
	for i := depth * w.indentW; i > 0; i-- {
		w.sink.RawByte(' ')
	}
}
