package jsonw

// Options controls output layout and validation. Options are immutable for the
// writer's lifetime; they are copied at construction.
type Options struct {
	// Indented switches from compact output to human-formatted output with a
	// line break before each element and spaces proportional to nesting.
	Indented bool

	// IndentWidth is the number of ASCII spaces per nesting level when
	// Indented is set. Zero selects the default of two.
	IndentWidth int

	// CRLF selects "\r\n" as the line terminator when Indented is set.
	// The default is "\n".
	CRLF bool

	// SkipValidation bypasses the structural grammar checks, allowing trusted
	// high-throughput producers to emit tokens without per-call validation.
	// Malformed call sequences then produce invalid JSON with no diagnostic.
	// The depth ceiling stays enforced regardless, since it bounds the
	// container stack's growth.
	SkipValidation bool

	// RelaxedEscaping keeps non-ASCII runes verbatim in string output. The
	// default escapes every non-ASCII code point to \uXXXX (surrogate pairs
	// become two escapes), yielding pure-ASCII documents.
	RelaxedEscaping bool

	// BufferSize is the initial size of the owned buffer for stream-backed
	// writers. Zero selects the default. Writers over an Allocator ignore it.
	BufferSize int
}

// DefaultIndentWidth is the indentation applied per nesting level when
// Options.IndentWidth is zero.
const DefaultIndentWidth = 2

func (o Options) indentWidth() int {
	if o.IndentWidth <= 0 {
		return DefaultIndentWidth
	}
	return o.IndentWidth
}

func (o Options) newline() string {
	if o.CRLF {
		return "\r\n"
	}
	return "\n"
}
