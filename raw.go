package jsonw

import (
	json "github.com/goccy/go-json"
)

// WriteRawValue splices raw, a complete pre-encoded JSON value, into the
// document as one token. The bytes are trusted verbatim: no escaping, no
// well-formedness check beyond structural placement. Feeding it invalid JSON
// produces invalid output with no diagnostic, by design.
func (w *Writer) WriteRawValue(raw []byte) error {
	if len(raw) == 0 {
		return &WriteError{
			Code:    CodeUnsupportedValue,
			Message: "raw value must not be empty",
			Token:   TokenNone,
		}
	}
	if len(raw) > MaxTextLength {
		return &WriteError{
			Code:    CodeValueTooLarge,
			Message: "raw value exceeds the maximum encodable length",
			Token:   TokenNone,
		}
	}
	return w.scalar(raw, rawTokenKind(raw[0]))
}

// WriteAny marshals v with goccy/go-json and splices the result as a single
// raw value.
func (w *Writer) WriteAny(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.WriteRawValue(b)
}

// rawTokenKind maps a raw value's leading byte to the token kind recorded as
// "last written". Containers map to their end tokens, since a raw container
// is spliced as an already-completed value.
func rawTokenKind(c byte) TokenKind {
	switch c {
	case '{':
		return TokenEndObject
	case '[':
		return TokenEndArray
	case '"':
		return TokenString
	case 't':
		return TokenTrue
	case 'f':
		return TokenFalse
	case 'n':
		return TokenNull
	default:
		return TokenNumber
	}
}
