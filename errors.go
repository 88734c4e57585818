package jsonw

import (
	"errors"
	"fmt"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidStructure   = "invalid_json_structure"
	CodeDepthExceeded      = "depth_exceeded"
	CodeKeyTooLarge        = "key_too_large"
	CodeValueTooLarge      = "value_too_large"
	CodeIncompleteDocument = "incomplete_document"
	CodeUnsupportedValue   = "unsupported_value"
)

// WriteError describes a failed write call. The writer guarantees that a call
// returning a WriteError has not mutated writer state and has not committed any
// bytes for the failed token.
type WriteError struct {
	Code    string    // One of the codes listed above.
	Message string
	Token   TokenKind // The token kind the failed call attempted to write.
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("jsonw: %s: %s", e.Code, e.Message)
}

// AsWriteError extracts a WriteError from an error using errors.As internally.
func AsWriteError(err error) (*WriteError, bool) {
	if err == nil {
		return nil, false
	}
	var we *WriteError
	if errors.As(err, &we) {
		return we, true
	}
	return nil, false
}

// CodeOf returns the error code carried by err, or "" when err is not a
// WriteError. Sink I/O errors pass through unwrapped and report "".
func CodeOf(err error) string {
	if we, ok := AsWriteError(err); ok {
		return we.Code
	}
	return ""
}
