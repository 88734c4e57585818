package jsonw

// TokenKind classifies the most recently written structural or scalar unit.
// The zero value TokenNone means nothing has been written yet.
type TokenKind int

const (
	TokenNone TokenKind = iota
	TokenBeginObject
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenKey
	TokenString
	TokenNumber
	TokenTrue
	TokenFalse
	TokenNull
)

var tokenKindNames = [...]string{
	TokenNone:        "none",
	TokenBeginObject: "begin_object",
	TokenEndObject:   "end_object",
	TokenBeginArray:  "begin_array",
	TokenEndArray:    "end_array",
	TokenKey:         "key",
	TokenString:      "string",
	TokenNumber:      "number",
	TokenTrue:        "true",
	TokenFalse:       "false",
	TokenNull:        "null",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "unknown"
	}
	return tokenKindNames[k]
}

// isStart reports whether k opens a container.
func (k TokenKind) isStart() bool {
	return k == TokenBeginObject || k == TokenBeginArray
}
