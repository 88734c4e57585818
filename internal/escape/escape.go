// Package escape decides whether text needs JSON escaping and materializes the
// escaped form on demand. The scan and the copy are separate so that the
// common already-safe case does no work and no allocation.
package escape

import (
	"sync"
	"unicode/utf16"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// MaxExpansion is the worst-case growth factor of escaping: a lone code unit
// becoming a six-byte \uXXXX sequence. Callers size destination buffers with
// MaxEscapedLen, which applies this bound.
const MaxExpansion = 6

// StackThreshold is the escaped-length limit at or below which callers should
// prefer an on-stack buffer over a pooled one.
const StackThreshold = 256

// MaxEscapedLen returns the largest possible escaped length of n input bytes.
func MaxEscapedLen(n int) int { return n * MaxExpansion }

func needsEscapeASCII(c byte) bool {
	return c < 0x20 || c == '"' || c == '\\'
}

// Index returns the index of the first byte requiring escape, or -1 when the
// whole text may be copied verbatim. Control characters, quote, and backslash
// always require escape; non-ASCII bytes require escape unless relaxed, in
// which case only invalid UTF-8 does. Single pass, no allocation.
func Index(s string, relaxed bool) int {
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if needsEscapeASCII(c) {
				return i
			}
			i++
			continue
		}
		if !relaxed {
			return i
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// Append appends the escaped form of s to dst and returns the extended slice.
// s[:start] is copied verbatim; start is normally the value returned by Index.
// Invalid UTF-8 bytes are replaced with U+FFFD before encoding.
func Append(dst []byte, s string, start int, relaxed bool) []byte {
	dst = append(dst, s[:start]...)
	for i := start; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			i++
			if !needsEscapeASCII(c) {
				dst = append(dst, c)
				continue
			}
			switch c {
			case '"':
				dst = append(dst, '\\', '"')
			case '\\':
				dst = append(dst, '\\', '\\')
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			case '\b':
				dst = append(dst, '\\', 'b')
			case '\f':
				dst = append(dst, '\\', 'f')
			default:
				dst = appendHex(dst, rune(c))
			}
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if r == utf8.RuneError && size == 1 {
			dst = appendHex(dst, utf8.RuneError)
			continue
		}
		if relaxed {
			dst = append(dst, s[i-size:i]...)
			continue
		}
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			dst = appendHex(dst, hi)
			dst = appendHex(dst, lo)
			continue
		}
		dst = appendHex(dst, r)
	}
	return dst
}

func appendHex(dst []byte, r rune) []byte {
	return append(dst, '\\', 'u',
		hexDigits[r>>12&0xf],
		hexDigits[r>>8&0xf],
		hexDigits[r>>4&0xf],
		hexDigits[r&0xf])
}

// Scratch buffers for escaped text too large for an on-stack buffer. Borrowed
// buffers must be returned exactly once per checkout, on every exit path.
var scratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 1024)
		return &b
	},
}

// GetScratch borrows an empty scratch buffer from the process-wide pool.
func GetScratch() *[]byte { return scratchPool.Get().(*[]byte) }

// PutScratch returns a scratch buffer to the pool, keeping any growth it
// acquired while borrowed.
func PutScratch(p *[]byte) {
	*p = (*p)[:0]
	scratchPool.Put(p)
}
