// Package structural tracks open containers and enforces JSON grammar for the
// streaming writer. It knows nothing about bytes or sinks; the writer engine
// consults it before mutating any state.
package structural

import "errors"

// MaxDepth is the fixed nesting ceiling. It is enforced even when grammar
// validation is skipped, because it bounds the container stack's growth.
const MaxDepth = 1000

var (
	// ErrInvalidStructure reports a grammar violation: a value without a key
	// inside an object, a mismatched close, a dangling key, or a second
	// top-level value.
	ErrInvalidStructure = errors.New("invalid JSON structure")
	// ErrDepthExceeded reports nesting beyond MaxDepth.
	ErrDepthExceeded = errors.New("maximum nesting depth exceeded")
)

// Validator is a depth counter plus one bool per open container
// (true=object, false=array). The zero value is ready to use.
//
// When we open an object we push true, when we open an array we push false,
// and closing a container pops. Over-popping is tolerated so that writers
// running with validation disabled can keep going; Pop reports false and the
// depth stays clamped at zero.
type Validator struct {
	stack []bool
}

// Depth returns the number of currently open containers.
func (v *Validator) Depth() int { return len(v.stack) }

// InObject reports whether the innermost open container is an object.
// It returns false at the top level.
func (v *Validator) InObject() bool {
	if n := len(v.stack); n > 0 {
		return v.stack[n-1]
	}
	return false
}

// Push records a newly opened container.
func (v *Validator) Push(isObject bool) {
	v.stack = append(v.stack, isObject)
}

// Pop removes the innermost container and reports whether it was an object.
func (v *Validator) Pop() bool {
	n := len(v.stack)
	if n == 0 {
		return false
	}
	top := v.stack[n-1]
	v.stack = v.stack[:n-1]
	return top
}

// Reset drops all open containers without releasing the backing storage.
func (v *Validator) Reset() { v.stack = v.stack[:0] }

// CheckDepth fails once one more container would exceed MaxDepth.
func (v *Validator) CheckDepth() error {
	if len(v.stack) >= MaxDepth {
		return ErrDepthExceeded
	}
	return nil
}

// CheckValue validates that a scalar or container start may be written here.
// lastWasKey reports whether the previous token was a property name;
// rootWritten reports whether a complete top-level value already exists.
func (v *Validator) CheckValue(lastWasKey, rootWritten bool) error {
	if len(v.stack) == 0 {
		// Single-document invariant: one top-level value only.
		if rootWritten {
			return ErrInvalidStructure
		}
		return nil
	}
	if v.InObject() && !lastWasKey {
		return ErrInvalidStructure
	}
	return nil
}

// CheckKey validates that a property name may be written here.
func (v *Validator) CheckKey(lastWasKey bool) error {
	if len(v.stack) == 0 || !v.InObject() {
		return ErrInvalidStructure
	}
	if lastWasKey {
		return ErrInvalidStructure
	}
	return nil
}

// CheckEnd validates that the innermost container exists, matches the closing
// token's kind, and carries no dangling key.
func (v *Validator) CheckEnd(object, lastWasKey bool) error {
	if len(v.stack) == 0 {
		return ErrInvalidStructure
	}
	if lastWasKey {
		return ErrInvalidStructure
	}
	if v.InObject() != object {
		return ErrInvalidStructure
	}
	return nil
}
