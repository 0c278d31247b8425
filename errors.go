package typemap

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNotSupported indicates a go type or value that typemap can not handle.
	ErrNotSupported = errors.New("not supported")

	// ErrInvalidTarget indicates a nil or non-pointer target passed to MapInto.
	ErrInvalidTarget = errors.New("invalid target")

	// ErrDecode indicates a codec failed to decode its input.
	ErrDecode = errors.New("decode failed")

	// ErrCyclicInput indicates a go value that contains itself, see FromAny.
	ErrCyclicInput = errors.New("cyclic input")

	// ErrTooDeep indicates input nested deeper than MaxInputDepth.
	ErrTooDeep = errors.New("input nested too deep")
)

// MaxInputDepth limits the nesting of sequences and mappings accepted by FromAny
// and the codecs.
const MaxInputDepth = 10000

type NotSupportedError struct {
	Type reflect.Type
}

func (n NotSupportedError) Error() string {
	if n.Type == nil {
		return "nil type is not supported"
	}

	return fmt.Sprintf("type %q is not supported", n.Type)
}

func (n NotSupportedError) Unwrap() error {
	return ErrNotSupported
}

// DecodeError wraps the error of a [Codec]. It matches [ErrDecode] as well as
// the original cause.
type DecodeError struct {
	ContentType string
	Cause       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.ContentType, e.Cause)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Cause}
}
