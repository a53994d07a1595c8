package parser

import (
	"fmt"
)

// Kind classifies a fatal parse error. Kinds are usable as errors.Is targets.
type Kind int

const (
	ErrFile Kind = iota + 1
	ErrMalformedNote
	ErrNumericType
	ErrNumericValue
)

func (k Kind) Error() string {
	switch k {
	case ErrFile:
		return "unreadable chart"
	case ErrMalformedNote:
		return "malformed note line"
	case ErrNumericType:
		return "not a number"
	case ErrNumericValue:
		return "number out of range"
	}
	return "parse error"
}

// Error is returned for every fatal condition, with the offending line
type Error struct {
	Kind Kind
	Line int // 1 based, 0 when the file itself could not be read
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("line %d: %v", e.Line, e.Kind)
	}
	return fmt.Sprintf("line %d: %v: %v", e.Line, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}
