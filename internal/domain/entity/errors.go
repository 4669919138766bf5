package entity

import (
	"errors"
	"fmt"
)

// Kind classifies a business failure so transports can map it to a status.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidFormat
	KindInvalidArgument
	KindDuplicateEmail
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidFormat:
		return "invalid format"
	case KindInvalidArgument:
		return "invalid argument"
	case KindDuplicateEmail:
		return "duplicate email"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Error is a business failure carrying its kind and a human readable message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is reports whether target is an *Error of the same kind. A target without a
// message acts as a sentinel for the whole kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is.
var (
	ErrInvalidFormat   = &Error{Kind: KindInvalidFormat}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrDuplicateEmail  = &Error{Kind: KindDuplicateEmail}
	ErrNotFound        = &Error{Kind: KindNotFound}
)

// NewError builds an error of the given kind with a formatted message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown
// for infrastructure failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
