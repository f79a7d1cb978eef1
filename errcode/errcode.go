// Package errcode defines the closed set of oracle failures and their on-wire codes.
package errcode

import (
	"errors"
	"fmt"
)

// Kind classifies an oracle failure. Its numeric value is the code sent back on chain.
type Kind uint8

const (
	// Unknown is any error outside the enumerated set.
	Unknown Kind = iota
	// BadFactorSid means the factor lookup did not yield a usable factor.
	BadFactorSid
	// FailedToFetchData means the verification service answered with an unexpected HTTP status.
	FailedToFetchData
	// FailedToDecode means a hex field or a response body could not be decoded.
	FailedToDecode
	// MalformedRequest means the request bytes do not match the expected ABI tuple.
	MalformedRequest
	// ErrorWhileParse means the challenge status was neither pending nor approved.
	ErrorWhileParse
)

func (k Kind) String() string {
	switch k {
	case BadFactorSid:
		return "BadFactorSid"
	case FailedToFetchData:
		return "FailedToFetchData"
	case FailedToDecode:
		return "FailedToDecode"
	case MalformedRequest:
		return "MalformedRequest"
	case ErrorWhileParse:
		return "ErrorWhileParse"
	default:
		return "Unknown"
	}
}

// Code returns the wire code for k.
func (k Kind) Code() uint64 {
	switch k {
	case BadFactorSid, FailedToFetchData, FailedToDecode, MalformedRequest, ErrorWhileParse:
		return uint64(k)
	default:
		return 0
	}
}

var (
	ErrBadFactorSid      = &Error{Kind: BadFactorSid}
	ErrFailedToFetchData = &Error{Kind: FailedToFetchData}
	ErrFailedToDecode    = &Error{Kind: FailedToDecode}
	ErrMalformedRequest  = &Error{Kind: MalformedRequest}
	ErrErrorWhileParse   = &Error{Kind: ErrorWhileParse}
)

// Error is a classified failure. Err carries optional context.
type Error struct {
	Kind Kind
	Err  error
}

// New wraps err with kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Errorf builds a classified error from a format string.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so the sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Code maps any error to its wire code. Nil and unclassified errors map to 0.
func Code(err error) uint64 {
	return KindOf(err).Code()
}
