/*
DESCRIPTION
  failure.go provides the error kinds reported by the conversion pipeline.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package failure provides a tagged error type so that callers can decide
// how to handle a failed conversion based on what went wrong.
package failure

import (
	"github.com/pkg/errors"
)

// Kind classifies a conversion error.
type Kind int

// Error kinds.
const (
	IO                Kind = iota // File system failure on read, write or seek.
	ToolNotFound                  // The external transcoder is not installed.
	TranscodeFailed               // The transcoder exited nonzero or could not decode the input.
	InvalidPCMFormat              // Normalised PCM is not mono, 16-bit, 8000 Hz.
	EncoderInitFailed             // The codec handle could not be acquired.
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case IO:
		return "IoError"
	case ToolNotFound:
		return "ToolNotFound"
	case TranscodeFailed:
		return "TranscodeFailed"
	case InvalidPCMFormat:
		return "InvalidPcmFormat"
	case EncoderInitFailed:
		return "EncoderInitFailed"
	default:
		return "Unknown"
	}
}

// Error is an error tagged with a Kind.
type Error struct {
	Kind Kind
	err  error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.err.Error() }

// Unwrap returns the wrapped error so errors.Is and errors.As see through an Error.
func (e *Error) Unwrap() error { return e.err }

// Cause returns the underlying cause for use with errors.Cause.
func (e *Error) Cause() error { return e.err }

// New returns a new Error of kind k with the given message.
func New(k Kind, msg string) error {
	return &Error{Kind: k, err: errors.New(msg)}
}

// Errorf returns a new Error of kind k formatted according to format.
func Errorf(k Kind, format string, args ...interface{}) error {
	return &Error{Kind: k, err: errors.Errorf(format, args...)}
}

// Wrap annotates err with msg and tags it with kind k. Wrap returns nil if
// err is nil.
func Wrap(k Kind, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, err: errors.Wrap(err, msg)}
}

// KindOf returns the kind of the first Error in err's chain. Errors that
// carry no kind are reported as IO.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return IO
}

// Is reports whether err has kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
