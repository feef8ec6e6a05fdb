package tools

import (
	"errors"
	"fmt"
)

// Kind classifies a tool failure for logs and trace spans. It never renders
// into protocol text; the user-facing message is always Error.Message.
type Kind string

const (
	// KindNotFound reports a missing target: an unregistered tool name or
	// an absent local file.
	KindNotFound Kind = "not_found"

	// KindValidation reports bad input caught before any outbound call.
	KindValidation Kind = "validation"

	// KindTransport reports an outbound interaction that could not complete:
	// connection failures, subprocess spawn failures, local I/O failures.
	KindTransport Kind = "transport"

	// KindRemote reports a completed call answered with failure: non-2xx
	// statuses, explicit failure flags, unmet remote preconditions.
	KindRemote Kind = "remote"

	// KindDecode reports a success response whose body could not be decoded.
	KindDecode Kind = "decode"
)

// Error is the failure type returned by every tool method. Message is the
// exact text shown to the caller; Err optionally carries the underlying
// cause for errors.Is/As inspection.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Errf builds an Error with a formatted message.
func Errf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrapf builds an Error carrying cause, with a formatted message. The cause
// is for unwrapping only; include it in the format args when the message
// should mention it.
func Wrapf(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf extracts the kind from err when it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return "", false
}
