package client

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnavailable        = errors.New("server unavailable")
	ErrMalformedResponse  = errors.New("malformed server response")
	ErrServerRejected     = errors.New("request rejected by server")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUnknown            = errors.New("unexpected server error")
)

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidCredentials
	KindUnavailable
	KindMalformedResponse
	KindServerRejected
	KindUnauthorized
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidCredentials:
		return ErrInvalidCredentials
	case KindUnavailable:
		return ErrUnavailable
	case KindMalformedResponse:
		return ErrMalformedResponse
	case KindServerRejected:
		return ErrServerRejected
	case KindUnauthorized:
		return ErrUnauthorized
	}
	return ErrUnknown
}

// Error describes a failed backend call. Message is the server's own
// explanation when it sent one.
type Error struct {
	Op      string
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind.sentinel(), e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind.sentinel())
}

// Unwrap exposes both the kind's sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// transportError classifies an error returned by http.Client.Do. Anything
// short of a response (DNS, refused connection, timeout, TLS) means the
// backend could not be reached; a cancelled context is the caller's own
// doing.
func transportError(op string, err error) *Error {
	if errors.Is(err, context.Canceled) {
		return &Error{Op: op, Kind: KindUnknown, Err: err}
	}
	return &Error{Op: op, Kind: KindUnavailable, Err: err}
}

// MessageOf returns the server-provided message carried by err, if any.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
