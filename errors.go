//////////////////////////////////////////////////////////////////////////////
//
// Errors returned when opening a source
//
// Copyright 2019 Lanikai Labs. All rights reserved.
//
//////////////////////////////////////////////////////////////////////////////

package ingest

import (
	"fmt"

	errors "golang.org/x/xerrors"
)

// Kind classifies the stage at which opening a source failed.
type Kind int

const (
	// The source string could not be parsed (bad scheme syntax, missing or
	// non-numeric port, invalid IPv4 literal).
	MalformedURI Kind = iota + 1

	// Socket, file or network setup failed.
	TransportError

	// A local file does not exist.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case MalformedURI:
		return "malformed uri"
	case TransportError:
		return "transport error"
	case NotFound:
		return "not found"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinels for use with errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrMalformedURI = errors.New("ingest: malformed uri")
	ErrTransport    = errors.New("ingest: transport error")
	ErrNotFound     = errors.New("ingest: not found")

	ErrNotSupported = errors.New("Not supported") // "can't do" items
)

// Error is the single error type returned by Open.
type Error struct {
	Kind Kind

	// Operation that failed, e.g. "bind" or "join".
	Op string

	// The source string passed to Open.
	URI string

	// Underlying cause, usually a unix.Errno or *url.Error.
	Err error
}

func (e *Error) Error() string {
	s := "ingest: " + e.Kind.String()
	if e.Op != "" {
		s += ": " + e.Op
	}
	if e.URI != "" {
		s += fmt.Sprintf(" %q", e.URI)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrMalformedURI:
		return e.Kind == MalformedURI
	case ErrTransport:
		return e.Kind == TransportError
	case ErrNotFound:
		return e.Kind == NotFound
	}
	return false
}

func malformed(uri, op string, err error) *Error {
	return &Error{MalformedURI, op, uri, err}
}

func transport(uri, op string, err error) *Error {
	return &Error{TransportError, op, uri, err}
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return "unexpected HTTP status: " + e.Status
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, else 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
