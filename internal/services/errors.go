package services

import "errors"

// ErrorKind classifies a service failure. The transport layer maps kinds to
// HTTP status codes; the service never deals in status codes itself.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindConflict
	KindNotFound
	KindInternal
)

// Error carries a public-safe message and, for internal failures, the
// underlying cause for server-side logging only.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func validationErr(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func conflictErr(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func notFoundErr(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func internalErr(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "Unexpected server error", cause: cause}
}

// KindOf extracts the kind from err, defaulting to KindInternal for anything
// that did not originate in this package.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}
