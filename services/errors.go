package services

import (
	"errors"
	"fmt"
)

// Domain error kinds. Handlers map these onto HTTP statuses; everything else
// is treated as an internal error.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindPrecondition
	KindNotFound
	KindSecurity
	KindExternal
)

type DomainError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *DomainError) Unwrap() error { return e.Err }

func ValidationError(reason string) error {
	return &DomainError{Kind: KindValidation, Reason: reason}
}

func PreconditionError(reason string) error {
	return &DomainError{Kind: KindPrecondition, Reason: reason}
}

func NotFoundError(reason string) error {
	return &DomainError{Kind: KindNotFound, Reason: reason}
}

func SecurityError(reason string) error {
	return &DomainError{Kind: KindSecurity, Reason: reason}
}

// ExternalError wraps a gateway or notifier failure. Gateway callers surface
// it as retryable; email failures are logged and swallowed instead.
func ExternalError(reason string, err error) error {
	return &DomainError{Kind: KindExternal, Reason: reason, Err: err}
}

// KindOf reports the kind of err if it carries a DomainError anywhere in its chain.
func KindOf(err error) (ErrorKind, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
