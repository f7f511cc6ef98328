package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// ErrorKind classifies application failures.
type ErrorKind string

const (
	KindUnauthenticated ErrorKind = "UNAUTHENTICATED"
	KindForbidden       ErrorKind = "FORBIDDEN"
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindValidation      ErrorKind = "VALIDATION"
	KindInternal        ErrorKind = "INTERNAL"
)

// statusByKind is the single error-kind-to-HTTP-status mapping applied at the
// handler boundary.
var statusByKind = map[ErrorKind]int{
	KindUnauthenticated: http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindValidation:      http.StatusBadRequest,
	KindInternal:        http.StatusInternalServerError,
}

// DomainError standardizes application errors.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// HTTPStatus resolves the response code for the error's kind.
func (e *DomainError) HTTPStatus() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func NewUnauthenticated(message string) error {
	return &DomainError{Kind: KindUnauthenticated, Message: message}
}

func NewForbidden(message string) error {
	return &DomainError{Kind: KindForbidden, Message: message}
}

func NewNotFound(resource string) error {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewValidation(message string) error {
	return &DomainError{Kind: KindValidation, Message: message}
}

func NewInternal(err error) error {
	return &DomainError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// ToDomainError converts generic errors to DomainError. Row-miss errors from
// the store become NotFound; everything unclassified is Internal.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &DomainError{Kind: KindNotFound, Message: "resource not found", Err: err}
	}
	return &DomainError{Kind: KindInternal, Message: "internal server error", Err: err}
}
