package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an error into one of the failure categories the
// pipeline distinguishes. Handlers map kinds to HTTP statuses and the
// engines decide fallback behavior based on them.
type Kind string

const (
	KindUpstreamUnavailable Kind = "UPSTREAM_UNAVAILABLE" // embedding/model/vector store unreachable or timed out
	KindNotFound            Kind = "NOT_FOUND"            // unknown session/question/node
	KindDepthExceeded       Kind = "DEPTH_EXCEEDED"       // node creation beyond the configured max depth
	KindValidationError     Kind = "VALIDATION_ERROR"     // malformed input
	KindContractViolation   Kind = "CONTRACT_VIOLATION"   // upstream response missing an expected field
	KindInternal            Kind = "INTERNAL"
)

// Error is a structured error carrying kind, message and cause.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the kind to a response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindValidationError, KindDepthExceeded:
		return fiber.StatusUnprocessableEntity
	case KindUpstreamUnavailable, KindContractViolation:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func UpstreamUnavailable(message string, cause error) *Error {
	return Wrap(KindUpstreamUnavailable, message, cause)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func DepthExceeded(message string) *Error {
	return New(KindDepthExceeded, message)
}

func Validation(message string) *Error {
	return New(KindValidationError, message)
}

func ContractViolation(message string) *Error {
	return New(KindContractViolation, message)
}

// KindOf extracts the kind from an error chain, KindInternal when the
// error is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
