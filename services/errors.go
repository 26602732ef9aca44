package services

import "github.com/gofiber/fiber/v2"

// Error kinds surfaced by the core services. Controllers map these onto HTTP
// statuses; callers never see storage or stack detail.
const (
	KindNotFound            = "NOT_FOUND"
	KindAlreadyEnrolled     = "ALREADY_ENROLLED"
	KindNotEnrolled         = "NOT_ENROLLED"
	KindForbidden           = "FORBIDDEN"
	KindInvalidTransition   = "INVALID_TRANSITION"
	KindUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	KindValidation          = "VALIDATION_ERROR"
	KindInternal            = "INTERNAL"
)

// Error is a structured service failure with a stable kind and message.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Retryable reports whether the caller may safely retry the same operation.
func (e *Error) Retryable() bool { return e.Kind == KindUpstreamUnavailable }

func NewError(kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// StatusCode maps a service error onto an HTTP status for the thin surface.
func StatusCode(err error) int {
	e, ok := err.(*Error)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch e.Kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindAlreadyEnrolled, KindInvalidTransition:
		return fiber.StatusConflict
	case KindNotEnrolled, KindForbidden:
		return fiber.StatusForbidden
	case KindValidation:
		return fiber.StatusBadRequest
	case KindUpstreamUnavailable:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
