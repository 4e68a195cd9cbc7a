// Package apperr defines the error taxonomy shared by the workflow services.
// Controllers translate kinds to HTTP statuses; services never return bare
// fiber errors.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindAuthorization
	KindInvalidTransition
	KindConflict
	KindMismatch
	KindExternalService
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error          { return New(KindNotFound, message) }
func Authorization(message string) *Error     { return New(KindAuthorization, message) }
func InvalidTransition(message string) *Error { return New(KindInvalidTransition, message) }
func Conflict(message string) *Error          { return New(KindConflict, message) }
func Mismatch(message string) *Error          { return New(KindMismatch, message) }
func ExternalService(message string, err error) *Error {
	return Wrap(KindExternalService, message, err)
}

// KindOf returns the taxonomy kind of err, or KindUnknown for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// HTTPStatus maps an error to the status controllers should respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindAuthorization:
		return fiber.StatusForbidden
	case KindInvalidTransition:
		return fiber.StatusUnprocessableEntity
	case KindConflict:
		return fiber.StatusConflict
	case KindMismatch:
		return fiber.StatusBadRequest
	case KindExternalService:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
