// Package apperr defines the HTTP-facing error type used by services and
// controllers.
//
// Services return *apperr.Error for every anticipated failure; controllers
// hand it straight to response.AppError, which maps Status onto the wire.
// Any other error surfaces as a 500 with its message forwarded to the
// caller — messages are not sanitised.
package apperr

import "net/http"

// Error carries an HTTP status alongside the message shown to the client.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// New builds an error with an arbitrary status.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// BadRequest — malformed or missing input (400).
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Unauthorized — missing or invalid credentials or token (401).
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// Forbidden — authenticated but lacking the required role (403).
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

// NotFound — no matching record (404).
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Conflict — uniqueness violation (409).
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// Internal — unexpected failure, including email delivery (500).
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}
