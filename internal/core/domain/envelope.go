package domain

import (
	"errors"
	"net/http"
)

// APIResponse is the success envelope every emulated request resolves to.
type APIResponse[T any] struct {
	Status  int    `json:"status"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorKind tags an APIError so callers can match failures exhaustively.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindAuthentication ErrorKind = "authentication"
	KindConflict       ErrorKind = "conflict"
	KindNotFound       ErrorKind = "not_found"
	KindCorruptState   ErrorKind = "corrupt_state"
	KindUnavailable    ErrorKind = "unavailable"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateProject   = errors.New("project name already exists")
	ErrProjectNotFound    = errors.New("project not found")
	ErrCorruptSession     = errors.New("corrupt session state")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

var kindSentinels = map[ErrorKind]error{
	KindValidation:     ErrValidation,
	KindAuthentication: ErrInvalidCredentials,
	KindConflict:       ErrDuplicateProject,
	KindNotFound:       ErrProjectNotFound,
	KindCorruptState:   ErrCorruptSession,
	KindUnavailable:    ErrStorageUnavailable,
}

// APIError is the failure envelope. Status, Err and Message mirror the
// {status, error, message} fields of the success envelope.
type APIError struct {
	Kind    ErrorKind `json:"-"`
	Status  int       `json:"status"`
	Err     string    `json:"error,omitempty"`
	Message string    `json:"message,omitempty"`

	cause error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return e.Err
	}
	return e.Err + ": " + e.Message
}

// Is matches the sentinel associated with the error's kind.
func (e *APIError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// AsAPIError extracts an *APIError from err, wrapping anything unknown as an
// unavailable error.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewUnavailableError(err)
}

func NewValidationError(message string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Status:  http.StatusBadRequest,
		Err:     ErrValidation.Error(),
		Message: message,
	}
}

// NewAuthenticationError never says which of email or password was wrong.
func NewAuthenticationError() *APIError {
	return &APIError{
		Kind:    KindAuthentication,
		Status:  http.StatusUnauthorized,
		Err:     "Invalid credentials",
		Message: "Email or password is incorrect",
	}
}

func NewConflictError() *APIError {
	return &APIError{
		Kind:    KindConflict,
		Status:  http.StatusBadRequest,
		Err:     "Project name already exists",
		Message: "A project with this name already exists. Please choose a different name.",
	}
}

func NewNotFoundError(message string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Err:     ErrProjectNotFound.Error(),
		Message: message,
	}
}

func NewCorruptStateError(cause error) *APIError {
	return &APIError{
		Kind:    KindCorruptState,
		Status:  http.StatusUnauthorized,
		Err:     ErrCorruptSession.Error(),
		Message: "Session was reset",
		cause:   cause,
	}
}

func NewUnavailableError(cause error) *APIError {
	return &APIError{
		Kind:    KindUnavailable,
		Status:  http.StatusServiceUnavailable,
		Err:     ErrStorageUnavailable.Error(),
		Message: "An error occurred",
		cause:   cause,
	}
}
