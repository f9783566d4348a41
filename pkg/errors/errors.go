package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrorType classifies an AppError
type ErrorType string

const (
	// Request errors
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"

	// Tree structure errors
	ErrorTypeInvalidEdge       ErrorType = "INVALID_EDGE"
	ErrorTypeNoUniqueRoot      ErrorType = "NO_UNIQUE_ROOT"
	ErrorTypeDisconnectedTree  ErrorType = "DISCONNECTED_TREE"
	ErrorTypeDuplicateRejected ErrorType = "DUPLICATE_REJECTED"
	ErrorTypeLimitExceeded     ErrorType = "LIMIT_EXCEEDED"

	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError is the error value returned by every layer of the service.
// Expected, recoverable outcomes of user edits are AppErrors, never panics.
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetail adds a single detail entry
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

func newAppError(t ErrorType, status int, message string) *AppError {
	return &AppError{
		Type:       t,
		Message:    message,
		HTTPStatus: status,
		StackTrace: captureStackTrace(),
	}
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message)
}

// NewNotFoundError creates a not found error for the named resource
func NewNotFoundError(resource string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message)
}

// NewInvalidEdgeError is returned when an edge would create a cycle, give a node
// a second parent or connect a node to itself.
func NewInvalidEdgeError(reason string) *AppError {
	return newAppError(ErrorTypeInvalidEdge, http.StatusUnprocessableEntity, "invalid edge: "+reason)
}

// NewNoUniqueRootError is returned by commit when the tree has zero or several roots
func NewNoUniqueRootError(roots int) *AppError {
	return newAppError(ErrorTypeNoUniqueRoot, http.StatusUnprocessableEntity,
		fmt.Sprintf("tree must have exactly one root, found %d", roots)).
		WithDetail("roots", roots)
}

// NewDisconnectedTreeError is returned by commit when nodes are unreachable from the root
func NewDisconnectedTreeError(unreachable int) *AppError {
	return newAppError(ErrorTypeDisconnectedTree, http.StatusUnprocessableEntity,
		fmt.Sprintf("%d node(s) are not reachable from the root", unreachable)).
		WithDetail("unreachable", unreachable)
}

// NewDuplicateRejectedError is returned by commit when the signature is already in history
func NewDuplicateRejectedError(signature string) *AppError {
	return newAppError(ErrorTypeDuplicateRejected, http.StatusConflict,
		"an identical tree has already been committed").
		WithDetail("signature", signature)
}

// NewLimitExceededError creates an error for exceeded engine limits
func NewLimitExceededError(what string, limit int) *AppError {
	return newAppError(ErrorTypeLimitExceeded, http.StatusUnprocessableEntity,
		fmt.Sprintf("maximum %s reached: %d", what, limit)).
		WithDetail("limit", limit)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

func IsNotFound(err error) bool          { return IsType(err, ErrorTypeNotFound) }
func IsValidation(err error) bool        { return IsType(err, ErrorTypeValidation) }
func IsInvalidEdge(err error) bool       { return IsType(err, ErrorTypeInvalidEdge) }
func IsNoUniqueRoot(err error) bool      { return IsType(err, ErrorTypeNoUniqueRoot) }
func IsDisconnectedTree(err error) bool  { return IsType(err, ErrorTypeDisconnectedTree) }
func IsDuplicateRejected(err error) bool { return IsType(err, ErrorTypeDuplicateRejected) }

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}
