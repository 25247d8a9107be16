package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"acquisition_desk/pkg/errcodes"
)

// AppError is a domain error carrying a stable code for API clients.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode extracts the code of the outermost AppError in the chain.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

func HasCode(err error, code failure.ErrorCode) bool {
	c, ok := GetCode(err)
	return ok && c == code
}

// IsAllocationConflict reports whether a stock number was taken by a
// concurrent writer between read and commit.
func IsAllocationConflict(err error) bool {
	return HasCode(err, errcodes.AllocationConflict)
}
