package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotActive      = errors.New("user not active")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrRegNumberTaken     = errors.New("university registration number already in use")

	ErrSemesterNotFound  = errors.New("semester not found")
	ErrDuplicateSemester = errors.New("semester name or number already exists for this user")
	ErrSemesterForbidden = errors.New("semester does not belong to the current user")

	ErrModuleNotFound      = errors.New("module not found")
	ErrDuplicateModuleCode = errors.New("module code already exists for this user")
	ErrModuleForbidden     = errors.New("module not found for current user")

	ErrSessionNotFound = errors.New("study session not found")
)

// ValidationError reports a rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsConflict reports whether err is a uniqueness violation
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrRegNumberTaken) ||
		errors.Is(err, ErrDuplicateSemester) ||
		errors.Is(err, ErrDuplicateModuleCode)
}

// IsNotFound reports whether err means the requested resource does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrSemesterNotFound) ||
		errors.Is(err, ErrModuleNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsForbidden reports whether err means the resource belongs to another user
func IsForbidden(err error) bool {
	return errors.Is(err, ErrSemesterForbidden) || errors.Is(err, ErrModuleForbidden)
}

// IsUnauthorized reports whether err is an authentication failure
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUserNotActive) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrTokenRevoked)
}
