package services

import "errors"

// Business errors mapped to HTTP statuses at the handler boundary.
var (
	// ErrUsernameTaken is returned when registering a username that
	// already exists.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrInvalidCredentials is returned on login for both an unknown
	// username and a wrong password, so the two cases cannot be told
	// apart by a caller.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken is returned for malformed, tampered or expired
	// tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// ValidationError reports malformed or out-of-range input. Its message
// is safe to return to clients verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
