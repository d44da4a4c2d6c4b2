package repositories

import "errors"

// Sentinel errors returned by all repository implementations so that
// callers can branch with errors.Is instead of matching messages.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrTaskNotFound = errors.New("task not found")
)
