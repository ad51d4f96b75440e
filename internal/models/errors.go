package models

import (
	"errors"
	"fmt"
	"strings"
)

// LockoutMarker is the phrase the game service puts in its error text when it
// rejects logins for the whole client for a while.
const LockoutMarker = "LOGIN ATTEMPT LIMIT REACHED"

var (
	ErrLockout         = errors.New("login attempt limit reached")
	ErrRateLimited     = errors.New("rate limited")
	ErrPasswordInvalid = errors.New("password error")
)

// ServiceError is a request the game service answered but did not satisfy.
type ServiceError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func IsLockoutMessage(msg string) bool {
	return msg != "" && strings.Contains(strings.ToUpper(msg), LockoutMarker)
}

func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}
