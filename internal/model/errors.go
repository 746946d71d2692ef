package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Registration errors
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrBadUsername       = errors.New("username must be longer than 3 characters")
	ErrBadPassword       = errors.New("password must be longer than 3 characters")

	// Authentication errors
	ErrBlockedUser   = errors.New("user is blocked")
	ErrWrongAuthData = errors.New("wrong username or password")

	// Authorization errors
	ErrUnauthorized = errors.New("operation not allowed in the current session")
	// ErrSessionActive is returned by register and login while someone is logged in
	ErrSessionActive = fmt.Errorf("%w: a session is already active", ErrUnauthorized)

	// Lookup errors
	ErrUserNotFound = errors.New("user not found")

	// Input errors
	ErrEmptyBet    = errors.New("bet must not be empty")
	ErrInvalidRole = errors.New("role must be admin or regular")
)

// ErrorKind groups errors into the categories callers render
type ErrorKind string

const (
	KindNone          ErrorKind = ""
	KindRegistration  ErrorKind = "registration"
	KindAuth          ErrorKind = "authentication"
	KindAuthorization ErrorKind = "authorization"
	KindLookup        ErrorKind = "lookup"
	KindInput         ErrorKind = "input"
	KindInternal      ErrorKind = "internal"
)

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUserAlreadyExists),
		errors.Is(err, ErrBadUsername),
		errors.Is(err, ErrBadPassword):
		return KindRegistration
	case errors.Is(err, ErrBlockedUser), errors.Is(err, ErrWrongAuthData):
		return KindAuth
	case errors.Is(err, ErrUnauthorized):
		return KindAuthorization
	case errors.Is(err, ErrUserNotFound):
		return KindLookup
	case errors.Is(err, ErrEmptyBet), errors.Is(err, ErrInvalidRole):
		return KindInput
	default:
		return KindInternal
	}
}
