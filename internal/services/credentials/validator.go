// Package credentials holds the acceptance rules for usernames and passwords.
package credentials

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/mcoot/betgate/internal/model"
)

// MinLength is the shortest rejected length; accepted values are longer
const MinLength = 3

// ActiveUsers is the part of the user directory the validator reads
type ActiveUsers interface {
	LookupActive(ctx context.Context, userName string) (*model.User, error)
}

// Validator checks registration input. It never mutates the directory.
type Validator struct {
	users ActiveUsers
}

// NewValidator creates a Validator backed by users
func NewValidator(users ActiveUsers) *Validator {
	return &Validator{users: users}
}

// ValidateUsername returns candidate unchanged if it is free and long enough.
// Only active users count as taken; blocked names may be registered again.
func (v *Validator) ValidateUsername(ctx context.Context, candidate string) (string, error) {
	_, err := v.users.LookupActive(ctx, candidate)
	if err == nil {
		return "", model.ErrUserAlreadyExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return "", err
	}

	if utf8.RuneCountInString(candidate) <= MinLength {
		return "", model.ErrBadUsername
	}
	return candidate, nil
}

// ValidatePassword returns candidate unchanged if it is long enough
func (v *Validator) ValidatePassword(candidate string) (string, error) {
	if utf8.RuneCountInString(candidate) <= MinLength {
		return "", model.ErrBadPassword
	}
	return candidate, nil
}
