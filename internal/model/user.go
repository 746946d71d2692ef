package model

import (
	"strings"
	"time"
)

// Role determines which session variant a user enters on login
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleRegular Role = "regular"
)

// ParseRole converts user input into a Role
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "regular", "regular_user", "user":
		return RoleRegular, nil
	default:
		return "", ErrInvalidRole
	}
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleRegular
}

// User is a registered account
type User struct {
	UserName  string    // unique among active users, immutable
	Password  string    // stored as given, compared verbatim
	Role      Role
	CreatedAt time.Time
	BlockedAt time.Time // zero while active
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Clone returns a copy safe to hand out of a store
func (u *User) Clone() *User {
	c := *u
	return &c
}
