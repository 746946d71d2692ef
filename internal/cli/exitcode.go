package cli

import (
	"errors"
	"fmt"

	"github.com/mcoot/betgate/internal/model"
)

// Process exit codes, one per failure kind
const (
	ExitOK                = 0
	ExitInternal          = 1
	ExitUserAlreadyExists = 2
	ExitBadUsername       = 3
	ExitBadPassword       = 4
	ExitBlockedUser       = 5
	ExitWrongAuthData     = 6
	ExitUnauthorized      = 7
	ExitNotFound          = 8
	ExitUsage             = 9
)

// Error codes used in JSON output
const (
	CodeUserAlreadyExists = "USER_ALREADY_EXISTS"
	CodeBadUsername       = "BAD_USERNAME"
	CodeBadPassword       = "BAD_PASSWORD"
	CodeBlockedUser       = "BLOCKED_USER"
	CodeWrongAuthData     = "WRONG_AUTH_DATA"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInternalError     = "INTERNAL_ERROR"
)

// UsageError reports malformed commands or flags
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string {
	return e.msg
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

// ExitError carries a failure out of a cobra command with its exit code
type ExitError struct {
	Err error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

type failure struct {
	exit int
	code string
}

// classify maps an error to its exit code and error code
func classify(err error) failure {
	var ue *UsageError
	switch {
	case err == nil:
		return failure{ExitOK, ""}
	case errors.As(err, &ue):
		return failure{ExitUsage, CodeInvalidInput}
	case errors.Is(err, model.ErrUserAlreadyExists):
		return failure{ExitUserAlreadyExists, CodeUserAlreadyExists}
	case errors.Is(err, model.ErrBadUsername):
		return failure{ExitBadUsername, CodeBadUsername}
	case errors.Is(err, model.ErrBadPassword):
		return failure{ExitBadPassword, CodeBadPassword}
	case errors.Is(err, model.ErrBlockedUser):
		return failure{ExitBlockedUser, CodeBlockedUser}
	case errors.Is(err, model.ErrWrongAuthData):
		return failure{ExitWrongAuthData, CodeWrongAuthData}
	case errors.Is(err, model.ErrUnauthorized):
		return failure{ExitUnauthorized, CodeUnauthorized}
	case errors.Is(err, model.ErrUserNotFound):
		return failure{ExitNotFound, CodeNotFound}
	case model.KindOf(err) == model.KindInput:
		return failure{ExitUsage, CodeInvalidInput}
	default:
		return failure{ExitInternal, CodeInternalError}
	}
}

// ExitCode returns the process exit code for err
func ExitCode(err error) int {
	return classify(err).exit
}

// ErrorCode returns the machine-readable code for err
func ErrorCode(err error) string {
	return classify(err).code
}
