package service

import (
	"errors"
	"fmt"

	"github.com/hostbuddy/api/internal/domain"
	"github.com/hostbuddy/api/internal/repository"
)

// Error kinds. Every error a service returns on purpose wraps one of these;
// anything else is an internal failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error carries a message that is safe to show to API clients.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func validationError(format string, args ...any) *Error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

var (
	ErrUserEmailExists    = newError(ErrConflict, "email already registered")
	ErrInvalidCredentials = newError(ErrUnauthorized, "incorrect email or password")
	ErrWrongPassword      = newError(ErrUnauthorized, "password is incorrect")
	ErrInvalidToken       = newError(ErrUnauthorized, "could not validate credentials")

	ErrUserNotFound    = newError(ErrNotFound, "user not found")
	ErrEventNotFound   = newError(ErrNotFound, "event not found")
	ErrLayoutNotFound  = newError(ErrNotFound, "layout not found")
	ErrElementNotFound = newError(ErrNotFound, "custom element not found")

	ErrPasswordTooShort     = newError(ErrValidation, "password must be at least 6 characters long")
	ErrPasswordTooLong      = newError(ErrValidation, "password cannot be longer than 72 bytes")
	ErrConfirmationMismatch = newError(ErrValidation, `confirmation must be "DELETE"`)
	ErrInvalidImageIndex    = newError(ErrValidation, "invalid image index")
	ErrEndDateBeforeStart   = newError(ErrValidation, domain.ErrEndDateBeforeStart.Error())
	ErrMissingGroupElements = newError(ErrValidation, domain.ErrMissingGroupElements.Error())
)

var repositoryErrors = []struct {
	from error
	to   *Error
}{
	{repository.ErrUserEmailExists, ErrUserEmailExists},
	{repository.ErrUserNotFound, ErrUserNotFound},
	{repository.ErrEventNotFound, ErrEventNotFound},
	{repository.ErrLayoutNotFound, ErrLayoutNotFound},
	{repository.ErrElementNotFound, ErrElementNotFound},
}

// translate turns repository sentinels into service errors. Service errors
// raised inside update callbacks come back out unchanged; everything else is
// wrapped with op as an internal failure.
func translate(op string, err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}

	for _, e := range repositoryErrors {
		if errors.Is(err, e.from) {
			return e.to
		}
	}

	return fmt.Errorf("%s -> %w", op, err)
}
