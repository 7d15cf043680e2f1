package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnauthorized    = errors.New("invalid credentials")
	ErrForbidden       = errors.New("permission denied")
	ErrAccountInactive = errors.New("account deactivated")
	ErrDeadlinePassed  = errors.New("the deadline for this quiz has passed")
)

// FieldError is used to indicate an error with a specific request field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// Invalid is a shorthand for a single field failure.
func Invalid(field, msg string) error {
	return NewValidationError(errors.New("invalid request"), FieldError{Field: field, Error: msg})
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type NotFoundError struct {
	Resource string
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func (e NotFoundError) Error() string {
	return e.Resource + " not found"
}

type ConflictError struct {
	Message string
}

func Conflict(msg string) error {
	return &ConflictError{Message: msg}
}

func (e ConflictError) Error() string {
	return e.Message
}

// AlreadySubmittedError carries the score of the existing result.
type AlreadySubmittedError struct {
	Score int
}

func (e AlreadySubmittedError) Error() string {
	return "quiz already submitted"
}

// TransitionError reports a payment state change that is not allowed.
type TransitionError struct {
	From string
	To   string
}

func (e TransitionError) Error() string {
	return fmt.Sprintf("payment is %s and cannot become %s", e.From, e.To)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
