package patch

import (
	"errors"
	"fmt"

	"planche-service/internal/domain/entity"
)

// ErrorKind classifies why a single update was rejected
type ErrorKind string

const (
	KindDateMismatch    ErrorKind = "date_mismatch"
	KindUnknownField    ErrorKind = "unknown_field"
	KindTimeParseError  ErrorKind = "time_parse_error"
	KindDuplicateFlight ErrorKind = "duplicate_flight"
)

var (
	ErrDateMismatch    = errors.New("update date does not match roster date")
	ErrUnknownField    = errors.New("unknown update field")
	ErrTimeParse       = entity.ErrTimeParse
	ErrDuplicateFlight = errors.New("flight already exists")
)

// ApplyError reports a rejected update. The roster it targeted is left untouched.
type ApplyError struct {
	Kind      ErrorKind
	Field     string
	OgnNumber int
	Err       error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("update %q on flight %d rejected: %v", e.Field, e.OgnNumber, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind carried by err, or "" when err is not an ApplyError
func KindOf(err error) ErrorKind {
	var applyErr *ApplyError
	if errors.As(err, &applyErr) {
		return applyErr.Kind
	}
	return ""
}

func dateMismatch(cmd entity.UpdateCommand, rosterDate entity.Date) *ApplyError {
	return &ApplyError{
		Kind:      KindDateMismatch,
		Field:     cmd.Field,
		OgnNumber: cmd.OgnNumber,
		Err:       fmt.Errorf("%w: update is for %s, roster is %s", ErrDateMismatch, cmd.Date, rosterDate),
	}
}

func unknownField(cmd entity.UpdateCommand) *ApplyError {
	target := "flight"
	if cmd.TargetsGround() {
		target = "ground assignment"
	}
	return &ApplyError{
		Kind:      KindUnknownField,
		Field:     cmd.Field,
		OgnNumber: cmd.OgnNumber,
		Err:       fmt.Errorf("%w: %q is not a %s field", ErrUnknownField, cmd.Field, target),
	}
}

func timeParse(cmd entity.UpdateCommand, err error) *ApplyError {
	return &ApplyError{
		Kind:      KindTimeParseError,
		Field:     cmd.Field,
		OgnNumber: cmd.OgnNumber,
		Err:       err,
	}
}
