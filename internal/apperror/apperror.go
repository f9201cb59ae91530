package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the HTTP layer can pick a response status
// without inspecting error text.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation marks malformed or out-of-range input.
	KindValidation
	// KindInvalidState marks an operation not permitted in the entity's
	// current lifecycle state.
	KindInvalidState
	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound
	// KindAuth marks bad or missing credentials.
	KindAuth
	// KindInfrastructure marks persistence or other collaborator failures.
	KindInfrastructure
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Auth(msg string) error {
	return &Error{Kind: KindAuth, Msg: msg}
}

func Infrastructure(msg string, err error) error {
	return &Error{Kind: KindInfrastructure, Msg: msg, Err: err}
}

// KindOf returns the kind of err, unwrapping as needed. Errors that do not
// carry a kind report KindUnknown.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}
