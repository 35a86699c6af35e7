package types

import (
	"errors"
	"fmt"
)

// ValidationErrorKind names a client-side check that failed.
type ValidationErrorKind string

const (
	EmptyEmail         ValidationErrorKind = "EmptyEmail"
	InvalidEmailFormat ValidationErrorKind = "InvalidEmailFormat"
	PasswordMismatch   ValidationErrorKind = "PasswordMismatch"
	PasswordTooShort   ValidationErrorKind = "PasswordTooShort"
	EmptyOTP           ValidationErrorKind = "EmptyOTP"
)

// ValidationError is detected before anything is sent. It blocks the
// submission and is fixed by editing the form.
type ValidationError struct {
	Kind ValidationErrorKind `json:"kind"`
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", err.Kind)
}

// Is matches any `*ValidationError` of the same kind, so the sentinels below
// work with `errors.Is`.
func (err *ValidationError) Is(target error) bool {
	var other *ValidationError
	return errors.As(target, &other) && other.Kind == err.Kind
}

var (
	ErrEmptyEmail         = &ValidationError{Kind: EmptyEmail}
	ErrInvalidEmailFormat = &ValidationError{Kind: InvalidEmailFormat}
	ErrPasswordMismatch   = &ValidationError{Kind: PasswordMismatch}
	ErrPasswordTooShort   = &ValidationError{Kind: PasswordTooShort}
	ErrEmptyOTP           = &ValidationError{Kind: EmptyOTP}

	// ErrSessionExpired is returned when a step needs session state that an
	// earlier step should have stored. The only way out is to restart the
	// whole flow.
	ErrSessionExpired = errors.New("reset session expired or missing")

	// ErrBusy rejects a submission while a previous one for the same session
	// is still in flight.
	ErrBusy = errors.New("submission already in progress")
)

// Op names the backend call an error came from.
type Op string

const (
	OpSendOTP       Op = "send-otp"
	OpVerifyOTP     Op = "verify-otp"
	OpResetPassword Op = "reset-password"
)

// ServerError is a non-2xx response from the backend. `Message` is the
// server-supplied message, if any; it is shown to the user verbatim.
type ServerError struct {
	Op      Op     `json:"op"`
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
}

func (err *ServerError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("%s: status `%d`", err.Op, err.Status)
	}
	return fmt.Sprintf("%s: status `%d`: %s", err.Op, err.Status, err.Message)
}

// TransportError means the request never completed (DNS, connection,
// timeout).
type TransportError struct {
	Op  Op    `json:"op"`
	Err error `json:"-"`
}

func (err *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", err.Op, err.Err)
}

func (err *TransportError) Unwrap() error { return err.Err }

// ClearError is returned alongside a successful reset when the session
// couldn't be discarded afterward. The password has changed; only the stale
// session remains.
type ClearError struct {
	Err error `json:"-"`
}

func (err *ClearError) Error() string {
	return fmt.Sprintf("clearing reset session: %v", err.Err)
}

func (err *ClearError) Unwrap() error { return err.Err }
