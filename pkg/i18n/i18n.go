// Package i18n localizes page text and error descriptions. Arabic is the
// default language and is laid out right-to-left.
package i18n

import (
	"errors"

	"github.com/weberc2/passwordreset/pkg/resetflow"
	"github.com/weberc2/passwordreset/pkg/types"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

func New(tag language.Tag) *Localizer {
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages)),
	}
}

// Match picks the best supported language for the given preferences (e.g.
// `Accept-Language` headers or a configured language). Unparseable or
// unsupported input falls back to Arabic.
func Match(preferences ...string) language.Tag {
	tag, _ := language.MatchStrings(matcher, preferences...)
	return tag
}

// Lang is the BCP 47 base language, suitable for `<html lang="...">`.
func (l *Localizer) Lang() string {
	base, _ := l.tag.Base()
	return base.String()
}

// Dir is the text direction, suitable for `<html dir="...">`.
func (l *Localizer) Dir() string {
	switch l.Lang() {
	case "ar", "fa", "he", "ur":
		return "rtl"
	default:
		return "ltr"
	}
}

func (l *Localizer) T(key string, args ...interface{}) string {
	return l.printer.Sprintf(key, args...)
}

// Describe turns a flow error into the message shown to the user. Server
// messages are shown verbatim; everything else comes from the catalog.
func (l *Localizer) Describe(err error) string {
	var validationErr *types.ValidationError
	var serverErr *types.ServerError
	var transportErr *types.TransportError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		switch validationErr.Kind {
		case types.EmptyEmail:
			return l.T(ErrEmptyEmail)
		case types.InvalidEmailFormat:
			return l.T(ErrInvalidEmailFormat)
		case types.PasswordMismatch:
			return l.T(ErrPasswordMismatch)
		case types.PasswordTooShort:
			return l.T(ErrPasswordTooShort, resetflow.MinPasswordLength)
		case types.EmptyOTP:
			return l.T(ErrEmptyOTP)
		}
	case errors.Is(err, types.ErrSessionExpired):
		return l.T(ErrSessionExpired)
	case errors.Is(err, types.ErrBusy):
		return l.T(ErrBusy)
	case errors.As(err, &serverErr):
		if serverErr.Message != "" {
			return serverErr.Message
		}
		switch serverErr.Op {
		case types.OpSendOTP:
			return l.T(ErrSendFailed)
		case types.OpVerifyOTP:
			return l.T(ErrVerifyFailed)
		case types.OpResetPassword:
			return l.T(ErrResetFailed)
		}
	case errors.As(err, &transportErr):
		return l.T(ErrConnection)
	}
	return l.T(ErrUnexpected)
}

// Strength describes a `resetflow.PasswordStrength` score.
func (l *Localizer) Strength(score int) string {
	switch {
	case score < 2:
		return l.T(StrengthWeak)
	case score < 3:
		return l.T(StrengthFair)
	default:
		return l.T(StrengthStrong)
	}
}
