package resetflow

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nbutton23/zxcvbn-go"
	"github.com/weberc2/passwordreset/pkg/types"
)

// MinPasswordLength is the minimum number of characters (runes) a new password
// must have.
const MinPasswordLength = 8

var (
	// local-part @ domain-part with at least one dot in the domain part.
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// The Arabic Unicode block, U+0600 through U+06FF.
	arabicBlock = &unicode.RangeTable{
		R16: []unicode.Range16{{Lo: 0x0600, Hi: 0x06ff, Stride: 1}},
	}
)

// FilterEmailInput drops every character in the Arabic block from `input`.
// It is applied to each input event on the email field, so the field never
// holds such a character.
func FilterEmailInput(input string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(arabicBlock, r) {
			return -1
		}
		return r
	}, input)
}

// ValidateEmail returns the trimmed email or the first failed check.
func ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", types.ErrEmptyEmail
	}
	if !emailPattern.MatchString(email) {
		return "", types.ErrInvalidEmailFormat
	}
	return email, nil
}

// ValidatePasswords checks that the confirmation matches before it checks
// the length.
func ValidatePasswords(password, confirmPassword string) error {
	if password != confirmPassword {
		return types.ErrPasswordMismatch
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return types.ErrPasswordTooShort
	}
	return nil
}

func ValidateOTP(otp string) (string, error) {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return "", types.ErrEmptyOTP
	}
	return otp, nil
}

// PasswordStrength scores a password from 0 (weakest) to 4. It is a hint for
// the user and never blocks a submission.
func PasswordStrength(password string, userInputs ...string) int {
	return zxcvbn.PasswordStrength(password, userInputs).Score
}
