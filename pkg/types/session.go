package types

import "fmt"

// Storage keys. These are the names the session's fields are persisted under
// in every backing store (YAML keys, DynamoDB attributes, Postgres columns).
const (
	KeyResetEmail  = "resetEmail"
	KeyVerifiedOTP = "verifiedOTP"
)

// SessionID identifies whose reset session a store entry belongs to.
type SessionID string

// Session carries the state handed from one password reset step to the next:
// the email the OTP was issued for and, once verified, the OTP itself.
type Session struct {
	Email string `json:"resetEmail,omitempty" yaml:"resetEmail,omitempty"`

	// don't log the OTP
	OTP string `json:"-" yaml:"verifiedOTP,omitempty"`
}

// Complete reports whether the session holds everything a password reset
// needs.
func (s *Session) Complete() bool {
	return s != nil && s.Email != "" && s.OTP != ""
}

func (wanted *Session) Compare(found *Session) error {
	if wanted == found {
		return nil
	}
	if wanted == nil || found == nil {
		return fmt.Errorf("Session: wanted `%v`; found `%v`", wanted, found)
	}
	if wanted.Email != found.Email {
		return fmt.Errorf(
			"Session.Email: wanted `%s`; found `%s`",
			wanted.Email,
			found.Email,
		)
	}
	if wanted.OTP != found.OTP {
		return fmt.Errorf(
			"Session.OTP: wanted `%s`; found `%s`",
			wanted.OTP,
			found.OTP,
		)
	}
	return nil
}
