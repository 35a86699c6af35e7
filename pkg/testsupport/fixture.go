package testsupport

import "github.com/weberc2/passwordreset/pkg/types"

const (
	Session       types.SessionID = "session"
	Email                         = "user@example.com"
	OTP                           = "123456"
	GoodPassword                  = ";oasdfipas#@#$OPYODF:;asdf"
	LoginURL                      = "https://app.example.org/login"
	LoginLocation                 = LoginURL + "?reset=success"
)

// VerifiedSession is a session that is ready for a password reset.
func VerifiedSession() SessionStoreFake {
	return SessionStoreFake{Session: {Email: Email, OTP: OTP}}
}
