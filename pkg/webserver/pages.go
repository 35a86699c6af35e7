package webserver

import (
	"github.com/weberc2/passwordreset/pkg/i18n"
)

func (ws *WebServer) forgotPasswordPage(
	l *i18n.Localizer,
	email string,
) *page {
	p := newPage(l, i18n.ForgotPasswordTitle)
	p.Intro = l.T(i18n.ForgotPasswordIntro)
	p.FormAction = ws.BaseURL + PathForgotPassword
	p.Fields = []field{{
		ID:           "email",
		Label:        l.T(i18n.EmailLabel),
		Type:         "text",
		Value:        email,
		Autocomplete: "email",
		FilterArabic: true,
	}}
	p.Submit = l.T(i18n.SendCode)
	p.Links = ws.loginLink(l)
	return p
}

func (ws *WebServer) verifyOTPPage(l *i18n.Localizer) *page {
	p := newPage(l, i18n.VerifyTitle)
	p.FormAction = ws.BaseURL + PathVerifyOTP
	p.Fields = []field{{
		ID:           "otp",
		Label:        l.T(i18n.OTPLabel),
		Type:         "text",
		Autocomplete: "one-time-code",
	}}
	p.Submit = l.T(i18n.Verify)
	return p
}

// passwords is the reset form's state, which survives visibility toggles and
// failed submissions.
type passwords struct {
	password     string
	confirm      string
	showPassword bool
	showConfirm  bool
}

func (ws *WebServer) resetPasswordPage(
	l *i18n.Localizer,
	pws *passwords,
) *page {
	p := newPage(l, i18n.ResetPasswordTitle)
	p.FormAction = ws.BaseURL + PathResetPassword
	p.Fields = []field{
		passwordField(
			l,
			"password",
			i18n.NewPasswordLabel,
			pws.password,
			togglePassword,
			pws.showPassword,
		),
		passwordField(
			l,
			"confirmPassword",
			i18n.ConfirmPasswordLabel,
			pws.confirm,
			toggleConfirm,
			pws.showConfirm,
		),
		visibilityField("showPassword", pws.showPassword),
		visibilityField("showConfirm", pws.showConfirm),
	}
	p.Submit = l.T(i18n.Submit)
	p.Links = ws.loginLink(l)
	return p
}

func passwordField(
	l *i18n.Localizer,
	id string,
	label string,
	value string,
	toggle string,
	visible bool,
) field {
	f := field{
		ID:           id,
		Label:        l.T(label),
		Type:         "password",
		Value:        value,
		Autocomplete: "new-password",
		Toggle:       toggle,
		ToggleLabel:  l.T(i18n.ShowPassword),
	}
	if visible {
		f.Type = "text"
		f.ToggleLabel = l.T(i18n.HidePassword)
	}
	return f
}

func visibilityField(id string, visible bool) field {
	f := field{ID: id, Type: "hidden"}
	if visible {
		f.Value = "true"
	}
	return f
}

func (ws *WebServer) loginLink(l *i18n.Localizer) []link {
	if ws.Confirm == nil || ws.Confirm.LoginURL == "" {
		return nil
	}
	return []link{{
		ID:   "login",
		Href: ws.Confirm.LoginURL,
		Text: l.T(i18n.BackToLogin),
	}}
}
