// Package webserver serves the password reset pages: request an OTP, verify
// it, then choose a new password.
package webserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	pz "github.com/weberc2/httpeasy"
	"github.com/weberc2/passwordreset/pkg/i18n"
	"github.com/weberc2/passwordreset/pkg/resetflow"
	"github.com/weberc2/passwordreset/pkg/types"
)

const (
	PathForgotPassword = "/forgot-password"
	PathVerifyOTP      = "/verify-otp"
	PathResetPassword  = "/reset-password"

	togglePassword = "password"
	toggleConfirm  = "confirm"
)

type WebServer struct {
	Request *resetflow.RequestFlow
	Verify  *resetflow.VerifyFlow
	Confirm *resetflow.ConfirmFlow
	Cookies SessionCookies

	// BaseURL prefixes form actions and links. Empty serves the pages at the
	// root of the current host.
	BaseURL string

	// Language overrides `Accept-Language` negotiation when set.
	Language string
}

func (ws *WebServer) Routes() []pz.Route {
	return []pz.Route{{
		Method:  "GET",
		Path:    PathForgotPassword,
		Handler: ws.ForgotPasswordPage,
	}, {
		Method:  "POST",
		Path:    PathForgotPassword,
		Handler: ws.ForgotPasswordHandler,
	}, {
		Method:  "GET",
		Path:    PathVerifyOTP,
		Handler: ws.VerifyOTPPage,
	}, {
		Method:  "POST",
		Path:    PathVerifyOTP,
		Handler: ws.VerifyOTPHandler,
	}, {
		Method:  "GET",
		Path:    PathResetPassword,
		Handler: ws.ResetPasswordPage,
	}, {
		Method:  "POST",
		Path:    PathResetPassword,
		Handler: ws.ResetPasswordHandler,
	}}
}

func (ws *WebServer) ForgotPasswordPage(r pz.Request) pz.Response {
	p := ws.forgotPasswordPage(ws.localizer(r), "")
	return pz.Ok(pz.HTMLTemplate(pageTemplate, p), p)
}

func (ws *WebServer) ForgotPasswordHandler(r pz.Request) pz.Response {
	return ws.handleForm(r, func(
		l *i18n.Localizer,
		s *session,
		form url.Values,
	) pz.Response {
		// the page filters as the user types; this covers pasted input and
		// clients without script
		email := resetflow.FilterEmailInput(form.Get("email"))
		if err := ws.Request.Submit(
			context.Background(),
			s.id,
			email,
		); err != nil {
			return ws.failed(
				l,
				ws.forgotPasswordPage(l, email),
				s,
				"requesting password reset",
				err,
			)
		}

		p := newPage(l, i18n.CodeSentTitle)
		p.Intro = l.T(i18n.CodeSentBody)
		p.Links = []link{{
			ID:   "verify-otp",
			Href: ws.BaseURL + PathVerifyOTP,
			Text: l.T(i18n.ContinueToVerify),
		}}
		return render(http.StatusAccepted, p, &logging{
			Message: "requested password reset",
			Session: s.id,
		})
	})
}

func (ws *WebServer) VerifyOTPPage(r pz.Request) pz.Response {
	p := ws.verifyOTPPage(ws.localizer(r))
	return pz.Ok(pz.HTMLTemplate(pageTemplate, p), p)
}

func (ws *WebServer) VerifyOTPHandler(r pz.Request) pz.Response {
	return ws.handleForm(r, func(
		l *i18n.Localizer,
		s *session,
		form url.Values,
	) pz.Response {
		if err := ws.Verify.Submit(
			context.Background(),
			s.id,
			form.Get("otp"),
		); err != nil {
			return ws.failed(
				l,
				ws.verifyOTPPage(l),
				s,
				"verifying one-time password",
				err,
			)
		}
		return pz.SeeOther(ws.BaseURL+PathResetPassword, &logging{
			Message: "verified one-time password",
			Session: s.id,
		})
	})
}

func (ws *WebServer) ResetPasswordPage(r pz.Request) pz.Response {
	p := ws.resetPasswordPage(ws.localizer(r), &passwords{})
	return pz.Ok(pz.HTMLTemplate(pageTemplate, p), p)
}

func (ws *WebServer) ResetPasswordHandler(r pz.Request) pz.Response {
	return ws.handleForm(r, func(
		l *i18n.Localizer,
		s *session,
		form url.Values,
	) pz.Response {
		pws := passwords{
			password:     form.Get("password"),
			confirm:      form.Get("confirmPassword"),
			showPassword: form.Get("showPassword") == "true",
			showConfirm:  form.Get("showConfirm") == "true",
		}

		// visibility toggles only re-render the page
		switch toggle := form.Get("toggle"); toggle {
		case "":
		case togglePassword:
			pws.showPassword = !pws.showPassword
			return ws.toggled(l, s, &pws, toggle)
		case toggleConfirm:
			pws.showConfirm = !pws.showConfirm
			return ws.toggled(l, s, &pws, toggle)
		default:
			return pz.BadRequest(
				pz.Stringf("unknown toggle: %s", toggle),
				&logging{
					Message: "resetting password: unknown toggle",
					Session: s.id,
				},
			)
		}

		location, err := ws.Confirm.Submit(
			context.Background(),
			s.id,
			pws.password,
			pws.confirm,
		)
		var clearErr *types.ClearError
		if err != nil && !errors.As(err, &clearErr) {
			return ws.failed(
				l,
				ws.resetPasswordPage(l, &pws),
				s,
				"resetting password",
				err,
			)
		}
		s.ended = true
		lg := logging{Message: "reset password", Session: s.id}
		if clearErr != nil {
			lg.ErrorType = fmt.Sprintf("%T", clearErr)
			lg.Error = clearErr.Error()
		}
		return pz.SeeOther(location, &lg)
	})
}

func (ws *WebServer) toggled(
	l *i18n.Localizer,
	s *session,
	pws *passwords,
	toggle string,
) pz.Response {
	return render(http.StatusOK, ws.resetPasswordPage(l, pws), &logging{
		Message: fmt.Sprintf("toggled `%s` visibility", toggle),
		Session: s.id,
	})
}

type session struct {
	id types.SessionID

	// ended sessions get their cookie expired instead of refreshed
	ended bool
}

// handleForm parses the form, resolves the session cookie (starting a fresh
// session if it's missing or invalid) and refreshes the cookie on the way
// out.
func (ws *WebServer) handleForm(
	r pz.Request,
	next func(*i18n.Localizer, *session, url.Values) pz.Response,
) pz.Response {
	form, err := parseForm(r)
	if err != nil {
		return handleError("error parsing form data", "parsing form data", err)
	}

	var s session
	if s.id, err = ws.Cookies.Session(r); err != nil {
		s.id = ws.Cookies.NewSession()
	}

	rsp := next(ws.localizer(r), &s, form)
	if s.ended {
		return rsp.WithCookies(ws.Cookies.Expired())
	}
	cookie, err := ws.Cookies.Cookie(s.id)
	if err != nil {
		return pz.InternalServerError(&logging{
			Message:   "issuing session cookie",
			Session:   s.id,
			ErrorType: fmt.Sprintf("%T", err),
			Error:     err.Error(),
		})
	}
	return rsp.WithCookies(cookie)
}

// failed re-renders the form with the error described in the user's
// language.
func (ws *WebServer) failed(
	l *i18n.Localizer,
	p *page,
	s *session,
	activity string,
	err error,
) pz.Response {
	p.ErrorMessage = l.Describe(err)
	return render(status(err), p, &logging{
		Message:   activity,
		Session:   s.id,
		Page:      p,
		ErrorType: fmt.Sprintf("%T", err),
		Error:     err.Error(),
	})
}

// status maps a flow error onto the response status.
func status(err error) int {
	var validationErr *types.ValidationError
	var serverErr *types.ServerError
	var transportErr *types.TransportError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, types.ErrSessionExpired):
		return http.StatusGone
	case errors.As(err, &serverErr):
		switch serverErr.Status {
		case http.StatusBadRequest,
			http.StatusConflict,
			http.StatusGone,
			http.StatusUnprocessableEntity,
			http.StatusTooManyRequests:
			return serverErr.Status
		}
		// other upstream 4xx (401, 403, 404, ...) become a plain 400
		if serverErr.Status >= 400 && serverErr.Status < 500 {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	case errors.As(err, &transportErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (ws *WebServer) localizer(r pz.Request) *i18n.Localizer {
	if ws.Language != "" {
		return i18n.New(i18n.Match(ws.Language))
	}
	return i18n.New(i18n.Match(r.Headers.Get("Accept-Language")))
}
