package resetflow

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/weberc2/passwordreset/pkg/types"
)

const (
	// SuccessParam is the query parameter added to the login location after a
	// successful reset so the login page can show a confirmation banner.
	SuccessParam = "reset"
	SuccessValue = "success"
)

// ConfirmFlow is the reset-password step: it submits the new password along
// with the session's email and verified OTP, then consumes the session.
type ConfirmFlow struct {
	API      API
	Sessions types.SessionStore

	// LoginURL is where users are sent after a successful reset.
	LoginURL string

	submissions submissions
}

// Submit resets the password and returns the location to navigate to. The
// passwords are validated before the session is read, and the session is
// checked before anything is sent. If the reset succeeds but the session
// can't be cleared, the location comes back together with a
// `*types.ClearError` and the submission counts as succeeded.
func (flow *ConfirmFlow) Submit(
	ctx context.Context,
	id types.SessionID,
	password string,
	confirmPassword string,
) (string, error) {
	if err := flow.submissions.begin(id); err != nil {
		return "", err
	}
	location, err := flow.submit(ctx, id, password, confirmPassword)
	var clearErr *types.ClearError
	if errors.As(err, &clearErr) {
		flow.submissions.settle(id, nil)
		return location, err
	}
	status := flow.submissions.settle(id, err)
	if status.State == Failed {
		return "", status.Reason
	}
	return location, nil
}

func (flow *ConfirmFlow) submit(
	ctx context.Context,
	id types.SessionID,
	password string,
	confirmPassword string,
) (string, error) {
	if err := ValidatePasswords(password, confirmPassword); err != nil {
		return "", err
	}

	session, err := flow.Sessions.Load(id)
	if err != nil {
		return "", fmt.Errorf("resetting password: loading session: %w", err)
	}
	if !session.Complete() {
		return "", types.ErrSessionExpired
	}

	// build the location up front; a bad `LoginURL` shouldn't surface only
	// after the password has already changed.
	location, err := successLocation(flow.LoginURL)
	if err != nil {
		return "", fmt.Errorf("resetting password: %w", err)
	}

	if err := flow.API.ResetPassword(ctx, &ResetPassword{
		Email:       session.Email,
		OTP:         session.OTP,
		NewPassword: password,
	}); err != nil {
		return "", fmt.Errorf("resetting password: %w", err)
	}

	if err := flow.Sessions.Clear(id); err != nil {
		return location, &types.ClearError{Err: err}
	}
	return location, nil
}

func (flow *ConfirmFlow) State(id types.SessionID) State {
	return flow.submissions.state(id)
}

func successLocation(loginURL string) (string, error) {
	u, err := url.Parse(loginURL)
	if err != nil {
		return "", fmt.Errorf("parsing login url `%s`: %w", loginURL, err)
	}
	query := u.Query()
	query.Set(SuccessParam, SuccessValue)
	u.RawQuery = query.Encode()
	return u.String(), nil
}
