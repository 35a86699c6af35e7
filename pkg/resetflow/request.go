package resetflow

import (
	"context"
	"fmt"

	"github.com/weberc2/passwordreset/pkg/types"
)

// RequestFlow is the forgot-password step: it asks the backend to email an
// OTP and remembers the email for the later steps.
type RequestFlow struct {
	API      API
	Sessions types.SessionStore

	submissions submissions
}

// Submit validates `email`, requests an OTP for it and, on success, stores it
// in the session. A submission for a session that is already submitting is
// rejected with `types.ErrBusy`.
func (flow *RequestFlow) Submit(
	ctx context.Context,
	id types.SessionID,
	email string,
) error {
	if err := flow.submissions.begin(id); err != nil {
		return err
	}
	return flow.submissions.settle(id, flow.submit(ctx, id, email)).Reason
}

func (flow *RequestFlow) submit(
	ctx context.Context,
	id types.SessionID,
	email string,
) error {
	email, err := ValidateEmail(email)
	if err != nil {
		return err
	}

	if err := flow.API.SendOTP(ctx, email); err != nil {
		return fmt.Errorf("requesting password reset: %w", err)
	}

	// A new request starts a new session; an OTP from an older one must not
	// carry over to this email.
	if err := flow.Sessions.Save(id, &types.Session{Email: email}); err != nil {
		return fmt.Errorf("requesting password reset: saving session: %w", err)
	}
	return nil
}

func (flow *RequestFlow) State(id types.SessionID) State {
	return flow.submissions.state(id)
}
