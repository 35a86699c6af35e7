package resetflow

import (
	"context"
	"fmt"

	"github.com/weberc2/passwordreset/pkg/types"
)

// VerifyFlow checks the emailed OTP with the backend and stores it in the
// session for the password reset step.
type VerifyFlow struct {
	API      API
	Sessions types.SessionStore

	submissions submissions
}

func (flow *VerifyFlow) Submit(
	ctx context.Context,
	id types.SessionID,
	otp string,
) error {
	if err := flow.submissions.begin(id); err != nil {
		return err
	}
	return flow.submissions.settle(id, flow.submit(ctx, id, otp)).Reason
}

func (flow *VerifyFlow) submit(
	ctx context.Context,
	id types.SessionID,
	otp string,
) error {
	otp, err := ValidateOTP(otp)
	if err != nil {
		return err
	}

	session, err := flow.Sessions.Load(id)
	if err != nil {
		return fmt.Errorf("verifying otp: loading session: %w", err)
	}
	if session.Email == "" {
		return types.ErrSessionExpired
	}

	if err := flow.API.VerifyOTP(ctx, session.Email, otp); err != nil {
		return fmt.Errorf("verifying otp: %w", err)
	}

	session.OTP = otp
	if err := flow.Sessions.Save(id, session); err != nil {
		return fmt.Errorf("verifying otp: saving session: %w", err)
	}
	return nil
}

func (flow *VerifyFlow) State(id types.SessionID) State {
	return flow.submissions.state(id)
}
