package resetflow

import "context"

// API is the backend the flows talk to. Implementations return
// `*types.ServerError` for non-2xx responses and `*types.TransportError`
// when a request could not complete.
type API interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, reset *ResetPassword) error
}

type ResetPassword struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}
