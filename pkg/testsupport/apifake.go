package testsupport

import (
	"context"
	"sync"

	"github.com/weberc2/passwordreset/pkg/resetflow"
	"github.com/weberc2/passwordreset/pkg/types"
)

// Call records one request the flows made against `APIFake`.
type Call struct {
	Op          types.Op
	Email       string
	OTP         string
	NewPassword string
}

// APIFake is a `resetflow.API` that records calls and returns the configured
// error for each operation. If `Gate` is non-nil, every call blocks until the
// gate is closed (or the context is done), which lets tests hold a submission
// in flight.
type APIFake struct {
	Errors map[types.Op]error
	Gate   chan struct{}

	// Entered, if non-nil, receives the op each time a call starts.
	Entered chan types.Op

	lock  sync.Mutex
	calls []Call
}

func (api *APIFake) SendOTP(ctx context.Context, email string) error {
	return api.call(ctx, Call{Op: types.OpSendOTP, Email: email})
}

func (api *APIFake) VerifyOTP(ctx context.Context, email, otp string) error {
	return api.call(ctx, Call{Op: types.OpVerifyOTP, Email: email, OTP: otp})
}

func (api *APIFake) ResetPassword(
	ctx context.Context,
	reset *resetflow.ResetPassword,
) error {
	return api.call(ctx, Call{
		Op:          types.OpResetPassword,
		Email:       reset.Email,
		OTP:         reset.OTP,
		NewPassword: reset.NewPassword,
	})
}

func (api *APIFake) call(ctx context.Context, c Call) error {
	api.lock.Lock()
	api.calls = append(api.calls, c)
	api.lock.Unlock()

	if api.Entered != nil {
		api.Entered <- c.Op
	}
	if api.Gate != nil {
		select {
		case <-api.Gate:
		case <-ctx.Done():
			return &types.TransportError{Op: c.Op, Err: ctx.Err()}
		}
	}
	return api.Errors[c.Op]
}

// Calls returns a copy of the calls made so far.
func (api *APIFake) Calls() []Call {
	api.lock.Lock()
	defer api.lock.Unlock()
	return append([]Call(nil), api.calls...)
}

var _ resetflow.API = &APIFake{}
