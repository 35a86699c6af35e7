package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/weberc2/passwordreset/pkg/resetflow"
	"github.com/weberc2/passwordreset/pkg/types"
)

const (
	DefaultSendOTPPath   = "/api/forget/send-otp"
	DefaultVerifyOTPPath = "/api/forget/verify-otp"
	DefaultTimeout       = 10 * time.Second

	// Error bodies are only read for their message; anything past this is
	// ignored.
	maxErrorBody = 4096
)

// Client calls the password reset endpoints of the backend API.
type Client struct {
	HTTP    http.Client
	BaseURL string

	SendOTPPath       string
	VerifyOTPPath     string
	ResetPasswordPath string
}

// DefaultClient returns a client with the default OTP paths and a bounded
// timeout. The reset path has no default and must be provided.
func DefaultClient(baseURL, resetPasswordPath string) Client {
	return Client{
		HTTP:              http.Client{Timeout: DefaultTimeout},
		BaseURL:           baseURL,
		SendOTPPath:       DefaultSendOTPPath,
		VerifyOTPPath:     DefaultVerifyOTPPath,
		ResetPasswordPath: resetPasswordPath,
	}
}

func (c *Client) SendOTP(ctx context.Context, email string) error {
	return c.post(ctx, types.OpSendOTP, c.SendOTPPath, &struct {
		Email string `json:"email"`
	}{email})
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.post(ctx, types.OpVerifyOTP, c.VerifyOTPPath, &struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}{email, otp})
}

func (c *Client) ResetPassword(
	ctx context.Context,
	reset *resetflow.ResetPassword,
) error {
	return c.post(ctx, types.OpResetPassword, c.ResetPasswordPath, reset)
}

func (c *Client) post(
	ctx context.Context,
	op types.Op,
	path string,
	payload interface{},
) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: marshaling request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.BaseURL+path,
		bytes.NewReader(data),
	)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	rsp, err := c.HTTP.Do(req)
	if err != nil {
		return &types.TransportError{Op: op, Err: err}
	}
	defer rsp.Body.Close()

	if rsp.StatusCode >= 200 && rsp.StatusCode < 300 {
		// drain so the connection can be reused; success bodies are optional
		// and carry nothing we need.
		_, _ = io.Copy(ioutil.Discard, rsp.Body)
		return nil
	}

	return &types.ServerError{
		Op:      op,
		Status:  rsp.StatusCode,
		Message: errorMessage(io.LimitReader(rsp.Body, maxErrorBody)),
	}
}

// errorMessage pulls the user-facing message out of an error body. The
// backend uses `message`; `error` is accepted as a fallback. Bodies that
// aren't JSON yield no message.
func errorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

var _ resetflow.API = &Client{}
