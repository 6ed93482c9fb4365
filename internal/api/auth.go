package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/lysn-labs/lysn-cli/internal/models"
)

// RequestOTP asks the backend to email a one-time code to the address.
// The optional name is carried through so signup can record it on verify.
func (c *Client) RequestOTP(ctx context.Context, email, name string) error {
	form := url.Values{"email": {email}}
	if name != "" {
		form.Set("name", name)
	}
	return c.postForm(ctx, "/auth/otp/request", form, nil)
}

// VerifyOTP exchanges an emailed code for a session. On success the session
// is installed on the client.
func (c *Client) VerifyOTP(ctx context.Context, email, code, name string) (*models.Session, error) {
	form := url.Values{"email": {email}, "otp": {code}}
	if name != "" {
		form.Set("name", name)
	}

	var session models.Session
	if err := c.postForm(ctx, "/auth/otp/verify", form, &session); err != nil {
		return nil, err
	}

	c.SetSession(&session)
	return &session, nil
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	form := url.Values{"email": {email}, "password": {password}}

	var session models.Session
	if err := c.postForm(ctx, "/auth/login", form, &session); err != nil {
		return nil, err
	}

	c.SetSession(&session)
	return &session, nil
}

// RequestPasswordReset asks the backend to email a reset code.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	form := url.Values{"email": {email}}
	return c.postForm(ctx, "/auth/password/reset/request", form, nil)
}

// VerifyPasswordReset verifies a reset code. With an empty newPassword it
// only checks the code; with one set it also replaces the password, so the
// same call serves both the otp and set-password steps of the reset flow.
func (c *Client) VerifyPasswordReset(ctx context.Context, email, code, newPassword string) error {
	form := url.Values{"email": {email}, "otp": {code}}
	if newPassword != "" {
		form.Set("new_password", newPassword)
	}
	return c.postForm(ctx, "/auth/password/reset/verify", form, nil)
}

// SetPassword replaces the authenticated account's password.
func (c *Client) SetPassword(ctx context.Context, oldPassword, newPassword string) error {
	token, err := c.token()
	if err != nil {
		return err
	}

	form := url.Values{
		"token":        {token},
		"old_password": {oldPassword},
		"new_password": {newPassword},
	}
	return c.postForm(ctx, "/auth/password/set", form, nil)
}

// Me fetches the authenticated account profile.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}

	var payload struct {
		User models.User `json:"user"`
	}
	if err := c.postForm(ctx, "/auth/me", url.Values{"token": {token}}, &payload); err != nil {
		return nil, err
	}

	return &payload.User, nil
}

// Logout invalidates the held session server-side and clears it locally.
// The local session is cleared even when the backend call fails.
func (c *Client) Logout(ctx context.Context) error {
	token, err := c.token()
	if err != nil {
		return err
	}

	err = c.postForm(ctx, "/auth/logout", url.Values{"token": {token}}, nil)
	c.SetSession(nil)
	return err
}

// GoogleLoginURL is the backend redirect URL starting the Google login flow.
// It is a browser destination, not an API call.
func (c *Client) GoogleLoginURL() string {
	return c.baseURL + "/auth/google/login"
}

// LoginWithGoogleToken exchanges a Google access token obtained by the local
// OAuth callback for a Lysn session.
func (c *Client) LoginWithGoogleToken(ctx context.Context, accessToken string) (*models.Session, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("missing access token")
	}

	form := url.Values{"access_token": {accessToken}}

	var session models.Session
	if err := c.postForm(ctx, "/auth/google/token", form, &session); err != nil {
		return nil, err
	}

	c.SetSession(&session)
	return &session, nil
}
