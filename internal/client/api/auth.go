package api

import (
	"context"
	"net/http"
	"net/url"
)

// LoginRequest is the credential payload for the login endpoint.
// Identifier accepts either a username or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// RegisterRequest is the payload for creating an account. On success the
// backend returns a usable session token directly, so registration
// doubles as an immediate login.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Secret   string `json:"secret"`
}

// AuthResponse carries the session token issued by the backend.
type AuthResponse struct {
	Token string `json:"token"`
}

// messageResponse is the generic {message} payload several auth
// endpoints respond with.
type messageResponse struct {
	Message string `json:"message"`
}

// Login exchanges a credential for a session token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (string, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates an account and returns the session token the backend
// issues for it.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ForgotPassword asks the backend to mail a reset link to email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ResetPassword completes a password reset using the token from the
// reset mail.
func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) (string, error) {
	var resp messageResponse
	body := struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}{Token: resetToken, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/reset-password", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// VerifyEmail confirms an email address using the token from the
// verification mail.
func (c *Client) VerifyEmail(ctx context.Context, verifyToken string) (string, error) {
	var resp messageResponse
	query := url.Values{"token": []string{verifyToken}}
	if err := c.do(ctx, http.MethodGet, "/auth/verify-email", query, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
