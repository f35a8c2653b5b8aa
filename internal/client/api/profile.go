package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ykaradag/ustahub/internal/models"
)

// ProfileUpdateRequest carries the editable profile fields. Zero-value
// fields are omitted so partial updates leave the rest untouched.
type ProfileUpdateRequest struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// ChangePasswordRequest carries the current and replacement passwords.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// CreateRequestRequest opens a new service request for a trade category.
// Details holds the intake-question answers keyed by question.
type CreateRequestRequest struct {
	Title    string            `json:"title"`
	Category string            `json:"category"`
	Details  map[string]string `json:"details"`
	Address  string            `json:"address"`
}

// MyProfile fetches the authenticated user's profile.
func (c *Client) MyProfile(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.do(ctx, http.MethodGet, "/me", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile edits the authenticated user's profile and returns the
// updated record.
func (c *Client) UpdateProfile(ctx context.Context, req ProfileUpdateRequest) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.do(ctx, http.MethodPut, "/me", nil, req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ChangePassword replaces the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return c.do(ctx, http.MethodPost, "/me/change-password", nil, req, nil)
}

// ResendVerificationEmail asks the backend to send the email
// verification mail again.
func (c *Client) ResendVerificationEmail(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/me/resend-verification-email", nil, nil, nil)
}

// MyRequests lists the authenticated user's service requests.
func (c *Client) MyRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	var requests []models.ServiceRequest
	if err := c.do(ctx, http.MethodGet, "/me/requests", nil, nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// CreateRequest opens a new service request.
func (c *Client) CreateRequest(ctx context.Context, req CreateRequestRequest) (*models.ServiceRequest, error) {
	var created models.ServiceRequest
	if err := c.do(ctx, http.MethodPost, "/me/requests", nil, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CloseMyRequest closes one of the authenticated user's requests.
func (c *Client) CloseMyRequest(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/me/requests/%s/close", id), nil, nil, nil)
}

// RequestReplies lists the conversation attached to a request.
func (c *Client) RequestReplies(ctx context.Context, requestID string) ([]models.Reply, error) {
	var replies []models.Reply
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/requests/%s/replies", requestID), nil, nil, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// PostReply adds a message to one of the authenticated user's requests.
func (c *Client) PostReply(ctx context.Context, requestID, text string) (*models.Reply, error) {
	var reply models.Reply
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/me/requests/%s/replies", requestID), nil, body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
