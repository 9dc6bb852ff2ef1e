package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/haresh-sai06/HackAura/models"
)

// LoginResponse carries the token and user payload returned by login.
type LoginResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Login authenticates and stores the returned bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var result LoginResponse
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&result).
		Post("/api/auth/login")
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	c.tokens.SetToken(result.Token)
	return &result, nil
}

// Logout invalidates the session server-side and drops the local token
// regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Post("/api/auth/logout")
	c.tokens.Clear()
	if err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return checkStatus(resp)
}

// RefreshToken exchanges the current token for a fresh one.
func (c *Client) RefreshToken(ctx context.Context) error {
	var result struct {
		Token string `json:"token"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&result).
		Post("/api/auth/refresh")
	if err != nil {
		return fmt.Errorf("token refresh failed: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return err
	}
	c.tokens.SetToken(result.Token)
	return nil
}

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	resp, err := c.http.R().SetContext(ctx).SetResult(&user).
		Get("/api/auth/me")
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &user, nil
}

// Notifications fetches the server-side notification history.
func (c *Client) Notifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	resp, err := c.http.R().SetContext(ctx).SetResult(&notifications).
		Get("/api/notifications")
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flags one server-side notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	resp, err := c.http.R().SetContext(ctx).
		Put("/api/notifications/" + id + "/read")
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	return checkStatus(resp)
}

// MarkAllNotificationsRead flags every server-side notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Put("/api/notifications/read-all")
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return checkStatus(resp)
}
