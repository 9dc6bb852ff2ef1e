package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/haresh-sai06/HackAura/models"
)

// ErrUnauthorized is returned when the backend rejects the session
// token. The stored token has already been cleared by the time callers
// see this error.
var ErrUnauthorized = fmt.Errorf("unauthorized, session token cleared")

// Client is the typed REST client for the dispatch backend. Every
// request carries the stored bearer token when one is present; a 401
// response clears the token so the UI can force re-authentication.
type Client struct {
	http   *resty.Client
	tokens TokenStore
}

// New builds a Client against the given base URL. Requests time out
// after timeout (the backend contract is 10s).
func New(baseURL string, timeout time.Duration, tokens TokenStore) *Client {
	c := &Client{tokens: tokens}

	c.http = resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if token := tokens.Token(); token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}
		zap.S().Debugw("api request", "method", req.Method, "url", req.URL)
		return nil
	})

	c.http.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		zap.S().Debugw("api response",
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"duration", resp.Time(),
		)
		if resp.StatusCode() == http.StatusUnauthorized {
			zap.S().Warnw("unauthorized response, clearing session token", "url", resp.Request.URL)
			tokens.Clear()
		}
		return nil
	})

	return c
}

// checkStatus converts non-2xx responses into errors, mapping 401 to
// ErrUnauthorized.
func checkStatus(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return fmt.Errorf("request to %s failed with status %d: %s",
		resp.Request.URL, resp.StatusCode(), resp.String())
}

// GetCalls fetches the call listing, with optional server-side filters.
func (c *Client) GetCalls(ctx context.Context, filter *models.CallFilter) ([]models.EmergencyCall, error) {
	var calls []models.EmergencyCall
	req := c.http.R().SetContext(ctx).SetResult(&calls)
	if filter != nil {
		applyFilterParams(req, filter)
	}
	resp, err := req.Get("/api/calls")
	if err != nil {
		return nil, fmt.Errorf("failed to get calls: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return calls, nil
}

// applyFilterParams encodes a CallFilter the way the backend expects:
// repeated params for the set dimensions, RFC3339 bounds for the range.
func applyFilterParams(req *resty.Request, filter *models.CallFilter) {
	params := url.Values{}
	for _, s := range filter.Status {
		params.Add("status", string(s))
	}
	for _, s := range filter.Severity {
		params.Add("severity", string(s))
	}
	for _, t := range filter.EmergencyType {
		params.Add("emergencyType", string(t))
	}
	if filter.DateRange != nil {
		params.Set("dateRange_start", filter.DateRange.Start.Format(time.RFC3339))
		params.Set("dateRange_end", filter.DateRange.End.Format(time.RFC3339))
	}
	req.SetQueryParamsFromValues(params)
}

// GetCall fetches a single call by id.
func (c *Client) GetCall(ctx context.Context, id string) (*models.EmergencyCall, error) {
	var call models.EmergencyCall
	resp, err := c.http.R().SetContext(ctx).SetResult(&call).
		Get("/api/calls/" + id)
	if err != nil {
		return nil, fmt.Errorf("failed to get call %s: %w", id, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &call, nil
}

// CreateCall creates a new call; the server assigns id and timestamp.
func (c *Client) CreateCall(ctx context.Context, call models.EmergencyCall) (*models.EmergencyCall, error) {
	var created models.EmergencyCall
	resp, err := c.http.R().SetContext(ctx).SetBody(call).SetResult(&created).
		Post("/api/calls")
	if err != nil {
		return nil, fmt.Errorf("failed to create call: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCall sends a partial-field update and returns the server's view
// of the call after the merge.
func (c *Client) UpdateCall(ctx context.Context, id string, updates map[string]interface{}) (*models.EmergencyCall, error) {
	var updated models.EmergencyCall
	resp, err := c.http.R().SetContext(ctx).SetBody(updates).SetResult(&updated).
		Put("/api/calls/" + id)
	if err != nil {
		return nil, fmt.Errorf("failed to update call %s: %w", id, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCall removes a call on the backend.
func (c *Client) DeleteCall(ctx context.Context, id string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/api/calls/" + id)
	if err != nil {
		return fmt.Errorf("failed to delete call %s: %w", id, err)
	}
	return checkStatus(resp)
}

// GetAnalytics fetches the server-computed analytics snapshot.
func (c *Client) GetAnalytics(ctx context.Context) (*models.CallAnalytics, error) {
	var analytics models.CallAnalytics
	resp, err := c.http.R().SetContext(ctx).SetResult(&analytics).
		Get("/api/analytics")
	if err != nil {
		return nil, fmt.Errorf("failed to get analytics: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	analytics.ZeroFill()
	return &analytics, nil
}

// UploadAudio attaches a call recording and returns the recording URL.
func (c *Client) UploadAudio(ctx context.Context, callID, filename string, audio io.Reader) (string, error) {
	var result struct {
		URL string `json:"url"`
	}
	resp, err := c.http.R().SetContext(ctx).
		SetFileReader("audio", filename, audio).
		SetResult(&result).
		Post("/api/calls/" + callID + "/audio")
	if err != nil {
		return "", fmt.Errorf("failed to upload audio for call %s: %w", callID, err)
	}
	if err := checkStatus(resp); err != nil {
		return "", err
	}
	return result.URL, nil
}

// AudioURL returns the playback URL for a call recording.
func (c *Client) AudioURL(callID string) string {
	return c.http.BaseURL + "/api/calls/" + callID + "/audio"
}
