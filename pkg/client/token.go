package client

import (
	"context"

	"github.com/darmiel/checkin/internal/api"
)

// IssueToken requests a new attendance token for the client's session.
func (c *Client) IssueToken(ctx context.Context) (string, string, error) {
	var resp api.IssueResponse
	correlation, err := c.get(ctx, c.url().
		setPath(api.IssueTokenRoute).
		build(), &resp)
	if err != nil {
		return "", correlation, err
	}
	return resp.Token, correlation, nil
}

// Register submits a scanned token and returns the check-in result.
func (c *Client) Register(ctx context.Context, token string) (*api.RegisterResponse, string, error) {
	var resp api.RegisterResponse
	correlation, err := c.get(ctx, c.url().
		setPath(api.RegisterRoute).
		addQueryParam("token", token).
		build(), &resp)
	if err != nil {
		return nil, correlation, err
	}
	return &resp, correlation, nil
}

// RegisterURL returns the URL a scannable code should encode for token.
func (c *Client) RegisterURL(token string) string {
	return c.url().
		setPath(api.RegisterRoute).
		addQueryParam("token", token).
		build()
}
