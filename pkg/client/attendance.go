package client

import (
	"context"

	"github.com/darmiel/checkin/internal/api"
	"github.com/darmiel/checkin/internal/attendance"
)

// ListAttendance retrieves recorded check-ins, most recent first. An empty identity lists all presenters.
func (c *Client) ListAttendance(ctx context.Context, identity string, limit uint) ([]attendance.Record, string, error) {
	ub := c.url().setPath(api.ListAttendanceRoute)
	if identity != "" {
		ub = ub.addQueryParam("identity", identity)
	}
	if limit > 0 {
		ub = ub.addQueryParam("limit", limit)
	}
	var resp []attendance.Record
	correlation, err := c.get(ctx, ub.build(), &resp)
	return resp, correlation, err
}
