package client

import (
	"context"

	"github.com/darmiel/checkin/internal/api"
	"github.com/darmiel/checkin/internal/core"
)

type ListAuditsOpts struct {
	Limit uint

	CorrelationID string
	Action        string
	Identity      string
	Fingerprint   string
}

// ListAudits retrieves the latest audit entries from the server, limited to the specified number.
func (c *Client) ListAudits(ctx context.Context, opts ListAuditsOpts) ([]core.AuditEntry, string, error) {
	ub := c.url().setPath(api.ListAuditsRoute)
	if opts.Limit > 0 {
		ub = ub.addQueryParam("limit", opts.Limit)
	}
	if opts.CorrelationID != "" {
		ub = ub.addQueryParam("correlation_id", opts.CorrelationID)
	}
	if opts.Action != "" {
		ub = ub.addQueryParam("action", opts.Action)
	}
	if opts.Identity != "" {
		ub = ub.addQueryParam("identity", opts.Identity)
	}
	if opts.Fingerprint != "" {
		ub = ub.addQueryParam("fingerprint", opts.Fingerprint)
	}
	var resp []core.AuditEntry
	correlation, err := c.get(ctx, ub.build(), &resp)
	return resp, correlation, err
}
