package hostella

import (
	"context"
	"net/http"

	"github.com/Hostella/service-admin/internal/domain/broadcast"
)

// ListBroadcasts calls GET /broadcasts.
func (c *Client) ListBroadcasts(ctx context.Context) ([]*broadcast.Broadcast, error) {
	var out []*broadcast.Broadcast
	if err := c.do(ctx, request{method: http.MethodGet, path: "/broadcasts"}, &out, "broadcasts"); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateBroadcast calls POST /broadcasts.
func (c *Client) CreateBroadcast(ctx context.Context, d broadcast.Draft) (*broadcast.Broadcast, error) {
	return c.broadcastCall(ctx, request{method: http.MethodPost, path: "/broadcasts", body: d})
}

// ScheduleBroadcast calls POST /broadcasts/schedule.
func (c *Client) ScheduleBroadcast(ctx context.Context, d broadcast.Draft) (*broadcast.Broadcast, error) {
	return c.broadcastCall(ctx, request{method: http.MethodPost, path: "/broadcasts/schedule", body: d})
}

// UpdateBroadcast calls PUT /broadcasts/:id.
func (c *Client) UpdateBroadcast(ctx context.Context, id string, d broadcast.Draft) (*broadcast.Broadcast, error) {
	return c.broadcastCall(ctx, request{method: http.MethodPut, path: pathf("/broadcasts/%s", id), body: d})
}

// DeleteBroadcast calls DELETE /broadcasts/:id.
func (c *Client) DeleteBroadcast(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: pathf("/broadcasts/%s", id)}, nil)
}

// ResendBroadcast calls POST /broadcasts/:id/resend.
func (c *Client) ResendBroadcast(ctx context.Context, id string) (*broadcast.Broadcast, error) {
	return c.broadcastCall(ctx, request{method: http.MethodPost, path: pathf("/broadcasts/%s/resend", id)})
}

func (c *Client) broadcastCall(ctx context.Context, req request) (*broadcast.Broadcast, error) {
	var b broadcast.Broadcast
	if err := c.do(ctx, req, &b, "broadcast"); err != nil {
		return nil, err
	}
	return &b, nil
}
