package hostella

import (
	"context"
	"net/http"

	"github.com/Hostella/service-admin/internal/domain/member"
)

// ListMembers calls GET /members.
func (c *Client) ListMembers(ctx context.Context) ([]*member.Member, error) {
	var members []*member.Member
	if err := c.do(ctx, request{method: http.MethodGet, path: "/members"}, &members, "members"); err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateMember calls PATCH /members/:id.
func (c *Client) UpdateMember(ctx context.Context, id string, upd member.Update) (*member.Member, error) {
	var m member.Member
	if err := c.do(ctx, request{method: http.MethodPatch, path: pathf("/members/%s", id), body: upd}, &m, "member"); err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMember calls DELETE /members/:id.
func (c *Client) DeleteMember(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: pathf("/members/%s", id)}, nil)
}

// ReassignRoom calls PATCH /members/:id/reassign-room. The server releases the old room.
func (c *Client) ReassignRoom(ctx context.Context, memberID, roomID string) error {
	return c.do(ctx, request{
		method: http.MethodPatch,
		path:   pathf("/members/%s/reassign-room", memberID),
		body:   map[string]string{"roomId": roomID},
	}, nil)
}

// UnassignRoom calls PATCH /members/:id/unassign-room.
func (c *Client) UnassignRoom(ctx context.Context, memberID string) error {
	return c.do(ctx, request{method: http.MethodPatch, path: pathf("/members/%s/unassign-room", memberID)}, nil)
}
