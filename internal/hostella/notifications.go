package hostella

import (
	"context"
	"net/http"

	"github.com/Hostella/service-admin/internal/domain/notification"
)

// ListNotifications calls GET /notifications.
func (c *Client) ListNotifications(ctx context.Context) ([]notification.Notification, error) {
	var out []notification.Notification
	if err := c.do(ctx, request{method: http.MethodGet, path: "/notifications"}, &out, "notifications"); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationRead calls POST /notifications/:id/read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodPost, path: pathf("/notifications/%s/read", id)}, nil)
}

// MarkAllNotificationsRead calls POST /notifications/mark-all-read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/notifications/mark-all-read"}, nil)
}

// DeleteNotification calls DELETE /notifications/:id.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: pathf("/notifications/%s", id)}, nil)
}
