package hostella

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Hostella/service-admin/internal/domain/chat"
)

// ChatMessages calls GET /chat/:id/messages.
func (c *Client) ChatMessages(ctx context.Context, chatID string) ([]chat.Message, error) {
	var out []chat.Message
	if err := c.do(ctx, request{method: http.MethodGet, path: pathf("/chat/%s/messages", chatID)}, &out, "messages"); err != nil {
		return nil, err
	}
	return out, nil
}

// SendChatMessage calls POST /chat/:id/messages.
func (c *Client) SendChatMessage(ctx context.Context, chatID, content string) (*chat.Message, error) {
	var m chat.Message
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   pathf("/chat/%s/messages", chatID),
		body:   map[string]string{"content": content},
	}, &m, "message")
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UploadChatAttachment calls POST /chat/:id/attachments with a multipart file field.
func (c *Client) UploadChatAttachment(ctx context.Context, chatID, filename string, file io.Reader) (*chat.Message, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy attachment: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	var m chat.Message
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        pathf("/chat/%s/attachments", chatID),
		rawBody:     &buf,
		contentType: mw.FormDataContentType(),
	}, &m, "message")
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CloseChat calls PATCH /chat/:id/close.
func (c *Client) CloseChat(ctx context.Context, chatID string) error {
	return c.do(ctx, request{method: http.MethodPatch, path: pathf("/chat/%s/close", chatID)}, nil)
}

// ActiveChats calls GET /chat/admin/active-chats.
func (c *Client) ActiveChats(ctx context.Context) ([]chat.Conversation, error) {
	var out []chat.Conversation
	if err := c.do(ctx, request{method: http.MethodGet, path: "/chat/admin/active-chats"}, &out, "chats"); err != nil {
		return nil, err
	}
	return out, nil
}
