package application

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/Hostella/service-admin/internal/domain"
	"github.com/Hostella/service-admin/internal/domain/chat"
)

// MaxAttachmentBytes caps chat attachment uploads.
const MaxAttachmentBytes = 10 << 20

// ChatService handles admin support chats.
type ChatService struct {
	gateway ChatGateway
	threads *chat.Threads
	logger  *zap.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(gateway ChatGateway, logger *zap.Logger) *ChatService {
	return &ChatService{gateway: gateway, threads: chat.NewThreads(), logger: logger}
}

// ActiveChats lists open conversations.
func (s *ChatService) ActiveChats(ctx context.Context) ([]chat.Conversation, error) {
	return s.gateway.ActiveChats(ctx)
}

// Messages fetches a conversation and merges it with socket-delivered messages.
func (s *ChatService) Messages(ctx context.Context, chatID string) ([]chat.Message, error) {
	msgs, err := s.gateway.ChatMessages(ctx, chatID)
	if err != nil {
		return nil, err
	}
	for i := range msgs {
		if msgs[i].ChatID == "" {
			msgs[i].ChatID = chatID
		}
	}
	s.threads.Merge(msgs...)
	return s.threads.Messages(chatID), nil
}

// Send posts a text message.
func (s *ChatService) Send(ctx context.Context, chatID, content string) (*chat.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.NewFieldValidationError("content", "is required")
	}
	m, err := s.gateway.SendChatMessage(ctx, chatID, content)
	if err != nil {
		return nil, err
	}
	s.merge(chatID, m)
	return m, nil
}

// Attach uploads a file into the conversation.
func (s *ChatService) Attach(ctx context.Context, chatID, filename string, size int64, file io.Reader) (*chat.Message, error) {
	if filename == "" {
		return nil, domain.NewFieldValidationError("file", "is required")
	}
	if size > MaxAttachmentBytes {
		return nil, domain.NewFieldValidationError("file", fmt.Sprintf("must be at most %d MB", MaxAttachmentBytes>>20))
	}
	m, err := s.gateway.UploadChatAttachment(ctx, chatID, filename, file)
	if err != nil {
		return nil, err
	}
	s.merge(chatID, m)
	return m, nil
}

// Close ends a conversation and forgets its local messages.
func (s *ChatService) Close(ctx context.Context, chatID string) error {
	if err := s.gateway.CloseChat(ctx, chatID); err != nil {
		return err
	}
	s.threads.Drop(chatID)
	return nil
}

// HandleSocket merges a socket-delivered message. Redelivered ids are ignored.
func (s *ChatService) HandleSocket(data json.RawMessage) error {
	var m chat.Message
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to decode chat message: %w", err)
	}
	if m.ChatID == "" {
		return domain.NewFieldValidationError("chatId", "is required")
	}
	s.threads.Merge(m)
	return nil
}

func (s *ChatService) merge(chatID string, m *chat.Message) {
	if m == nil {
		return
	}
	if m.ChatID == "" {
		m.ChatID = chatID
	}
	s.threads.Merge(*m)
}
