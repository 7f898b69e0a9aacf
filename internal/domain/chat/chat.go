package chat

import (
	"sort"
	"sync"
	"time"
)

// Message is one chat message between an admin and a student.
type Message struct {
	ID            string    `json:"id"`
	ChatID        string    `json:"chatId"`
	SenderID      string    `json:"senderId"`
	SenderRole    string    `json:"senderRole"`
	Content       string    `json:"content"`
	AttachmentURL string    `json:"attachmentUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Conversation is an open chat as listed for an admin.
type Conversation struct {
	ID            string    `json:"id"`
	StudentID     string    `json:"studentId"`
	StudentName   string    `json:"studentName"`
	Status        string    `json:"status"`
	LastMessage   string    `json:"lastMessage,omitempty"`
	UnreadCount   int       `json:"unreadCount"`
	LastMessageAt time.Time `json:"lastMessageAt"`
}

// Threads holds live messages per chat, de-duplicated by message id.
type Threads struct {
	mu    sync.RWMutex
	chats map[string]map[string]Message
}

// NewThreads creates an empty thread store.
func NewThreads() *Threads {
	return &Threads{chats: make(map[string]map[string]Message)}
}

// Merge adds messages and returns how many were new.
func (t *Threads) Merge(msgs ...Message) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	added := 0
	for _, m := range msgs {
		if m.ID == "" || m.ChatID == "" {
			continue
		}
		thread, ok := t.chats[m.ChatID]
		if !ok {
			thread = make(map[string]Message)
			t.chats[m.ChatID] = thread
		}
		if _, seen := thread[m.ID]; !seen {
			added++
		}
		thread[m.ID] = m
	}
	return added
}

// Messages returns one chat's messages, oldest first.
func (t *Threads) Messages(chatID string) []Message {
	t.mu.RLock()
	out := make([]Message, 0, len(t.chats[chatID]))
	for _, m := range t.chats[chatID] {
		out = append(out, m)
	}
	t.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Drop forgets a closed chat.
func (t *Threads) Drop(chatID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.chats, chatID)
}
