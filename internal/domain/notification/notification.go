package notification

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Notification is an admin-facing notice.
type Notification struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message,omitempty"`
	IsRead    bool           `json:"isRead"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// BookingRef returns the booking id, or failing that the display code, the notification
// refers to. Empty when it is not about a booking.
func (n Notification) BookingRef() string {
	for _, key := range []string{"bookingId", "bookingCode"} {
		if v, ok := n.Data[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Feed is the local notification list. Socket delivery is at-least-once, so entries are
// de-duplicated by id on every merge.
type Feed struct {
	mu    sync.RWMutex
	items map[string]Notification
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{items: make(map[string]Notification)}
}

// Merge adds or replaces notifications and returns how many ids were new.
func (f *Feed) Merge(items ...Notification) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	added := 0
	for _, n := range items {
		if n.ID == "" {
			continue
		}
		if _, ok := f.items[n.ID]; !ok {
			added++
		}
		f.items[n.ID] = n
	}
	return added
}

// Replace swaps the feed contents for a fresh server listing.
func (f *Feed) Replace(items []Notification) {
	next := make(map[string]Notification, len(items))
	for _, n := range items {
		if n.ID != "" {
			next[n.ID] = n
		}
	}
	f.mu.Lock()
	f.items = next
	f.mu.Unlock()
}

// MarkRead flags one notification as read.
func (f *Feed) MarkRead(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.items[id]; ok {
		n.IsRead = true
		f.items[id] = n
	}
}

// MarkAllRead flags every notification as read.
func (f *Feed) MarkAllRead() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, n := range f.items {
		n.IsRead = true
		f.items[id] = n
	}
}

// Remove deletes one notification.
func (f *Feed) Remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
}

// List returns notifications newest first.
func (f *Feed) List() []Notification {
	f.mu.RLock()
	out := make([]Notification, 0, len(f.items))
	for _, n := range f.items {
		out = append(out, n)
	}
	f.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// UnreadCount returns the number of unread notifications.
func (f *Feed) UnreadCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	count := 0
	for _, n := range f.items {
		if !n.IsRead {
			count++
		}
	}
	return count
}
