package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/Hostella/service-admin/internal/domain/notification"
)

// DefaultPollInterval is the notification polling period when none is configured.
const DefaultPollInterval = 2 * time.Minute

// NotificationService keeps the admin notification feed. Socket delivery is merged as it
// arrives, and a poll job fills any gaps the socket missed.
type NotificationService struct {
	gateway  NotificationGateway
	feed     *notification.Feed
	interval time.Duration
	logger   *zap.Logger

	mu        sync.Mutex
	scheduler gocron.Scheduler
	listeners []func(notification.Notification)
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(gateway NotificationGateway, interval time.Duration, logger *zap.Logger) *NotificationService {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &NotificationService{
		gateway:  gateway,
		feed:     notification.NewFeed(),
		interval: interval,
		logger:   logger,
	}
}

// Start schedules the poll job, running it once immediately.
func (s *NotificationService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduler != nil {
		return nil
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.Poll(ctx) }),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule notification poll: %w", err)
	}
	sched.Start()
	s.scheduler = sched
	s.logger.Info("notification polling started", zap.Duration("interval", s.interval))
	return nil
}

// Stop shuts the poll job down.
func (s *NotificationService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scheduler == nil {
		return nil
	}
	err := s.scheduler.Shutdown()
	s.scheduler = nil
	return err
}

// Poll refreshes the feed from upstream. Failures are logged and swallowed.
func (s *NotificationService) Poll(ctx context.Context) {
	items, err := s.gateway.ListNotifications(ctx)
	if err != nil {
		s.logger.Debug("notification poll failed", zap.Error(err))
		return
	}
	s.feed.Replace(items)
}

// OnNotification registers fn for notifications new to the feed.
func (s *NotificationService) OnNotification(fn func(notification.Notification)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// HandleSocket merges a socket-delivered notification. Redelivered ids are ignored.
func (s *NotificationService) HandleSocket(data json.RawMessage) error {
	var n notification.Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode notification: %w", err)
	}
	if s.feed.Merge(n) == 0 {
		return nil
	}
	s.mu.Lock()
	listeners := append([]func(notification.Notification){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(n)
	}
	return nil
}

// List returns the feed newest first.
func (s *NotificationService) List() []notification.Notification {
	return s.feed.List()
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount() int {
	return s.feed.UnreadCount()
}

// MarkRead marks one notification read upstream, then locally.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.gateway.MarkNotificationRead(ctx, id); err != nil {
		return err
	}
	s.feed.MarkRead(id)
	return nil
}

// MarkAllRead marks every notification read upstream, then locally.
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	if err := s.gateway.MarkAllNotificationsRead(ctx); err != nil {
		return err
	}
	s.feed.MarkAllRead()
	return nil
}

// Delete removes a notification upstream, then locally.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	if err := s.gateway.DeleteNotification(ctx, id); err != nil {
		return err
	}
	s.feed.Remove(id)
	return nil
}
