package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Hostella/service-admin/internal/domain"
	"github.com/Hostella/service-admin/internal/domain/broadcast"
)

// BroadcastService manages announcements to students.
type BroadcastService struct {
	gateway BroadcastGateway
	now     func() time.Time
	logger  *zap.Logger
}

// NewBroadcastService creates a new BroadcastService.
func NewBroadcastService(gateway BroadcastGateway, logger *zap.Logger) *BroadcastService {
	return &BroadcastService{gateway: gateway, now: time.Now, logger: logger}
}

// List returns every broadcast.
func (s *BroadcastService) List(ctx context.Context) ([]*broadcast.Broadcast, error) {
	return s.gateway.ListBroadcasts(ctx)
}

// Create sends a broadcast now, or schedules it when ScheduledAt is set.
func (s *BroadcastService) Create(ctx context.Context, d broadcast.Draft) (*broadcast.Broadcast, error) {
	if d.ScheduledAt != nil {
		return s.Schedule(ctx, d)
	}
	if err := validateStruct(d); err != nil {
		return nil, err
	}
	return s.gateway.CreateBroadcast(ctx, d)
}

// Schedule queues a broadcast for a future time.
func (s *BroadcastService) Schedule(ctx context.Context, d broadcast.Draft) (*broadcast.Broadcast, error) {
	if err := validateStruct(d); err != nil {
		return nil, err
	}
	if err := s.checkSchedule(d); err != nil {
		return nil, err
	}
	return s.gateway.ScheduleBroadcast(ctx, d)
}

// Update edits a broadcast.
func (s *BroadcastService) Update(ctx context.Context, id string, d broadcast.Draft) (*broadcast.Broadcast, error) {
	if err := validateStruct(d); err != nil {
		return nil, err
	}
	if d.ScheduledAt != nil {
		if err := s.checkSchedule(d); err != nil {
			return nil, err
		}
	}
	return s.gateway.UpdateBroadcast(ctx, id, d)
}

// Delete removes a broadcast.
func (s *BroadcastService) Delete(ctx context.Context, id string) error {
	return s.gateway.DeleteBroadcast(ctx, id)
}

// Resend re-sends a broadcast that was sent or failed.
func (s *BroadcastService) Resend(ctx context.Context, id string) (*broadcast.Broadcast, error) {
	b, err := s.gateway.ResendBroadcast(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("broadcast resent", zap.String("broadcast_id", id))
	return b, nil
}

func (s *BroadcastService) checkSchedule(d broadcast.Draft) error {
	if d.ScheduledAt == nil {
		return domain.NewFieldValidationError("scheduledAt", "is required")
	}
	if !d.ScheduledAt.After(s.now()) {
		return domain.NewFieldValidationError("scheduledAt", "must be in the future")
	}
	return nil
}
