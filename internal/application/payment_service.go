package application

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Hostella/service-admin/internal/domain"
	bookingDomain "github.com/Hostella/service-admin/internal/domain/booking"
	paymentDomain "github.com/Hostella/service-admin/internal/domain/payment"
)

// VerifyPaymentRequest is the admin's decision on a pending payment.
type VerifyPaymentRequest struct {
	Status string `json:"status" validate:"required,oneof=CONFIRMED FAILED"`
}

// VerifyResult is the payment after verification and the booking as refetched.
// ReceiptUnreviewed flags a bank transfer confirmed without anyone opening its receipt.
type VerifyResult struct {
	Payment           *paymentDomain.Payment `json:"payment"`
	Booking           *BookingDTO            `json:"booking,omitempty"`
	ReceiptUnreviewed bool                   `json:"receiptUnreviewed,omitempty"`
}

// ReviewChecker reports whether a payment's receipt has been opened.
type ReviewChecker interface {
	Reviewed(ctx context.Context, paymentID string) (bool, error)
}

// PaymentOption configures a PaymentService.
type PaymentOption func(*PaymentService)

// WithReceiptReviews enables the unreviewed-receipt flag on verification results.
func WithReceiptReviews(checker ReviewChecker) PaymentOption {
	return func(s *PaymentService) { s.reviews = checker }
}

// PaymentVerifiedEvent is the payload of an EventPaymentVerified audit event.
type PaymentVerifiedEvent struct {
	PaymentID  string    `json:"paymentId"`
	BookingID  string    `json:"bookingId,omitempty"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

// PaymentService handles payment review.
type PaymentService struct {
	payments    PaymentGateway
	bookings    BookingGateway
	paymentRepo paymentDomain.Repository
	bookingRepo bookingDomain.Repository
	inflight    *InFlight
	publisher   EventPublisher
	reviews     ReviewChecker
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	payments PaymentGateway,
	bookings BookingGateway,
	paymentRepo paymentDomain.Repository,
	bookingRepo bookingDomain.Repository,
	publisher EventPublisher,
	logger *zap.Logger,
	opts ...PaymentOption,
) *PaymentService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	s := &PaymentService{
		payments:    payments,
		bookings:    bookings,
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		inflight:    NewInFlight(),
		publisher:   publisher,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PendingPayments merges every pending provider/status listing into one feed. Each item
// keeps the provider and status of the query it came from.
func (s *PaymentService) PendingPayments(ctx context.Context) ([]*paymentDomain.Payment, error) {
	queries := paymentDomain.PendingQueries()
	batches := make([][]*paymentDomain.Payment, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			batch, err := s.payments.ListPayments(gctx, q)
			if err != nil {
				return err
			}
			for _, p := range batch {
				q.Tag(p)
			}
			batches[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paymentDomain.MergePending(batches...), nil
}

// GetPayment fetches one payment.
func (s *PaymentService) GetPayment(ctx context.Context, id string) (*paymentDomain.Payment, error) {
	p, err := s.payments.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(ctx, p)
	return p, nil
}

// VerifyPayment moves a pending payment to CONFIRMED or FAILED. The booking cascade is
// owned upstream, so the booking is refetched rather than advanced locally.
func (s *PaymentService) VerifyPayment(ctx context.Context, paymentID string, req VerifyPaymentRequest) (*VerifyResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	target := paymentDomain.Status(req.Status)

	release, err := s.inflight.Acquire("verify-payment-" + paymentID)
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := s.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := current.Verify(target); err != nil {
		return nil, err
	}
	unreviewed := s.unreviewedReceipt(ctx, current, target)

	updated, err := s.payments.UpdatePaymentStatus(ctx, paymentID, target)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		updated = current
		updated.Status = target
	}
	s.store(ctx, updated)

	result := &VerifyResult{Payment: updated, ReceiptUnreviewed: unreviewed}
	if bk := s.refetchBooking(ctx, updated); bk != nil {
		dto := toBookingDTO(bk)
		result.Booking = &dto
	}

	if err := s.publisher.Publish(ctx, EventPaymentVerified, paymentID, PaymentVerifiedEvent{
		PaymentID:  paymentID,
		BookingID:  firstNonEmpty(updated.BookingID, updated.BookingCode),
		Status:     string(target),
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		s.logger.Error("failed to publish event", zap.String("event_type", EventPaymentVerified), zap.Error(err))
	}

	s.logger.Info("payment verified",
		zap.String("payment_id", paymentID),
		zap.String("status", string(target)),
	)
	return result, nil
}

// VerifyPaystack checks a Paystack reference upstream.
func (s *PaymentService) VerifyPaystack(ctx context.Context, reference string) (*paymentDomain.Payment, error) {
	if reference == "" {
		return nil, domain.NewFieldValidationError("reference", "is required")
	}
	p, err := s.payments.VerifyPaystack(ctx, reference)
	if err != nil {
		return nil, err
	}
	s.store(ctx, p)
	return p, nil
}

// refetchBooking reloads the payment's booking, resolving a display code through the
// snapshot when the payment carries no internal id.
func (s *PaymentService) refetchBooking(ctx context.Context, p *paymentDomain.Payment) *bookingDomain.Booking {
	id := p.BookingID
	if id == "" && p.BookingCode != "" {
		if bk, err := s.bookingRepo.FindByCode(ctx, p.BookingCode); err == nil {
			id = bk.ID()
		}
	}
	if id == "" {
		return nil
	}

	bk, err := s.bookings.GetBooking(ctx, id)
	if err != nil || bk == nil {
		s.logger.Warn("booking refetch after verification failed", zap.String("booking_id", id), zap.Error(err))
		return nil
	}
	if err := s.bookingRepo.Upsert(ctx, bk); err != nil {
		s.logger.Warn("failed to store booking snapshot", zap.String("booking_id", id), zap.Error(err))
	}
	return bk
}

// unreviewedReceipt is true when a bank-transfer receipt is being confirmed unseen. Lookup
// failures are ignored; the flag is advisory.
func (s *PaymentService) unreviewedReceipt(ctx context.Context, p *paymentDomain.Payment, target paymentDomain.Status) bool {
	if s.reviews == nil || target != paymentDomain.StatusConfirmed || !p.NeedsReceiptReview() {
		return false
	}
	seen, err := s.reviews.Reviewed(ctx, p.ID)
	if err != nil {
		s.logger.Debug("receipt review lookup failed", zap.String("payment_id", p.ID), zap.Error(err))
		return false
	}
	return !seen
}

func (s *PaymentService) store(ctx context.Context, p *paymentDomain.Payment) {
	if p == nil || p.ID == "" {
		return
	}
	if err := s.paymentRepo.Upsert(ctx, p); err != nil {
		s.logger.Warn("failed to store payment snapshot", zap.String("payment_id", p.ID), zap.Error(err))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
