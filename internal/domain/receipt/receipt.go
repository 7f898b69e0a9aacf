package receipt

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hostella/service-admin/internal/domain"
	"github.com/Hostella/service-admin/internal/domain/payment"
)

// Review records that an admin opened a bank-transfer receipt before deciding on the
// payment. Reviews are advisory: confirming without one is allowed.
type Review struct {
	id         uuid.UUID
	paymentID  string
	bookingRef string
	reviewer   string
	receiptURL string
	note       string
	viewedAt   time.Time
	createdAt  time.Time
}

// NewReview creates a review for a payment that carries a receipt image.
func NewReview(p *payment.Payment, reviewer, note string) (*Review, error) {
	if p == nil || p.ID == "" {
		return nil, domain.NewFieldValidationError("paymentId", "is required")
	}
	if p.Provider != payment.ProviderBankTransfer {
		return nil, domain.NewFieldValidationError("provider", "only bank transfers carry a receipt")
	}
	if strings.TrimSpace(p.ReceiptURL) == "" {
		return nil, domain.NewNotFoundError("Receipt", p.ID)
	}
	reviewer = strings.TrimSpace(reviewer)
	if reviewer == "" {
		reviewer = "admin"
	}

	ref := p.BookingID
	if ref == "" {
		ref = p.BookingCode
	}

	now := time.Now().UTC()
	return &Review{
		id:         uuid.New(),
		paymentID:  p.ID,
		bookingRef: ref,
		reviewer:   reviewer,
		receiptURL: p.ReceiptURL,
		note:       strings.TrimSpace(note),
		viewedAt:   now,
		createdAt:  now,
	}, nil
}

// Reconstruct rebuilds a Review from persistence.
func Reconstruct(id uuid.UUID, paymentID, bookingRef, reviewer, receiptURL, note string, viewedAt, createdAt time.Time) *Review {
	return &Review{
		id:         id,
		paymentID:  paymentID,
		bookingRef: bookingRef,
		reviewer:   reviewer,
		receiptURL: receiptURL,
		note:       note,
		viewedAt:   viewedAt,
		createdAt:  createdAt,
	}
}

// Getters.
func (r *Review) ID() uuid.UUID        { return r.id }
func (r *Review) PaymentID() string    { return r.paymentID }
func (r *Review) BookingRef() string   { return r.bookingRef }
func (r *Review) Reviewer() string     { return r.reviewer }
func (r *Review) ReceiptURL() string   { return r.receiptURL }
func (r *Review) Note() string         { return r.note }
func (r *Review) ViewedAt() time.Time  { return r.viewedAt }
func (r *Review) CreatedAt() time.Time { return r.createdAt }

// Repository defines persistence operations for receipt reviews.
type Repository interface {
	Save(ctx context.Context, review *Review) error
	FindByPaymentID(ctx context.Context, paymentID string) ([]*Review, error)
	ExistsForPayment(ctx context.Context, paymentID string) (bool, error)
}
