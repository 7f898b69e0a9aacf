package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Hostella/service-admin/internal/domain"
	paymentDomain "github.com/Hostella/service-admin/internal/domain/payment"
	receiptDomain "github.com/Hostella/service-admin/internal/domain/receipt"
)

// ViewReceiptRequest holds the optional note left when opening a receipt.
type ViewReceiptRequest struct {
	Note string `json:"note" validate:"max=500"`
}

// ReceiptReviewDTO is the API response representation of a receipt review.
type ReceiptReviewDTO struct {
	ID         string    `json:"id"`
	PaymentID  string    `json:"paymentId"`
	BookingRef string    `json:"bookingRef,omitempty"`
	Reviewer   string    `json:"reviewer"`
	Note       string    `json:"note,omitempty"`
	ViewedAt   time.Time `json:"viewedAt"`
}

// ReceiptDTO is the receipt viewer payload: the image and who has looked at it.
type ReceiptDTO struct {
	PaymentID   string             `json:"paymentId"`
	Provider    string             `json:"provider"`
	Status      string             `json:"status"`
	Amount      float64            `json:"amount"`
	ReceiptURL  string             `json:"receiptUrl"`
	NeedsReview bool               `json:"needsReview"`
	Reviews     []ReceiptReviewDTO `json:"reviews"`
}

// ReceiptService handles the bank-transfer receipt viewer.
type ReceiptService struct {
	payments PaymentGateway
	repo     receiptDomain.Repository
	logger   *zap.Logger
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(payments PaymentGateway, repo receiptDomain.Repository, logger *zap.Logger) *ReceiptService {
	return &ReceiptService{payments: payments, repo: repo, logger: logger}
}

// ViewReceipt returns a payment's receipt and records that reviewer opened it.
func (s *ReceiptService) ViewReceipt(ctx context.Context, paymentID, reviewer string, req ViewReceiptRequest) (*ReceiptDTO, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	p, err := s.payments.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFoundError("Payment", paymentID)
	}

	review, err := receiptDomain.NewReview(p, reviewer, req.Note)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info("receipt viewed",
		zap.String("payment_id", paymentID),
		zap.String("reviewer", review.Reviewer()),
	)

	reviews, err := s.repo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return toReceiptDTO(p, reviews), nil
}

// Reviews returns every recorded review of a payment's receipt.
func (s *ReceiptService) Reviews(ctx context.Context, paymentID string) ([]ReceiptReviewDTO, error) {
	reviews, err := s.repo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	return toReceiptReviewDTOs(reviews), nil
}

// Reviewed reports whether the payment's receipt has been opened at least once.
func (s *ReceiptService) Reviewed(ctx context.Context, paymentID string) (bool, error) {
	return s.repo.ExistsForPayment(ctx, paymentID)
}

func toReceiptDTO(p *paymentDomain.Payment, reviews []*receiptDomain.Review) *ReceiptDTO {
	return &ReceiptDTO{
		PaymentID:   p.ID,
		Provider:    string(p.Provider),
		Status:      string(p.Status),
		Amount:      p.Amount,
		ReceiptURL:  p.ReceiptURL,
		NeedsReview: p.NeedsReceiptReview(),
		Reviews:     toReceiptReviewDTOs(reviews),
	}
}

func toReceiptReviewDTOs(reviews []*receiptDomain.Review) []ReceiptReviewDTO {
	dtos := make([]ReceiptReviewDTO, len(reviews))
	for i, r := range reviews {
		dtos[i] = ReceiptReviewDTO{
			ID:         r.ID().String(),
			PaymentID:  r.PaymentID(),
			BookingRef: r.BookingRef(),
			Reviewer:   r.Reviewer(),
			Note:       r.Note(),
			ViewedAt:   r.ViewedAt(),
		}
	}
	return dtos
}
