package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	receiptDomain "github.com/Hostella/service-admin/internal/domain/receipt"
)

// ReceiptReviewModel is the GORM model for the receipt_reviews table.
type ReceiptReviewModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	PaymentID  string    `gorm:"size:64;not null;index"`
	BookingRef string    `gorm:"size:64;index"`
	Reviewer   string    `gorm:"size:255;not null"`
	ReceiptURL string    `gorm:"size:500;not null"`
	Note       string    `gorm:"type:text"`
	ViewedAt   time.Time `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (ReceiptReviewModel) TableName() string { return "receipt_reviews" }

// GormReceiptRepository implements receipt.Repository using GORM.
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository.
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// Save persists a new receipt review.
func (r *GormReceiptRepository) Save(ctx context.Context, review *receiptDomain.Review) error {
	model := toReceiptReviewModel(review)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByPaymentID returns every review of a payment's receipt, oldest first.
func (r *GormReceiptRepository) FindByPaymentID(ctx context.Context, paymentID string) ([]*receiptDomain.Review, error) {
	var models []ReceiptReviewModel
	if err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).Order("viewed_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list receipt reviews: %w", err)
	}

	reviews := make([]*receiptDomain.Review, 0, len(models))
	for i := range models {
		rv, err := toReceiptReviewDomain(&models[i])
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, nil
}

// ExistsForPayment reports whether anyone has opened the payment's receipt.
func (r *GormReceiptRepository) ExistsForPayment(ctx context.Context, paymentID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ReceiptReviewModel{}).Where("payment_id = ?", paymentID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count receipt reviews: %w", err)
	}
	return count > 0, nil
}

func toReceiptReviewModel(rv *receiptDomain.Review) ReceiptReviewModel {
	return ReceiptReviewModel{
		ID:         rv.ID().String(),
		PaymentID:  rv.PaymentID(),
		BookingRef: rv.BookingRef(),
		Reviewer:   rv.Reviewer(),
		ReceiptURL: rv.ReceiptURL(),
		Note:       rv.Note(),
		ViewedAt:   rv.ViewedAt(),
		CreatedAt:  rv.CreatedAt(),
	}
}

func toReceiptReviewDomain(m *ReceiptReviewModel) (*receiptDomain.Review, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid receipt review id %q: %w", m.ID, err)
	}
	return receiptDomain.Reconstruct(
		id,
		m.PaymentID,
		m.BookingRef,
		m.Reviewer,
		m.ReceiptURL,
		m.Note,
		m.ViewedAt,
		m.CreatedAt,
	), nil
}
