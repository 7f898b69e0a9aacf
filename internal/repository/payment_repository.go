package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Hostella/service-admin/internal/domain"
	paymentDomain "github.com/Hostella/service-admin/internal/domain/payment"
)

// PaymentModel is the GORM model for the payments snapshot table.
type PaymentModel struct {
	ID           string  `gorm:"primaryKey;size:64"`
	BookingID    string  `gorm:"index;size:64"`
	BookingCode  string  `gorm:"index;size:32"`
	Provider     string  `gorm:"size:20;index"`
	Status       string  `gorm:"size:30;index"`
	Amount       float64 `gorm:"not null;default:0"`
	Currency     string  `gorm:"size:3"`
	ReceiptURL   string  `gorm:"size:500"`
	Reference    string  `gorm:"size:100;index"`
	Verification datatypes.JSON
	CreatedAt    time.Time `gorm:"not null;index"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PaymentModel) TableName() string {
	return "payments"
}

// GormPaymentRepository is the GORM-based implementation of payment.Repository.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository.
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID retrieves a payment by id.
func (r *GormPaymentRepository) FindByID(ctx context.Context, id string) (*paymentDomain.Payment, error) {
	var model PaymentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Payment", id)
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return toDomainPayment(&model), nil
}

// FindByBooking returns payments referencing the booking by either id form, newest first.
func (r *GormPaymentRepository) FindByBooking(ctx context.Context, bookingID, bookingCode string) ([]*paymentDomain.Payment, error) {
	keys := make([]string, 0, 2)
	for _, k := range []string{bookingID, bookingCode} {
		if k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}

	var models []PaymentModel
	if err := r.db.WithContext(ctx).
		Where("booking_id IN ? OR booking_code IN ?", keys, keys).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find booking payments: %w", err)
	}

	payments := make([]*paymentDomain.Payment, len(models))
	for i := range models {
		payments[i] = toDomainPayment(&models[i])
	}
	return payments, nil
}

// Upsert stores the server's view of a payment.
func (r *GormPaymentRepository) Upsert(ctx context.Context, p *paymentDomain.Payment) error {
	if p.ID == "" {
		return domain.NewFieldValidationError("id", "is required to store a payment")
	}
	if err := upsert(r.db.WithContext(ctx), toPaymentModel(p)); err != nil {
		return fmt.Errorf("failed to upsert payment: %w", err)
	}
	return nil
}

func toPaymentModel(p *paymentDomain.Payment) *PaymentModel {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return &PaymentModel{
		ID:           p.ID,
		BookingID:    p.BookingID,
		BookingCode:  p.BookingCode,
		Provider:     string(p.Provider),
		Status:       string(p.Status),
		Amount:       p.Amount,
		Currency:     p.Currency,
		ReceiptURL:   p.ReceiptURL,
		Reference:    p.Reference,
		Verification: datatypes.JSON(p.Verification),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

func toDomainPayment(m *PaymentModel) *paymentDomain.Payment {
	return &paymentDomain.Payment{
		ID:           m.ID,
		BookingID:    m.BookingID,
		BookingCode:  m.BookingCode,
		Provider:     paymentDomain.Provider(m.Provider),
		Status:       paymentDomain.Status(m.Status),
		Amount:       m.Amount,
		Currency:     m.Currency,
		ReceiptURL:   m.ReceiptURL,
		Reference:    m.Reference,
		Verification: []byte(m.Verification),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
