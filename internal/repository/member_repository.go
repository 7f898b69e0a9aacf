package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Hostella/service-admin/internal/domain"
	memberDomain "github.com/Hostella/service-admin/internal/domain/member"
)

// MemberModel is the GORM model for the members snapshot table.
type MemberModel struct {
	ID          string  `gorm:"primaryKey;size:64"`
	BookingID   string  `gorm:"index;size:64"`
	BookingCode string  `gorm:"index;size:32"`
	FirstName   string  `gorm:"size:100"`
	LastName    string  `gorm:"size:100"`
	Email       string  `gorm:"size:200"`
	Phone       string  `gorm:"size:30"`
	Gender      string  `gorm:"size:10"`
	RoomNumber  *string `gorm:"size:32"`
	FloorNumber *int
	HostelName  string    `gorm:"size:200"`
	OnboardedAt time.Time `gorm:"index"`
}

// TableName returns the table name for the GORM model.
func (MemberModel) TableName() string {
	return "members"
}

// GormMemberRepository is the GORM-based implementation of member.Repository.
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository.
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByBooking returns the member created from a booking, by either id form.
func (r *GormMemberRepository) FindByBooking(ctx context.Context, bookingID, bookingCode string) (*memberDomain.Member, error) {
	var model MemberModel
	err := r.db.WithContext(ctx).
		Where("(booking_id <> '' AND booking_id IN ?) OR (booking_code <> '' AND booking_code IN ?)",
			[]string{bookingID, bookingCode}, []string{bookingID, bookingCode}).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Member", bookingID)
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return toDomainMember(&model), nil
}

// List returns all stored members, most recently onboarded first.
func (r *GormMemberRepository) List(ctx context.Context) ([]*memberDomain.Member, error) {
	var models []MemberModel
	if err := r.db.WithContext(ctx).Order("onboarded_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	members := make([]*memberDomain.Member, len(models))
	for i := range models {
		members[i] = toDomainMember(&models[i])
	}
	return members, nil
}

// ReplaceAll swaps the stored set for a fresh server listing in one transaction.
func (r *GormMemberRepository) ReplaceAll(ctx context.Context, members []*memberDomain.Member) error {
	models := make([]*MemberModel, 0, len(members))
	for _, m := range members {
		if m.ID == "" {
			continue
		}
		models = append(models, toMemberModel(m))
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&MemberModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear members: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if err := upsert(tx, models); err != nil {
			return fmt.Errorf("failed to store members: %w", err)
		}
		return nil
	})
}

// Delete removes a member.
func (r *GormMemberRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&MemberModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}

func toMemberModel(m *memberDomain.Member) *MemberModel {
	return &MemberModel{
		ID:          m.ID,
		BookingID:   m.BookingID,
		BookingCode: m.BookingCode,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.Email,
		Phone:       m.Phone,
		Gender:      m.Gender,
		RoomNumber:  m.RoomNumber,
		FloorNumber: m.FloorNumber,
		HostelName:  m.HostelName,
		OnboardedAt: m.OnboardedAt,
	}
}

func toDomainMember(m *MemberModel) *memberDomain.Member {
	return &memberDomain.Member{
		ID:          m.ID,
		BookingID:   m.BookingID,
		BookingCode: m.BookingCode,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Email:       m.Email,
		Phone:       m.Phone,
		Gender:      m.Gender,
		RoomNumber:  m.RoomNumber,
		FloorNumber: m.FloorNumber,
		HostelName:  m.HostelName,
		OnboardedAt: m.OnboardedAt,
	}
}

// Models lists every snapshot model for auto-migration.
func Models() []interface{} {
	return []interface{}{&BookingModel{}, &PaymentModel{}, &MemberModel{}, &ReceiptReviewModel{}}
}
