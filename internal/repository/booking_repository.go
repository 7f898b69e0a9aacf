package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Hostella/service-admin/internal/domain"
	bookingDomain "github.com/Hostella/service-admin/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings snapshot table.
type BookingModel struct {
	ID                  string         `gorm:"primaryKey;size:64"`
	Code                string         `gorm:"index;size:32"`
	Status              string         `gorm:"not null;size:40;index"`
	Gender              string         `gorm:"size:10;index"`
	Occupant            datatypes.JSON `gorm:"not null"`
	Preference          datatypes.JSON `gorm:"not null"`
	Emergency           datatypes.JSON
	Medical             datatypes.JSON
	AllocatedRoomNumber *string `gorm:"size:32"`
	FloorNumber         *int
	CreatedAt           time.Time `gorm:"not null;index"`
	UpdatedAt           time.Time `gorm:"not null"`
	SyncedAt            time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of booking.Repository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its internal id.
func (r *GormBookingRepository) FindByID(ctx context.Context, id string) (*bookingDomain.Booking, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByCode retrieves a booking by its display code.
func (r *GormBookingRepository) FindByCode(ctx context.Context, code string) (*bookingDomain.Booking, error) {
	return r.findOne(ctx, "code = ?", code)
}

func (r *GormBookingRepository) findOne(ctx context.Context, where string, key string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where(where, key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", key)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return toDomainBooking(&model)
}

// List returns bookings accepted by the filter, newest first. Status and gender are
// filtered in SQL; free-text search runs over the decoded rows.
func (r *GormBookingRepository) List(ctx context.Context, filter bookingDomain.Filter) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).Model(&BookingModel{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(bookingDomain.Normalize(filter.Status)))
	}
	if filter.Gender != "" {
		q = q.Where("gender = ?", string(filter.Gender))
	}

	var models []BookingModel
	if err := q.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, 0, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, bk)
	}
	return filter.Apply(bookings), nil
}

// CountByStatus returns booking counts grouped by canonical status.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[bookingDomain.Status]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[bookingDomain.Status]int64, len(bookingDomain.Statuses))
	for _, s := range bookingDomain.Statuses {
		counts[s] = 0
	}
	for _, sc := range results {
		counts[bookingDomain.Normalize(sc.Status)] += sc.Count
	}
	return counts, nil
}

// Upsert stores the server's view of a booking.
func (r *GormBookingRepository) Upsert(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}
	if err := upsert(r.db.WithContext(ctx), model); err != nil {
		return fmt.Errorf("failed to upsert booking: %w", err)
	}
	return nil
}

// ReplaceAll swaps the stored set for a fresh server listing in one transaction.
func (r *GormBookingRepository) ReplaceAll(ctx context.Context, bookings []*bookingDomain.Booking) error {
	models := make([]*BookingModel, 0, len(bookings))
	for _, bk := range bookings {
		m, err := toBookingModel(bk)
		if err != nil {
			return fmt.Errorf("failed to convert booking to model: %w", err)
		}
		models = append(models, m)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&BookingModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear bookings: %w", err)
		}
		if len(models) == 0 {
			return nil
		}
		if err := upsert(tx, models); err != nil {
			return fmt.Errorf("failed to store bookings: %w", err)
		}
		return nil
	})
}

// Delete removes a booking the server deleted.
func (r *GormBookingRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BookingModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}

func upsert(db *gorm.DB, value interface{}) error {
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(value).Error
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	if bk.ID() == "" {
		return nil, domain.NewFieldValidationError("id", "is required to store a booking")
	}
	occupantJSON, err := json.Marshal(bk.Occupant())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal occupant: %w", err)
	}
	preferenceJSON, err := json.Marshal(bk.Preference())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preference: %w", err)
	}
	emergencyJSON, err := json.Marshal(bk.Emergency())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal emergency contact: %w", err)
	}
	medicalJSON, err := json.Marshal(bk.Medical())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal medical: %w", err)
	}

	createdAt := bk.CreatedAt()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := bk.UpdatedAt()
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	return &BookingModel{
		ID:                  bk.ID(),
		Code:                bk.Code(),
		Status:              string(bk.Status()),
		Gender:              string(bk.Occupant().Gender),
		Occupant:            datatypes.JSON(occupantJSON),
		Preference:          datatypes.JSON(preferenceJSON),
		Emergency:           datatypes.JSON(emergencyJSON),
		Medical:             datatypes.JSON(medicalJSON),
		AllocatedRoomNumber: bk.AllocatedRoomNumber(),
		FloorNumber:         bk.FloorNumber(),
		CreatedAt:           createdAt,
		UpdatedAt:           updatedAt,
		SyncedAt:            time.Now().UTC(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var occupant bookingDomain.Occupant
	if err := json.Unmarshal(m.Occupant, &occupant); err != nil {
		return nil, fmt.Errorf("failed to unmarshal occupant: %w", err)
	}
	var preference bookingDomain.AccommodationPreference
	if err := json.Unmarshal(m.Preference, &preference); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preference: %w", err)
	}
	var emergency bookingDomain.EmergencyContact
	if len(m.Emergency) > 0 {
		if err := json.Unmarshal(m.Emergency, &emergency); err != nil {
			return nil, fmt.Errorf("failed to unmarshal emergency contact: %w", err)
		}
	}
	var medical bookingDomain.Medical
	if len(m.Medical) > 0 {
		if err := json.Unmarshal(m.Medical, &medical); err != nil {
			return nil, fmt.Errorf("failed to unmarshal medical: %w", err)
		}
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.Code,
		occupant,
		preference,
		emergency,
		medical,
		m.Status,
		m.AllocatedRoomNumber,
		m.FloorNumber,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
