package booking

import (
	"strings"
	"time"

	"github.com/Hostella/service-admin/internal/domain"
)

// Gender is the occupant gender used for room compatibility.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// IsValid returns true if the gender is recognized.
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// Occupant is the student the booking is for.
type Occupant struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Gender    Gender `json:"gender"`
	Level     string `json:"level"`
	School    string `json:"school"`
	StudentID string `json:"studentId"`
	AvatarURL string `json:"avatar,omitempty"`
}

// FullName returns the occupant's display name.
func (o Occupant) FullName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// AccommodationPreference is the room the student asked for.
type AccommodationPreference struct {
	RoomTitle  string   `json:"roomTitle"`
	RoomType   RoomType `json:"roomType"`
	HostelName string   `json:"hostelName"`
	Price      float64  `json:"price"`
}

// EmergencyContact is the person to reach for the occupant.
type EmergencyContact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

// Medical holds the occupant's declared medical condition.
type Medical struct {
	HasCondition bool   `json:"hasCondition"`
	Condition    string `json:"condition,omitempty"`
}

// Booking is the aggregate root for a student's hostel reservation.
type Booking struct {
	id         string
	code       string
	occupant   Occupant
	preference AccommodationPreference
	emergency  EmergencyContact
	medical    Medical
	status     Status

	allocatedRoomNumber *string
	floorNumber         *int

	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a draft reservation with status PENDING_PAYMENT. The server assigns
// the id and display code when the draft is submitted.
func NewBooking(
	occupant Occupant,
	preference AccommodationPreference,
	emergency EmergencyContact,
	medical Medical,
) (*Booking, error) {
	var fields []domain.FieldError
	add := func(field, msg string) {
		fields = append(fields, domain.FieldError{Field: field, Message: msg})
	}

	if strings.TrimSpace(occupant.FirstName) == "" {
		add("firstName", "is required")
	}
	if strings.TrimSpace(occupant.LastName) == "" {
		add("lastName", "is required")
	}
	if !strings.Contains(occupant.Email, "@") {
		add("email", "must be a valid email address")
	}
	if strings.TrimSpace(occupant.Phone) == "" {
		add("phone", "is required")
	}
	if !occupant.Gender.IsValid() {
		add("gender", "must be male or female")
	}
	if preference.RoomType == "" {
		preference.RoomType = ToAPIRoomType(preference.RoomTitle)
	}
	if !preference.RoomType.IsValid() {
		add("roomType", "must be One-in-one or Two-in-one")
	}
	if strings.TrimSpace(preference.HostelName) == "" {
		add("hostelName", "is required")
	}
	if preference.Price < 0 {
		add("price", "cannot be negative")
	}
	if medical.HasCondition && strings.TrimSpace(medical.Condition) == "" {
		add("medicalCondition", "is required when a condition is declared")
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	if preference.RoomTitle == "" {
		preference.RoomTitle = ToDisplayRoomType(preference.RoomType)
	}
	if !medical.HasCondition {
		medical.Condition = ""
	}

	now := time.Now().UTC()
	return &Booking{
		occupant:   occupant,
		preference: preference,
		emergency:  emergency,
		medical:    medical,
		status:     StatusPendingPayment,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from server or persistence data. The raw status is
// normalized, and a room number reported for a booking still awaiting payment or
// approval is discarded.
func ReconstructBooking(
	id string,
	code string,
	occupant Occupant,
	preference AccommodationPreference,
	emergency EmergencyContact,
	medical Medical,
	rawStatus string,
	allocatedRoomNumber *string,
	floorNumber *int,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	b := &Booking{
		id:                  id,
		code:                code,
		occupant:            occupant,
		preference:          preference,
		emergency:           emergency,
		medical:             medical,
		status:              Normalize(rawStatus),
		allocatedRoomNumber: allocatedRoomNumber,
		floorNumber:         floorNumber,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
	if b.preference.RoomType == "" && b.preference.RoomTitle != "" {
		b.preference.RoomType = ToAPIRoomType(b.preference.RoomTitle)
	}
	if b.preference.RoomTitle == "" && b.preference.RoomType != "" {
		b.preference.RoomTitle = ToDisplayRoomType(b.preference.RoomType)
	}
	if b.allocatedRoomNumber != nil && strings.TrimSpace(*b.allocatedRoomNumber) == "" {
		b.allocatedRoomNumber = nil
	}
	b.enforceRoomInvariant()
	return b
}

// --- Getters ---

// ID returns the server-assigned identifier, empty for drafts.
func (b *Booking) ID() string { return b.id }

// Code returns the display booking code, e.g. BK-1234.
func (b *Booking) Code() string { return b.code }

// Occupant returns the student data.
func (b *Booking) Occupant() Occupant { return b.occupant }

// Preference returns the accommodation preference.
func (b *Booking) Preference() AccommodationPreference { return b.preference }

// Emergency returns the emergency contact.
func (b *Booking) Emergency() EmergencyContact { return b.emergency }

// Medical returns the medical declaration.
func (b *Booking) Medical() Medical { return b.medical }

// Status returns the canonical status.
func (b *Booking) Status() Status { return b.status }

// AllocatedRoomNumber returns the committed room number, or nil.
func (b *Booking) AllocatedRoomNumber() *string { return b.allocatedRoomNumber }

// HasAllocatedRoom returns true once a room number is committed.
func (b *Booking) HasAllocatedRoom() bool { return b.allocatedRoomNumber != nil }

// FloorNumber returns the server-supplied floor, or nil.
func (b *Booking) FloorNumber() *int { return b.floorNumber }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

func (b *Booking) enforceRoomInvariant() {
	if !b.status.HoldsRoom() {
		b.allocatedRoomNumber = nil
		b.floorNumber = nil
	}
}
