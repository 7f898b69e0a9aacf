package member

import (
	"context"
	"time"
)

// Member is an onboarded resident. The server models members as their own resource, so
// membership is read from it rather than derived from booking status.
type Member struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"bookingId"`
	BookingCode string    `json:"bookingCode,omitempty"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Gender      string    `json:"gender"`
	RoomNumber  *string   `json:"roomNumber,omitempty"`
	FloorNumber *int      `json:"floorNumber,omitempty"`
	HostelName  string    `json:"hostelName,omitempty"`
	OnboardedAt time.Time `json:"onboardedAt"`
}

// HasRoom returns true when the member currently occupies a room.
func (m *Member) HasRoom() bool {
	return m.RoomNumber != nil && *m.RoomNumber != ""
}

// Update holds editable member fields; nil fields are left unchanged.
type Update struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
}

// Repository stores the last server-confirmed member listing.
type Repository interface {
	// FindByBooking returns the member created from a booking, by either id form.
	FindByBooking(ctx context.Context, bookingID, bookingCode string) (*Member, error)

	// List returns all stored members.
	List(ctx context.Context) ([]*Member, error)

	// ReplaceAll swaps the stored set for a fresh server listing.
	ReplaceAll(ctx context.Context, members []*Member) error

	// Delete removes a member.
	Delete(ctx context.Context, id string) error
}
