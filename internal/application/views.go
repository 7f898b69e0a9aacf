package application

import (
	"time"

	"github.com/Hostella/service-admin/internal/domain/booking"
	"github.com/Hostella/service-admin/internal/domain/member"
	"github.com/Hostella/service-admin/internal/domain/payment"
	"github.com/Hostella/service-admin/internal/domain/room"
)

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                  string                          `json:"id"`
	Code                string                          `json:"bookingCode,omitempty"`
	Status              string                          `json:"status"`
	StatusLabel         string                          `json:"statusLabel"`
	Occupant            booking.Occupant                `json:"occupant"`
	Preference          booking.AccommodationPreference `json:"preference"`
	Emergency           booking.EmergencyContact        `json:"emergencyContact"`
	Medical             booking.Medical                 `json:"medical"`
	AllocatedRoomNumber *string                         `json:"allocatedRoomNumber,omitempty"`
	FloorNumber         *int                            `json:"floorNumber,omitempty"`
	CreatedAt           time.Time                       `json:"createdAt"`
	UpdatedAt           time.Time                       `json:"updatedAt"`
}

// BookingView is a booking with the state its actions derive from.
type BookingView struct {
	Booking BookingDTO       `json:"booking"`
	Payment *payment.Payment `json:"payment,omitempty"`
	Member  *member.Member   `json:"member,omitempty"`
	Actions []string         `json:"actions"`
	// InFlight lists offered actions whose previous submission is still running.
	InFlight []string `json:"inFlight,omitempty"`
}

// RoomSelectionView is the suitable-rooms picker for one booking.
type RoomSelectionView struct {
	BookingID string               `json:"bookingId"`
	Mode      room.Mode            `json:"mode"`
	Empty     bool                 `json:"empty"`
	Groups    []room.CapacityGroup `json:"groups"`
	Rooms     []room.Room          `json:"rooms"`
}

// BookingStatsDTO holds counts per canonical status.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"totalBookings"`
	ByStatus      map[string]int64 `json:"byStatus"`
}

func toBookingDTO(bk *booking.Booking) BookingDTO {
	return BookingDTO{
		ID:                  bk.ID(),
		Code:                bk.Code(),
		Status:              string(bk.Status()),
		StatusLabel:         bk.Status().Display(),
		Occupant:            bk.Occupant(),
		Preference:          bk.Preference(),
		Emergency:           bk.Emergency(),
		Medical:             bk.Medical(),
		AllocatedRoomNumber: bk.AllocatedRoomNumber(),
		FloorNumber:         bk.FloorNumber(),
		CreatedAt:           bk.CreatedAt(),
		UpdatedAt:           bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*booking.Booking) []BookingDTO {
	out := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		out[i] = toBookingDTO(bk)
	}
	return out
}
