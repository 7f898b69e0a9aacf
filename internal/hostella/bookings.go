package hostella

import (
	"context"
	"net/http"
	"time"

	"github.com/Hostella/service-admin/internal/domain/booking"
	"github.com/Hostella/service-admin/internal/domain/room"
)

// BookingDTO is the booking as the API sends and accepts it.
type BookingDTO struct {
	ID                     string    `json:"id,omitempty"`
	BookingCode            string    `json:"bookingId,omitempty"`
	FirstName              string    `json:"firstName"`
	LastName               string    `json:"lastName"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone"`
	Gender                 string    `json:"gender"`
	Level                  string    `json:"level,omitempty"`
	School                 string    `json:"school,omitempty"`
	StudentID              string    `json:"studentId,omitempty"`
	Avatar                 string    `json:"avatar,omitempty"`
	HostelName             string    `json:"hostelName"`
	RoomTitle              string    `json:"roomTitle,omitempty"`
	RoomType               string    `json:"roomType,omitempty"`
	Price                  float64   `json:"price,omitempty"`
	EmergencyContactName   string    `json:"emergencyContactName,omitempty"`
	EmergencyContactNumber string    `json:"emergencyContactNumber,omitempty"`
	Relation               string    `json:"relation,omitempty"`
	HasMedicalCondition    bool      `json:"hasMedicalCondition"`
	MedicalCondition       string    `json:"medicalCondition,omitempty"`
	Status                 string    `json:"status,omitempty"`
	AllocatedRoomNumber    *string   `json:"allocatedRoomNumber,omitempty"`
	FloorNumber            *int      `json:"floorNumber,omitempty"`
	CreatedAt              time.Time `json:"createdAt,omitempty"`
	UpdatedAt              time.Time `json:"updatedAt,omitempty"`
}

// ToDomain converts the DTO into a Booking, normalizing its status.
func (d BookingDTO) ToDomain() *booking.Booking {
	return booking.ReconstructBooking(
		d.ID,
		d.BookingCode,
		booking.Occupant{
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Email:     d.Email,
			Phone:     d.Phone,
			Gender:    booking.Gender(d.Gender),
			Level:     d.Level,
			School:    d.School,
			StudentID: d.StudentID,
			AvatarURL: d.Avatar,
		},
		booking.AccommodationPreference{
			RoomTitle:  d.RoomTitle,
			RoomType:   booking.RoomType(d.RoomType),
			HostelName: d.HostelName,
			Price:      d.Price,
		},
		booking.EmergencyContact{
			Name:     d.EmergencyContactName,
			Phone:    d.EmergencyContactNumber,
			Relation: d.Relation,
		},
		booking.Medical{HasCondition: d.HasMedicalCondition, Condition: d.MedicalCondition},
		d.Status,
		d.AllocatedRoomNumber,
		d.FloorNumber,
		d.CreatedAt,
		d.UpdatedAt,
	)
}

// BookingToDTO converts a Booking to its wire form. Room type is sent as the API code.
func BookingToDTO(b *booking.Booking) BookingDTO {
	occ, pref := b.Occupant(), b.Preference()
	em, med := b.Emergency(), b.Medical()
	return BookingDTO{
		ID:                     b.ID(),
		BookingCode:            b.Code(),
		FirstName:              occ.FirstName,
		LastName:               occ.LastName,
		Email:                  occ.Email,
		Phone:                  occ.Phone,
		Gender:                 string(occ.Gender),
		Level:                  occ.Level,
		School:                 occ.School,
		StudentID:              occ.StudentID,
		Avatar:                 occ.AvatarURL,
		HostelName:             pref.HostelName,
		RoomTitle:              pref.RoomTitle,
		RoomType:               string(booking.ToAPIRoomType(string(pref.RoomType))),
		Price:                  pref.Price,
		EmergencyContactName:   em.Name,
		EmergencyContactNumber: em.Phone,
		Relation:               em.Relation,
		HasMedicalCondition:    med.HasCondition,
		MedicalCondition:       med.Condition,
		Status:                 string(b.Status()),
		AllocatedRoomNumber:    b.AllocatedRoomNumber(),
		FloorNumber:            b.FloorNumber(),
		CreatedAt:              b.CreatedAt(),
		UpdatedAt:              b.UpdatedAt(),
	}
}

func toBookings(dtos []BookingDTO) []*booking.Booking {
	out := make([]*booking.Booking, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, d.ToDomain())
	}
	return out
}

// ListBookings calls GET /bookings.
func (c *Client) ListBookings(ctx context.Context) ([]*booking.Booking, error) {
	var dtos []BookingDTO
	if err := c.do(ctx, request{method: http.MethodGet, path: "/bookings"}, &dtos, "bookings"); err != nil {
		return nil, err
	}
	return toBookings(dtos), nil
}

// GetBooking calls GET /bookings/:id.
func (c *Client) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	return c.bookingCall(ctx, request{method: http.MethodGet, path: pathf("/bookings/%s", id)})
}

// CreateBooking calls POST /bookings.
func (c *Client) CreateBooking(ctx context.Context, b *booking.Booking) (*booking.Booking, error) {
	dto := BookingToDTO(b)
	dto.ID, dto.Status = "", ""
	return c.bookingCall(ctx, request{method: http.MethodPost, path: "/bookings", body: dto})
}

// DeleteBooking calls DELETE /bookings/:id.
func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: pathf("/bookings/%s", id)}, nil)
}

// SuitableRooms calls GET /bookings/:id/suitable-rooms. An empty list is a valid answer.
func (c *Client) SuitableRooms(ctx context.Context, bookingID string) ([]room.Room, error) {
	var rooms []room.Room
	if err := c.do(ctx, request{method: http.MethodGet, path: pathf("/bookings/%s/suitable-rooms", bookingID)}, &rooms, "rooms"); err != nil {
		return nil, err
	}
	for i := range rooms {
		rooms[i].Normalize()
	}
	return rooms, nil
}

// AssignRoom calls PATCH /bookings/:id/assign-room.
func (c *Client) AssignRoom(ctx context.Context, bookingID, roomID string) (*booking.Booking, error) {
	return c.bookingCall(ctx, request{
		method: http.MethodPatch,
		path:   pathf("/bookings/%s/assign-room", bookingID),
		body:   map[string]string{"roomId": roomID},
	})
}

// ApproveBooking calls PATCH /bookings/:id/approve.
func (c *Client) ApproveBooking(ctx context.Context, bookingID string) (*booking.Booking, error) {
	return c.bookingCall(ctx, request{method: http.MethodPatch, path: pathf("/bookings/%s/approve", bookingID)})
}

// CompleteOnboarding calls PATCH /bookings/:id/complete-onboarding.
func (c *Client) CompleteOnboarding(ctx context.Context, bookingID string) (*booking.Booking, error) {
	return c.bookingCall(ctx, request{method: http.MethodPatch, path: pathf("/bookings/%s/complete-onboarding", bookingID)})
}

type cancelBody struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelBooking calls PATCH /bookings/:id/cancel. A nil reason is omitted from the body.
func (c *Client) CancelBooking(ctx context.Context, bookingID string, reason *string) (*booking.Booking, error) {
	return c.bookingCall(ctx, request{
		method: http.MethodPatch,
		path:   pathf("/bookings/%s/cancel", bookingID),
		body:   cancelBody{Reason: reason},
	})
}

// RemoveStudent calls PATCH /bookings/:id/remove-student.
func (c *Client) RemoveStudent(ctx context.Context, bookingID string) (*booking.Booking, error) {
	return c.bookingCall(ctx, request{method: http.MethodPatch, path: pathf("/bookings/%s/remove-student", bookingID)})
}

// ApproveBookingPayment calls POST /bookings/:id/approve-payment, used when the booking has
// no payment record to confirm.
func (c *Client) ApproveBookingPayment(ctx context.Context, bookingID string) (*booking.Booking, error) {
	return c.bookingCall(ctx, request{method: http.MethodPost, path: pathf("/bookings/%s/approve-payment", bookingID)})
}

// bookingCall decodes a single-booking response. Endpoints that answer without a body
// return nil, and callers refetch.
func (c *Client) bookingCall(ctx context.Context, req request) (*booking.Booking, error) {
	var dto BookingDTO
	if err := c.do(ctx, req, &dto, "booking"); err != nil {
		return nil, err
	}
	if dto.ID == "" && dto.BookingCode == "" {
		return nil, nil
	}
	return dto.ToDomain(), nil
}
