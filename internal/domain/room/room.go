package room

import "fmt"

// OccupancyStatus summarizes how full a room is.
type OccupancyStatus string

const (
	OccupancyAvailable          OccupancyStatus = "available"
	OccupancyPartiallyAvailable OccupancyStatus = "partially_available"
	OccupancyFull               OccupancyStatus = "full"
)

// Occupant is a student currently allocated to a room.
type Occupant struct {
	BookingID string `json:"bookingId"`
	Name      string `json:"name"`
	Gender    string `json:"gender,omitempty"`
}

// Room is a candidate room returned by the suitable-rooms query.
type Room struct {
	ID                string          `json:"id"`
	RoomNumber        string          `json:"roomNumber"`
	Floor             int             `json:"floor"`
	Capacity          int             `json:"capacity"`
	CurrentOccupants  int             `json:"currentOccupants"`
	OccupancyStatus   OccupancyStatus `json:"occupancyStatus"`
	ColorCode         string          `json:"colorCode,omitempty"`
	Occupants         []Occupant      `json:"occupants,omitempty"`
	GenderRestriction string          `json:"genderRestriction,omitempty"`
}

// DeriveOccupancy computes the occupancy status from capacity and occupant count.
func DeriveOccupancy(capacity, occupants int) OccupancyStatus {
	switch {
	case capacity <= 0 || occupants >= capacity:
		return OccupancyFull
	case occupants <= 0:
		return OccupancyAvailable
	default:
		return OccupancyPartiallyAvailable
	}
}

// ColorFor returns the display color hint for an occupancy status.
func ColorFor(s OccupancyStatus) string {
	switch s {
	case OccupancyAvailable:
		return "green"
	case OccupancyPartiallyAvailable:
		return "yellow"
	default:
		return "red"
	}
}

// Normalize fills occupancy status and color when the server omitted them.
func (r *Room) Normalize() {
	if r.CurrentOccupants == 0 && len(r.Occupants) > 0 {
		r.CurrentOccupants = len(r.Occupants)
	}
	if r.OccupancyStatus == "" {
		r.OccupancyStatus = DeriveOccupancy(r.Capacity, r.CurrentOccupants)
	}
	if r.ColorCode == "" {
		r.ColorCode = ColorFor(r.OccupancyStatus)
	}
}

// IsSelectable returns true unless the room is full.
func (r Room) IsSelectable() bool {
	return r.OccupancyStatus != OccupancyFull
}

// CapacityLabel returns the display label for a room capacity.
func CapacityLabel(capacity int) string {
	switch capacity {
	case 1:
		return "One-in-one"
	case 2:
		return "Two-in-one"
	case 3:
		return "Three-in-one"
	case 4:
		return "Four-in-one"
	}
	return fmt.Sprintf("%d-in-one", capacity)
}
