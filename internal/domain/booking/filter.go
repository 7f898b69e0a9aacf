package booking

import "strings"

// Filter selects bookings for list views.
type Filter struct {
	Status string
	Gender Gender
	Search string
}

// Accepts returns true if the booking passes every set criterion. Status is compared
// after normalization so legacy and canonical filter values behave the same.
func (f Filter) Accepts(b *Booking) bool {
	if !Matches(string(b.Status()), f.Status) {
		return false
	}
	if f.Gender != "" && b.Occupant().Gender != f.Gender {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		occ := b.Occupant()
		haystack := strings.ToLower(strings.Join([]string{
			b.Code(), occ.FullName(), occ.Email, occ.Phone, occ.StudentID,
		}, " "))
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

// Apply returns the bookings accepted by the filter, preserving order.
func (f Filter) Apply(bookings []*Booking) []*Booking {
	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if f.Accepts(b) {
			out = append(out, b)
		}
	}
	return out
}
