package booking

import "context"

// Repository stores the last server-confirmed state of bookings. It is written only
// from adapter responses, never from local guesses.
type Repository interface {
	// FindByID retrieves a booking by its internal id.
	FindByID(ctx context.Context, id string) (*Booking, error)

	// FindByCode retrieves a booking by its display code.
	FindByCode(ctx context.Context, code string) (*Booking, error)

	// List returns bookings accepted by the filter, newest first.
	List(ctx context.Context, filter Filter) ([]*Booking, error)

	// CountByStatus returns booking counts grouped by canonical status.
	CountByStatus(ctx context.Context) (map[Status]int64, error)

	// Upsert stores the server's view of a booking.
	Upsert(ctx context.Context, booking *Booking) error

	// ReplaceAll swaps the stored set for a fresh server listing.
	ReplaceAll(ctx context.Context, bookings []*Booking) error

	// Delete removes a booking that the server deleted.
	Delete(ctx context.Context, id string) error
}
