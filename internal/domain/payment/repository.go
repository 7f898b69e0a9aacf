package payment

import "context"

// Repository stores the last server-confirmed state of payments.
type Repository interface {
	// FindByID retrieves a payment by id.
	FindByID(ctx context.Context, id string) (*Payment, error)

	// FindByBooking returns payments referencing the booking by either id form.
	FindByBooking(ctx context.Context, bookingID, bookingCode string) ([]*Payment, error)

	// Upsert stores the server's view of a payment.
	Upsert(ctx context.Context, payment *Payment) error
}
