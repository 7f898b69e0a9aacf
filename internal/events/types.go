package events

// Payment topic event types that change what a booking offers.
const (
	PaymentConfirmed            = "payment.confirmed"
	PaymentFailed               = "payment.failed"
	PaymentRefunded             = "payment.refunded"
	PaymentAwaitingVerification = "payment.awaiting_verification"
)

// EventSource identifies this service on published CloudEvents.
const EventSource = "hostella-admin"

// PaymentEvent is the data of a payment topic CloudEvent.
type PaymentEvent struct {
	PaymentID   string `json:"paymentId"`
	BookingID   string `json:"bookingId,omitempty"`
	BookingCode string `json:"bookingCode,omitempty"`
	Status      string `json:"status,omitempty"`
	Provider    string `json:"provider,omitempty"`
}

// BookingRef returns the internal booking id, or the display code when only that is set.
func (e PaymentEvent) BookingRef() string {
	if e.BookingID != "" {
		return e.BookingID
	}
	return e.BookingCode
}
