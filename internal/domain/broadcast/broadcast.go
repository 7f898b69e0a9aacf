package broadcast

import "time"

// Status is the delivery state of a broadcast.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusSent      Status = "sent"
	StatusFailed    Status = "failed"
)

// Audience selects who a broadcast is sent to.
type Audience string

const (
	AudienceAll      Audience = "all"
	AudienceMembers  Audience = "members"
	AudienceBookings Audience = "bookings"
	AudienceByHostel Audience = "hostel"
)

// Broadcast is a message sent to many residents at once.
type Broadcast struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Audience    Audience   `json:"audience"`
	HostelName  string     `json:"hostelName,omitempty"`
	Status      Status     `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	Recipients  int        `json:"recipients"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Draft is the payload for creating, scheduling or updating a broadcast.
type Draft struct {
	Title       string     `json:"title" validate:"required,max=120"`
	Message     string     `json:"message" validate:"required,max=2000"`
	Audience    Audience   `json:"audience" validate:"required,oneof=all members bookings hostel"`
	HostelName  string     `json:"hostelName,omitempty" validate:"required_if=Audience hostel"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

// CanResend returns true for broadcasts that were delivered or failed.
func (b *Broadcast) CanResend() bool {
	return b.Status == StatusSent || b.Status == StatusFailed
}
