package booking

import (
	"regexp"
	"strings"
)

// Status is the canonical lifecycle state of a booking.
type Status string

const (
	StatusPendingPayment  Status = "PENDING_PAYMENT"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"
	StatusRoomAllocated   Status = "ROOM_ALLOCATED"
	StatusCompleted       Status = "COMPLETED"
	StatusCancelled       Status = "CANCELLED"
	StatusRejected        Status = "REJECTED"
	StatusExpired         Status = "EXPIRED"
)

// Statuses lists every canonical status, lifecycle path first, side exits after.
var Statuses = []Status{
	StatusPendingPayment,
	StatusPendingApproval,
	StatusApproved,
	StatusRoomAllocated,
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
	StatusExpired,
}

// legacyStatuses maps the lowercase, space separated display forms to canonical values.
// This is the only copy of the table.
var legacyStatuses = map[string]Status{
	"pending payment":  StatusPendingPayment,
	"pending approval": StatusPendingApproval,
	"approved":         StatusApproved,
	"room allocated":   StatusRoomAllocated,
	"completed":        StatusCompleted,
	"cancelled":        StatusCancelled,
	"rejected":         StatusRejected,
	"expired":          StatusExpired,
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize returns the canonical status for any legacy or canonical status string.
// Unknown values are uppercased with whitespace runs replaced by underscores so that
// statuses added by the server later still compare consistently.
func Normalize(raw string) Status {
	trimmed := strings.TrimSpace(raw)
	if s, ok := legacyStatuses[strings.ToLower(trimmed)]; ok {
		return s
	}
	return Status(whitespaceRun.ReplaceAllString(strings.ToUpper(trimmed), "_"))
}

// Matches reports whether a raw status satisfies a raw filter value. An empty filter
// matches everything.
func Matches(raw, filter string) bool {
	if strings.TrimSpace(filter) == "" {
		return true
	}
	return Normalize(raw) == Normalize(filter)
}

// CanBeCancelled returns true for every status except COMPLETED and ROOM_ALLOCATED.
func (s Status) CanBeCancelled() bool {
	return s != StatusCompleted && s != StatusRoomAllocated
}

// HoldsRoom returns true once a room may be allocated (APPROVED onward on the main path).
func (s Status) HoldsRoom() bool {
	switch s {
	case StatusPendingPayment, StatusPendingApproval:
		return false
	}
	return true
}

// Display returns the legacy lowercase form used by older display surfaces.
func (s Status) Display() string {
	return strings.ToLower(strings.ReplaceAll(string(s), "_", " "))
}

// String returns the canonical representation of the status.
func (s Status) String() string {
	return string(s)
}
