package reconciliation

import (
	"fmt"

	"github.com/Hostella/service-admin/internal/domain"
	"github.com/Hostella/service-admin/internal/domain/booking"
	"github.com/Hostella/service-admin/internal/domain/payment"
)

// Action is an administrative operation offered on a booking.
type Action string

const (
	ActionVerifyApprovePayment Action = "verify-approve-payment"
	ActionApproveBooking       Action = "approve-booking"
	ActionAssignRoom           Action = "assign-room"
	ActionCompleteOnboarding   Action = "complete-onboarding"
	ActionRemoveStudent        Action = "remove-student"
	ActionUnassignRoom         Action = "unassign-room"
	ActionReassignRoom         Action = "reassign-room"
	ActionCancelBooking        Action = "cancel-booking"
	ActionClose                Action = "close"
)

// allActions fixes the order actions are presented in.
var allActions = []Action{
	ActionVerifyApprovePayment,
	ActionApproveBooking,
	ActionAssignRoom,
	ActionCompleteOnboarding,
	ActionRemoveStudent,
	ActionUnassignRoom,
	ActionReassignRoom,
	ActionCancelBooking,
	ActionClose,
}

// ParseAction converts a string to an Action, returning an error if unknown.
func ParseAction(s string) (Action, error) {
	for _, a := range allActions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", domain.NewFieldValidationError("action", fmt.Sprintf("unknown action %q", s))
}

// State is the combined booking, payment and membership state actions derive from.
type State struct {
	BookingStatus booking.Status
	// PaymentStatus is empty when the booking has no known payment.
	PaymentStatus    payment.Status
	IsMember         bool
	HasAllocatedRoom bool
}

// ActionSet is an ordered set of offered actions.
type ActionSet []Action

// Has returns true if the action is in the set.
func (s ActionSet) Has(a Action) bool {
	for _, x := range s {
		if x == a {
			return true
		}
	}
	return false
}

// Strings returns the action names in order.
func (s ActionSet) Strings() []string {
	out := make([]string, len(s))
	for i, a := range s {
		out[i] = string(a)
	}
	return out
}

// Available returns the actions legal for the given state.
func Available(st State) ActionSet {
	set := make(ActionSet, 0, len(allActions))
	for _, a := range allActions {
		if offered(st, a) {
			set = append(set, a)
		}
	}
	return set
}

func offered(st State, a Action) bool {
	switch a {
	case ActionVerifyApprovePayment:
		return st.BookingStatus == booking.StatusPendingPayment && paymentAllowsApproval(st.PaymentStatus)
	case ActionApproveBooking:
		return st.BookingStatus == booking.StatusPendingApproval
	case ActionAssignRoom:
		return st.BookingStatus == booking.StatusApproved && !st.IsMember
	case ActionCompleteOnboarding, ActionRemoveStudent:
		return st.BookingStatus == booking.StatusRoomAllocated && !st.IsMember
	case ActionUnassignRoom:
		return st.IsMember && st.HasAllocatedRoom
	case ActionReassignRoom:
		return st.IsMember
	case ActionCancelBooking:
		return st.BookingStatus.CanBeCancelled()
	case ActionClose:
		return true
	}
	return false
}

// paymentAllowsApproval accepts gateway payments whose terminal state has not synced yet.
func paymentAllowsApproval(s payment.Status) bool {
	switch s {
	case payment.StatusConfirmed, payment.StatusAwaitingVerification, payment.StatusInitiated, "":
		return true
	}
	return false
}

// Authorize returns an InvalidStateError when the action is not offered for the state.
func Authorize(st State, a Action) error {
	if !offered(st, a) {
		return domain.NewInvalidStateError(string(st.BookingStatus), string(a))
	}
	return nil
}

// RequiresConfirmation returns true for actions that need an explicit acknowledgment.
func RequiresConfirmation(a Action) bool {
	return a == ActionUnassignRoom
}

// InFlightKey identifies one action on one booking for duplicate-submission guarding.
func InFlightKey(a Action, bookingID string) string {
	return fmt.Sprintf("%s-%s", a, bookingID)
}
