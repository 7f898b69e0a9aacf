package application

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Hostella/service-admin/internal/domain"
	bookingDomain "github.com/Hostella/service-admin/internal/domain/booking"
	memberDomain "github.com/Hostella/service-admin/internal/domain/member"
	"github.com/Hostella/service-admin/internal/domain/notification"
	paymentDomain "github.com/Hostella/service-admin/internal/domain/payment"
	"github.com/Hostella/service-admin/internal/domain/reconciliation"
	"github.com/Hostella/service-admin/internal/domain/room"
	"github.com/Hostella/service-admin/internal/hostella"
)

// Audit event types published after server-confirmed actions.
const (
	EventBookingCreated  = "admin.booking.created"
	EventBookingDeleted  = "admin.booking.deleted"
	EventBookingAction   = "admin.booking.action"
	EventPaymentVerified = "admin.payment.verified"
)

// CreateBookingRequest holds the data needed to create a booking on a student's behalf.
type CreateBookingRequest struct {
	Occupant   bookingDomain.Occupant                `json:"occupant"`
	Preference bookingDomain.AccommodationPreference `json:"preference"`
	Emergency  bookingDomain.EmergencyContact        `json:"emergencyContact"`
	Medical    bookingDomain.Medical                 `json:"medical"`
}

// ActionInput carries the optional arguments of an admin action.
type ActionInput struct {
	RoomID  string  `json:"roomId"`
	Reason  *string `json:"reason"`
	Confirm bool    `json:"confirm"`
}

// ActionEvent is the payload of an EventBookingAction audit event.
type ActionEvent struct {
	BookingID  string    `json:"bookingId"`
	Action     string    `json:"action"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	RoomID     string    `json:"roomId,omitempty"`
	Reason     *string   `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// AdminService orchestrates booking reconciliation use cases. State changes only after
// the upstream API confirms them, and every confirmed mutation is followed by a refetch.
type AdminService struct {
	bookings BookingGateway
	payments PaymentGateway
	members  MemberGateway

	bookingRepo bookingDomain.Repository
	paymentRepo paymentDomain.Repository
	memberRepo  memberDomain.Repository

	inflight  *InFlight
	publisher EventPublisher
	logger    *zap.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	bookings BookingGateway,
	payments PaymentGateway,
	members MemberGateway,
	bookingRepo bookingDomain.Repository,
	paymentRepo paymentDomain.Repository,
	memberRepo memberDomain.Repository,
	publisher EventPublisher,
	logger *zap.Logger,
) *AdminService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &AdminService{
		bookings:    bookings,
		payments:    payments,
		members:     members,
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		memberRepo:  memberRepo,
		inflight:    NewInFlight(),
		publisher:   publisher,
		logger:      logger,
	}
}

// SyncBookings replaces the snapshot with a fresh upstream listing.
func (s *AdminService) SyncBookings(ctx context.Context) error {
	bookings, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return err
	}
	withID := bookings[:0]
	for _, bk := range bookings {
		if bk.ID() != "" {
			withID = append(withID, bk)
		}
	}
	if err := s.bookingRepo.ReplaceAll(ctx, withID); err != nil {
		return fmt.Errorf("failed to store bookings: %w", err)
	}
	return nil
}

// ListBookings refreshes from upstream and returns the filtered snapshot.
func (s *AdminService) ListBookings(ctx context.Context, filter bookingDomain.Filter) ([]BookingDTO, error) {
	if err := s.SyncBookings(ctx); err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), nil
}

// GetBooking fetches a booking with its payment, membership and offered actions.
func (s *AdminService) GetBooking(ctx context.Context, id string) (*BookingView, error) {
	bk, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if bk == nil {
		return nil, domain.NewNotFoundError("Booking", id)
	}
	s.store(ctx, bk)
	st, err := s.resolveState(ctx, bk, false)
	if err != nil {
		return nil, err
	}
	view := st.view(bk)
	view.InFlight = s.running(bk.ID(), view.Actions)
	return view, nil
}

// CreateBooking validates the draft locally before submitting it.
func (s *AdminService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingDTO, error) {
	draft, err := bookingDomain.NewBooking(req.Occupant, req.Preference, req.Emergency, req.Medical)
	if err != nil {
		return nil, err
	}

	created, err := s.bookings.CreateBooking(ctx, draft)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("create booking returned no booking")
	}
	s.store(ctx, created)
	s.publish(ctx, EventBookingCreated, created.ID(), toBookingDTO(created))

	result := toBookingDTO(created)
	return &result, nil
}

// DeleteBooking deletes a booking. It requires an explicit confirmation; without it
// nothing is sent and the snapshot is unchanged.
func (s *AdminService) DeleteBooking(ctx context.Context, id string, confirm bool) error {
	if !confirm {
		return domain.NewConfirmationRequiredError("delete-booking")
	}
	release, err := s.inflight.Acquire("delete-booking-" + id)
	if err != nil {
		return err
	}
	defer release()

	if err := s.bookings.DeleteBooking(ctx, id); err != nil {
		return err
	}
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to drop deleted booking from snapshot", zap.String("booking_id", id), zap.Error(err))
	}
	s.publish(ctx, EventBookingDeleted, id, map[string]string{"bookingId": id})
	return nil
}

// SuitableRooms returns the room picker for a booking. isMember comes from the caller,
// who already knows whether the dialog is for a member; it picks reassign over assign.
// No suitable rooms is an empty selection, not an error.
func (s *AdminService) SuitableRooms(ctx context.Context, bookingID string, isMember bool) (*RoomSelectionView, error) {
	rooms, err := s.bookings.SuitableRooms(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	sel := room.NewSelector(bookingID, isMember, rooms)
	return &RoomSelectionView{
		BookingID: sel.BookingID(),
		Mode:      sel.Mode(),
		Empty:     sel.Empty(),
		Groups:    sel.Groups(),
		Rooms:     sel.Rooms(),
	}, nil
}

// Execute runs an admin action against a booking: guard, authorize against fresh
// upstream state, call upstream, then refetch and publish.
func (s *AdminService) Execute(ctx context.Context, bookingID string, action reconciliation.Action, in ActionInput) (*BookingView, error) {
	if action == reconciliation.ActionClose {
		return s.GetBooking(ctx, bookingID)
	}
	if err := validateActionInput(action, in); err != nil {
		return nil, err
	}

	release, err := s.inflight.Acquire(reconciliation.InFlightKey(action, bookingID))
	if err != nil {
		return nil, err
	}
	defer release()

	bk, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk == nil {
		return nil, domain.NewNotFoundError("Booking", bookingID)
	}
	st, err := s.resolveState(ctx, bk, true)
	if err != nil {
		return nil, err
	}
	if err := reconciliation.Authorize(st.State, action); err != nil {
		return nil, err
	}

	reason := normalizeReason(in.Reason)
	returned, err := s.dispatch(ctx, bk, st, action, in.RoomID, reason)
	if err != nil {
		s.logger.Info("admin action rejected",
			zap.String("booking_id", bookingID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
		return nil, err
	}

	fresh := s.refetch(ctx, bookingID, returned)
	if affectsMembership(action) {
		if err := s.SyncMembers(ctx); err != nil {
			s.logger.Warn("member refresh after action failed", zap.Error(err))
		}
	}

	result := bk
	if fresh != nil {
		result = fresh
	}
	s.publish(ctx, EventBookingAction, bookingID, ActionEvent{
		BookingID:  bookingID,
		Action:     string(action),
		FromStatus: string(bk.Status()),
		ToStatus:   string(result.Status()),
		RoomID:     in.RoomID,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	})

	s.logger.Info("admin action applied",
		zap.String("booking_id", bookingID),
		zap.String("action", string(action)),
		zap.String("status", string(result.Status())),
	)

	final, err := s.resolveState(ctx, result, false)
	if err != nil {
		return nil, err
	}
	return final.view(result), nil
}

func (s *AdminService) dispatch(
	ctx context.Context,
	bk *bookingDomain.Booking,
	st *bookingState,
	action reconciliation.Action,
	roomID string,
	reason *string,
) (*bookingDomain.Booking, error) {
	id := bk.ID()
	switch action {
	case reconciliation.ActionVerifyApprovePayment:
		if st.payment == nil {
			return s.bookings.ApproveBookingPayment(ctx, id)
		}
		p, err := s.payments.UpdatePaymentStatus(ctx, st.payment.ID, paymentDomain.StatusConfirmed)
		if err != nil {
			return nil, err
		}
		if p != nil {
			s.storePayment(ctx, p)
		}
		return nil, nil
	case reconciliation.ActionApproveBooking:
		return s.bookings.ApproveBooking(ctx, id)
	case reconciliation.ActionAssignRoom:
		return s.bookings.AssignRoom(ctx, id, roomID)
	case reconciliation.ActionCompleteOnboarding:
		return s.bookings.CompleteOnboarding(ctx, id)
	case reconciliation.ActionRemoveStudent:
		return s.bookings.RemoveStudent(ctx, id)
	case reconciliation.ActionCancelBooking:
		return s.bookings.CancelBooking(ctx, id, reason)
	case reconciliation.ActionUnassignRoom:
		return nil, s.members.UnassignRoom(ctx, st.member.ID)
	case reconciliation.ActionReassignRoom:
		return nil, s.members.ReassignRoom(ctx, st.member.ID, roomID)
	}
	return nil, domain.NewFieldValidationError("action", fmt.Sprintf("unsupported action %q", action))
}

// RefreshBooking refetches one booking into the snapshot, dropping it if upstream no
// longer has it. A display code is resolved through the snapshot first.
func (s *AdminService) RefreshBooking(ctx context.Context, bookingRef string) error {
	bookingID := bookingRef
	if known, err := s.bookingRepo.FindByCode(ctx, bookingRef); err == nil {
		bookingID = known.ID()
	}
	bk, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		if hostella.IsStatus(err, http.StatusNotFound) {
			return s.bookingRepo.Delete(ctx, bookingID)
		}
		return err
	}
	if bk == nil {
		return nil
	}
	if err := s.bookingRepo.Upsert(ctx, bk); err != nil {
		return fmt.Errorf("failed to store booking: %w", err)
	}
	return nil
}

// BookingNotificationListener returns a listener that refetches the booking a newly
// delivered notification refers to.
func (s *AdminService) BookingNotificationListener(ctx context.Context) func(notification.Notification) {
	return func(n notification.Notification) {
		ref := n.BookingRef()
		if ref == "" {
			return
		}
		if err := s.RefreshBooking(ctx, ref); err != nil {
			s.logger.Warn("booking refresh after notification failed",
				zap.String("booking_ref", ref),
				zap.Error(err),
			)
		}
	}
}

// Stats returns booking counts per canonical status from the snapshot.
func (s *AdminService) Stats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookingRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	byStatus := make(map[string]int64, len(counts))
	for st, c := range counts {
		byStatus[string(st)] = c
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: byStatus}, nil
}

// --- Members ---

// SyncMembers replaces the member snapshot with a fresh upstream listing.
func (s *AdminService) SyncMembers(ctx context.Context) error {
	members, err := s.members.ListMembers(ctx)
	if err != nil {
		return err
	}
	if err := s.memberRepo.ReplaceAll(ctx, members); err != nil {
		return fmt.Errorf("failed to store members: %w", err)
	}
	return nil
}

// ListMembers refreshes and returns the member snapshot.
func (s *AdminService) ListMembers(ctx context.Context) ([]*memberDomain.Member, error) {
	if err := s.SyncMembers(ctx); err != nil {
		return nil, err
	}
	return s.memberRepo.List(ctx)
}

// UpdateMember validates and submits member edits.
func (s *AdminService) UpdateMember(ctx context.Context, id string, upd memberDomain.Update) (*memberDomain.Member, error) {
	if err := validateStruct(upd); err != nil {
		return nil, err
	}
	m, err := s.members.UpdateMember(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if err := s.SyncMembers(ctx); err != nil {
		s.logger.Warn("member refresh after update failed", zap.Error(err))
	}
	return m, nil
}

// DeleteMember removes a member upstream and from the snapshot.
func (s *AdminService) DeleteMember(ctx context.Context, id string) error {
	if err := s.members.DeleteMember(ctx, id); err != nil {
		return err
	}
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to drop deleted member from snapshot", zap.String("member_id", id), zap.Error(err))
	}
	return nil
}

// --- Helpers ---

type bookingState struct {
	reconciliation.State
	payment *paymentDomain.Payment
	member  *memberDomain.Member
}

func (st *bookingState) view(bk *bookingDomain.Booking) *BookingView {
	return &BookingView{
		Booking: toBookingDTO(bk),
		Payment: st.payment,
		Member:  st.member,
		Actions: reconciliation.Available(st.State).Strings(),
	}
}

// resolveState gathers payment and membership for bk. With fresh set, members are
// reloaded from upstream and payment lookup failures propagate; otherwise both are
// best effort.
func (s *AdminService) resolveState(ctx context.Context, bk *bookingDomain.Booking, fresh bool) (*bookingState, error) {
	st := &bookingState{State: reconciliation.State{
		BookingStatus:    bk.Status(),
		HasAllocatedRoom: bk.HasAllocatedRoom(),
	}}

	payments, err := s.payments.PaymentsForBooking(ctx, bk.ID(), bk.Code())
	switch {
	case err == nil:
		st.payment = paymentDomain.Latest(payments)
		for _, p := range payments {
			s.storePayment(ctx, p)
		}
	case fresh:
		return nil, err
	default:
		s.logger.Debug("payment lookup failed", zap.String("booking_id", bk.ID()), zap.Error(err))
		if cached, cerr := s.paymentRepo.FindByBooking(ctx, bk.ID(), bk.Code()); cerr == nil {
			st.payment = paymentDomain.Latest(cached)
		}
	}
	if st.payment != nil {
		st.PaymentStatus = st.payment.Status
	}

	if fresh {
		if err := s.SyncMembers(ctx); err != nil {
			return nil, err
		}
	}
	if m, err := s.memberRepo.FindByBooking(ctx, bk.ID(), bk.Code()); err == nil && m != nil {
		st.member = m
		st.IsMember = true
		st.HasAllocatedRoom = st.HasAllocatedRoom || m.HasRoom()
	}
	return st, nil
}

// refetch reloads the booking after a confirmed mutation. If the reload fails the
// mutation response is used when it carried a booking.
func (s *AdminService) refetch(ctx context.Context, id string, returned *bookingDomain.Booking) *bookingDomain.Booking {
	fresh, err := s.bookings.GetBooking(ctx, id)
	if err != nil || fresh == nil {
		s.logger.Warn("refetch after action failed", zap.String("booking_id", id), zap.Error(err))
		fresh = returned
	}
	if fresh != nil {
		s.store(ctx, fresh)
	}
	return fresh
}

// running returns the actions among offered that are in flight for the booking.
func (s *AdminService) running(bookingID string, offered []string) []string {
	var out []string
	for _, a := range offered {
		if s.inflight.Busy(reconciliation.InFlightKey(reconciliation.Action(a), bookingID)) {
			out = append(out, a)
		}
	}
	return out
}

func (s *AdminService) store(ctx context.Context, bk *bookingDomain.Booking) {
	if bk.ID() == "" {
		return
	}
	if err := s.bookingRepo.Upsert(ctx, bk); err != nil {
		s.logger.Warn("failed to store booking snapshot", zap.String("booking_id", bk.ID()), zap.Error(err))
	}
}

func (s *AdminService) storePayment(ctx context.Context, p *paymentDomain.Payment) {
	if p.ID == "" {
		return
	}
	if err := s.paymentRepo.Upsert(ctx, p); err != nil {
		s.logger.Warn("failed to store payment snapshot", zap.String("payment_id", p.ID), zap.Error(err))
	}
}

func (s *AdminService) publish(ctx context.Context, eventType, key string, data interface{}) {
	if err := s.publisher.Publish(ctx, eventType, key, data); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func validateActionInput(action reconciliation.Action, in ActionInput) error {
	switch action {
	case reconciliation.ActionAssignRoom, reconciliation.ActionReassignRoom:
		if strings.TrimSpace(in.RoomID) == "" {
			return domain.NewFieldValidationError("roomId", "is required")
		}
	}
	if reconciliation.RequiresConfirmation(action) && !in.Confirm {
		return domain.NewConfirmationRequiredError(string(action))
	}
	return nil
}

// normalizeReason trims the reason; blank becomes nil so it is omitted upstream.
func normalizeReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func affectsMembership(a reconciliation.Action) bool {
	switch a {
	case reconciliation.ActionCompleteOnboarding, reconciliation.ActionRemoveStudent,
		reconciliation.ActionUnassignRoom, reconciliation.ActionReassignRoom:
		return true
	}
	return false
}
