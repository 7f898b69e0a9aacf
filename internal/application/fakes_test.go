package application

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Hostella/service-admin/internal/domain/booking"
	"github.com/Hostella/service-admin/internal/domain/broadcast"
	"github.com/Hostella/service-admin/internal/domain/chat"
	"github.com/Hostella/service-admin/internal/domain/member"
	"github.com/Hostella/service-admin/internal/domain/notification"
	"github.com/Hostella/service-admin/internal/domain/payment"
	"github.com/Hostella/service-admin/internal/domain/room"
	"github.com/Hostella/service-admin/internal/hostella"
	"github.com/Hostella/service-admin/internal/repository"
)

// fakeUpstream is an in-memory stand-in for the Hostella API. Mutations apply the
// server-side cascade so tests can observe refetches.
type fakeUpstream struct {
	mu sync.Mutex

	bookings map[string]*booking.Booking
	payments map[string]*payment.Payment
	members  map[string]*member.Member
	rooms    map[string][]room.Room

	notifications []notification.Notification
	messages      map[string][]chat.Message
	broadcasts    []*broadcast.Broadcast

	calls []string
	// failures maps a call name to the error it returns.
	failures map[string]error
	// block, when set, is waited on inside mutating calls.
	block chan struct{}

	lastReason   *string
	lastStatus   payment.Status
	lastUpdate   member.Update
	lastDraft    broadcast.Draft
	bookingGets  int
	paymentLists int
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		bookings: make(map[string]*booking.Booking),
		payments: make(map[string]*payment.Payment),
		members:  make(map[string]*member.Member),
		rooms:    make(map[string][]room.Room),
		messages: make(map[string][]chat.Message),
		failures: make(map[string]error),
	}
}

func apiErr(status int, msg string) error {
	return &hostella.APIError{StatusCode: status, Message: msg}
}

func (f *fakeUpstream) record(name string) error {
	f.calls = append(f.calls, name)
	return f.failures[name]
}

func (f *fakeUpstream) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeUpstream) wait() {
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeUpstream) setStatus(id string, st booking.Status) {
	if bk, ok := f.bookings[id]; ok {
		f.bookings[id] = rebuilt(bk, st, bk.AllocatedRoomNumber())
	}
}

func (f *fakeUpstream) setRoom(id string, room *string) {
	if bk, ok := f.bookings[id]; ok {
		f.bookings[id] = rebuilt(bk, bk.Status(), room)
	}
}

func rebuilt(b *booking.Booking, st booking.Status, room *string) *booking.Booking {
	return booking.ReconstructBooking(b.ID(), b.Code(), b.Occupant(), b.Preference(), b.Emergency(), b.Medical(),
		string(st), room, nil, b.CreatedAt(), time.Now().UTC())
}

func stored(id, code, status string, room *string) *booking.Booking {
	now := time.Now().UTC()
	return booking.ReconstructBooking(id, code,
		booking.Occupant{FirstName: "Ama", LastName: "Mensah", Email: "ama@uni.test", Phone: "024", Gender: booking.GenderFemale},
		booking.AccommodationPreference{RoomTitle: booking.DisplayTwoInOne, HostelName: "Hostella East"},
		booking.EmergencyContact{Name: "Kofi"}, booking.Medical{},
		status, room, nil, now, now)
}

// --- BookingGateway ---

func (f *fakeUpstream) ListBookings(context.Context) ([]*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListBookings"); err != nil {
		return nil, err
	}
	out := make([]*booking.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeUpstream) GetBooking(_ context.Context, id string) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookingGets++
	if err := f.record("GetBooking"); err != nil {
		return nil, err
	}
	bk, ok := f.bookings[id]
	if !ok {
		return nil, apiErr(http.StatusNotFound, "Booking not found")
	}
	return copyBooking(bk), nil
}

func copyBooking(b *booking.Booking) *booking.Booking {
	return booking.ReconstructBooking(b.ID(), b.Code(), b.Occupant(), b.Preference(), b.Emergency(), b.Medical(),
		string(b.Status()), b.AllocatedRoomNumber(), b.FloorNumber(), b.CreatedAt(), b.UpdatedAt())
}

func (f *fakeUpstream) CreateBooking(_ context.Context, b *booking.Booking) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateBooking"); err != nil {
		return nil, err
	}
	id := fmt.Sprintf("b%d", len(f.bookings)+1)
	created := booking.ReconstructBooking(id, "BK-"+id, b.Occupant(), b.Preference(), b.Emergency(), b.Medical(),
		"pending payment", nil, nil, time.Now(), time.Now())
	f.bookings[id] = created
	return copyBooking(created), nil
}

func (f *fakeUpstream) DeleteBooking(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteBooking"); err != nil {
		return err
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeUpstream) SuitableRooms(_ context.Context, id string) ([]room.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SuitableRooms"); err != nil {
		return nil, err
	}
	return f.rooms[id], nil
}

func (f *fakeUpstream) AssignRoom(_ context.Context, id, roomID string) (*booking.Booking, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AssignRoom"); err != nil {
		return nil, err
	}
	f.setStatus(id, booking.StatusRoomAllocated)
	number := "R-" + roomID
	f.setRoom(id, &number)
	return copyBooking(f.bookings[id]), nil
}

func (f *fakeUpstream) ApproveBooking(_ context.Context, id string) (*booking.Booking, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ApproveBooking"); err != nil {
		return nil, err
	}
	f.setStatus(id, booking.StatusApproved)
	return copyBooking(f.bookings[id]), nil
}

func (f *fakeUpstream) CompleteOnboarding(_ context.Context, id string) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CompleteOnboarding"); err != nil {
		return nil, err
	}
	f.setStatus(id, booking.StatusCompleted)
	bk := f.bookings[id]
	f.members["m-"+id] = &member.Member{ID: "m-" + id, BookingID: id, BookingCode: bk.Code(), RoomNumber: bk.AllocatedRoomNumber()}
	return nil, nil
}

func (f *fakeUpstream) CancelBooking(_ context.Context, id string, reason *string) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CancelBooking"); err != nil {
		return nil, err
	}
	f.lastReason = reason
	f.setStatus(id, booking.StatusCancelled)
	return nil, nil
}

func (f *fakeUpstream) RemoveStudent(_ context.Context, id string) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("RemoveStudent"); err != nil {
		return nil, err
	}
	f.setRoom(id, nil)
	f.setStatus(id, booking.StatusApproved)
	return nil, nil
}

func (f *fakeUpstream) ApproveBookingPayment(_ context.Context, id string) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ApproveBookingPayment"); err != nil {
		return nil, err
	}
	f.setStatus(id, booking.StatusPendingApproval)
	return nil, nil
}

// --- PaymentGateway ---

func (f *fakeUpstream) ListPayments(_ context.Context, q payment.PendingQuery) ([]*payment.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paymentLists++
	if err := f.record("ListPayments:" + string(q.Provider) + ":" + string(q.Status)); err != nil {
		return nil, err
	}
	var out []*payment.Payment
	for _, p := range f.payments {
		if p.Provider == q.Provider && p.Status == q.Status {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUpstream) PaymentsForBooking(_ context.Context, id, code string) ([]*payment.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("PaymentsForBooking"); err != nil {
		return nil, err
	}
	var out []*payment.Payment
	for _, p := range f.payments {
		if p.BelongsTo(id, code) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUpstream) GetPayment(_ context.Context, id string) (*payment.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetPayment"); err != nil {
		return nil, err
	}
	p, ok := f.payments[id]
	if !ok {
		return nil, apiErr(http.StatusNotFound, "Payment not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakeUpstream) UpdatePaymentStatus(_ context.Context, id string, st payment.Status) (*payment.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdatePaymentStatus"); err != nil {
		return nil, err
	}
	f.lastStatus = st
	p := f.payments[id]
	p.Status = st
	if st == payment.StatusConfirmed {
		for bid, bk := range f.bookings {
			if p.BelongsTo(bk.ID(), bk.Code()) && bk.Status() == booking.StatusPendingPayment {
				f.setStatus(bid, booking.StatusPendingApproval)
			}
		}
	}
	cp := *p
	return &cp, nil
}

func (f *fakeUpstream) VerifyPaystack(_ context.Context, ref string) (*payment.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("VerifyPaystack"); err != nil {
		return nil, err
	}
	return &payment.Payment{ID: "ps-" + ref, Provider: payment.ProviderPaystack, Status: payment.StatusConfirmed, Reference: ref}, nil
}

// --- MemberGateway ---

func (f *fakeUpstream) ListMembers(context.Context) ([]*member.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListMembers"); err != nil {
		return nil, err
	}
	out := make([]*member.Member, 0, len(f.members))
	for _, m := range f.members {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUpstream) UpdateMember(_ context.Context, id string, upd member.Update) (*member.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateMember"); err != nil {
		return nil, err
	}
	f.lastUpdate = upd
	m := f.members[id]
	if upd.Email != nil {
		m.Email = *upd.Email
	}
	cp := *m
	return &cp, nil
}

func (f *fakeUpstream) DeleteMember(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteMember"); err != nil {
		return err
	}
	delete(f.members, id)
	return nil
}

func (f *fakeUpstream) ReassignRoom(_ context.Context, id, roomID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ReassignRoom"); err != nil {
		return err
	}
	number := "R-" + roomID
	f.members[id].RoomNumber = &number
	return nil
}

func (f *fakeUpstream) UnassignRoom(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UnassignRoom"); err != nil {
		return err
	}
	f.members[id].RoomNumber = nil
	return nil
}

// --- NotificationGateway ---

func (f *fakeUpstream) ListNotifications(context.Context) ([]notification.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListNotifications"); err != nil {
		return nil, err
	}
	return append([]notification.Notification{}, f.notifications...), nil
}

func (f *fakeUpstream) MarkNotificationRead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record("MarkNotificationRead")
}

func (f *fakeUpstream) MarkAllNotificationsRead(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record("MarkAllNotificationsRead")
}

func (f *fakeUpstream) DeleteNotification(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record("DeleteNotification")
}

// --- ChatGateway ---

func (f *fakeUpstream) ChatMessages(_ context.Context, chatID string) ([]chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ChatMessages"); err != nil {
		return nil, err
	}
	return append([]chat.Message{}, f.messages[chatID]...), nil
}

func (f *fakeUpstream) SendChatMessage(_ context.Context, chatID, content string) (*chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SendChatMessage"); err != nil {
		return nil, err
	}
	m := chat.Message{ID: fmt.Sprintf("msg-%d", len(f.messages[chatID])+1), Content: content, CreatedAt: time.Now()}
	f.messages[chatID] = append(f.messages[chatID], m)
	return &m, nil
}

func (f *fakeUpstream) UploadChatAttachment(_ context.Context, chatID, filename string, file io.Reader) (*chat.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UploadChatAttachment"); err != nil {
		return nil, err
	}
	_, _ = io.ReadAll(file)
	m := chat.Message{ID: "att-" + filename, ChatID: chatID, AttachmentURL: "https://cdn/" + filename, CreatedAt: time.Now()}
	return &m, nil
}

func (f *fakeUpstream) CloseChat(_ context.Context, chatID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record("CloseChat")
}

func (f *fakeUpstream) ActiveChats(context.Context) ([]chat.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ActiveChats"); err != nil {
		return nil, err
	}
	return []chat.Conversation{{ID: "c1", StudentName: "Ama"}}, nil
}

// --- BroadcastGateway ---

func (f *fakeUpstream) ListBroadcasts(context.Context) ([]*broadcast.Broadcast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListBroadcasts"); err != nil {
		return nil, err
	}
	return f.broadcasts, nil
}

func (f *fakeUpstream) CreateBroadcast(_ context.Context, d broadcast.Draft) (*broadcast.Broadcast, error) {
	return f.saveBroadcast("CreateBroadcast", d, broadcast.StatusSent)
}

func (f *fakeUpstream) ScheduleBroadcast(_ context.Context, d broadcast.Draft) (*broadcast.Broadcast, error) {
	return f.saveBroadcast("ScheduleBroadcast", d, broadcast.StatusScheduled)
}

func (f *fakeUpstream) UpdateBroadcast(_ context.Context, id string, d broadcast.Draft) (*broadcast.Broadcast, error) {
	return f.saveBroadcast("UpdateBroadcast", d, broadcast.StatusDraft)
}

func (f *fakeUpstream) saveBroadcast(call string, d broadcast.Draft, st broadcast.Status) (*broadcast.Broadcast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(call); err != nil {
		return nil, err
	}
	f.lastDraft = d
	b := &broadcast.Broadcast{ID: fmt.Sprintf("bc%d", len(f.broadcasts)+1), Title: d.Title, Audience: d.Audience, Status: st, ScheduledAt: d.ScheduledAt}
	f.broadcasts = append(f.broadcasts, b)
	return b, nil
}

func (f *fakeUpstream) DeleteBroadcast(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record("DeleteBroadcast")
}

func (f *fakeUpstream) ResendBroadcast(_ context.Context, id string) (*broadcast.Broadcast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ResendBroadcast"); err != nil {
		return nil, err
	}
	return &broadcast.Broadcast{ID: id, Status: broadcast.StatusSent}, nil
}

// --- AuthGateway ---

func (f *fakeUpstream) Login(_ context.Context, creds hostella.Credentials) (*hostella.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Login"); err != nil {
		return nil, err
	}
	return &hostella.Session{Token: "tok-" + creds.Email, Admin: &hostella.Admin{ID: "a1", Email: creds.Email}}, nil
}

func (f *fakeUpstream) Me(context.Context) (*hostella.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Me"); err != nil {
		return nil, err
	}
	return &hostella.Admin{ID: "a1"}, nil
}

func (f *fakeUpstream) UpdateProfile(_ context.Context, upd hostella.ProfileUpdate) (*hostella.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateProfile"); err != nil {
		return nil, err
	}
	a := &hostella.Admin{ID: "a1"}
	if upd.FirstName != nil {
		a.FirstName = *upd.FirstName
	}
	return a, nil
}

// --- Publisher ---

type recordedEvent struct {
	Type string
	Key  string
	Data interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(_ context.Context, eventType, key string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: eventType, Key: key, Data: data})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// --- Wiring ---

type testStack struct {
	upstream  *fakeUpstream
	publisher *recordingPublisher
	admin     *AdminService
	payments  *PaymentService
	receipts  *ReceiptService
	bookings  *repository.GormBookingRepository
	members   *repository.GormMemberRepository
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(repository.Models()...))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	db := newTestDB(t)
	up := newFakeUpstream()
	pub := &recordingPublisher{}
	bookingRepo := repository.NewGormBookingRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)
	memberRepo := repository.NewGormMemberRepository(db)
	log := zap.NewNop()
	receipts := NewReceiptService(up, repository.NewGormReceiptRepository(db), log)

	return &testStack{
		upstream:  up,
		publisher: pub,
		admin:     NewAdminService(up, up, up, bookingRepo, paymentRepo, memberRepo, pub, log),
		payments:  NewPaymentService(up, up, paymentRepo, bookingRepo, pub, log, WithReceiptReviews(receipts)),
		receipts:  receipts,
		bookings:  bookingRepo,
		members:   memberRepo,
	}
}
