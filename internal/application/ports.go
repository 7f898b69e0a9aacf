package application

import (
	"context"
	"io"

	"github.com/Hostella/service-admin/internal/domain/booking"
	"github.com/Hostella/service-admin/internal/domain/broadcast"
	"github.com/Hostella/service-admin/internal/domain/chat"
	"github.com/Hostella/service-admin/internal/domain/member"
	"github.com/Hostella/service-admin/internal/domain/notification"
	"github.com/Hostella/service-admin/internal/domain/payment"
	"github.com/Hostella/service-admin/internal/domain/room"
	"github.com/Hostella/service-admin/internal/hostella"
)

// BookingGateway is the upstream booking API.
type BookingGateway interface {
	ListBookings(ctx context.Context) ([]*booking.Booking, error)
	GetBooking(ctx context.Context, id string) (*booking.Booking, error)
	CreateBooking(ctx context.Context, b *booking.Booking) (*booking.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	SuitableRooms(ctx context.Context, bookingID string) ([]room.Room, error)
	AssignRoom(ctx context.Context, bookingID, roomID string) (*booking.Booking, error)
	ApproveBooking(ctx context.Context, bookingID string) (*booking.Booking, error)
	CompleteOnboarding(ctx context.Context, bookingID string) (*booking.Booking, error)
	CancelBooking(ctx context.Context, bookingID string, reason *string) (*booking.Booking, error)
	RemoveStudent(ctx context.Context, bookingID string) (*booking.Booking, error)
	ApproveBookingPayment(ctx context.Context, bookingID string) (*booking.Booking, error)
}

// PaymentGateway is the upstream payment API.
type PaymentGateway interface {
	ListPayments(ctx context.Context, q payment.PendingQuery) ([]*payment.Payment, error)
	PaymentsForBooking(ctx context.Context, bookingID, bookingCode string) ([]*payment.Payment, error)
	GetPayment(ctx context.Context, id string) (*payment.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id string, status payment.Status) (*payment.Payment, error)
	VerifyPaystack(ctx context.Context, reference string) (*payment.Payment, error)
}

// MemberGateway is the upstream member API.
type MemberGateway interface {
	ListMembers(ctx context.Context) ([]*member.Member, error)
	UpdateMember(ctx context.Context, id string, upd member.Update) (*member.Member, error)
	DeleteMember(ctx context.Context, id string) error
	ReassignRoom(ctx context.Context, memberID, roomID string) error
	UnassignRoom(ctx context.Context, memberID string) error
}

// NotificationGateway is the upstream notification API.
type NotificationGateway interface {
	ListNotifications(ctx context.Context) ([]notification.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
}

// ChatGateway is the upstream chat API.
type ChatGateway interface {
	ChatMessages(ctx context.Context, chatID string) ([]chat.Message, error)
	SendChatMessage(ctx context.Context, chatID, content string) (*chat.Message, error)
	UploadChatAttachment(ctx context.Context, chatID, filename string, file io.Reader) (*chat.Message, error)
	CloseChat(ctx context.Context, chatID string) error
	ActiveChats(ctx context.Context) ([]chat.Conversation, error)
}

// BroadcastGateway is the upstream broadcast API.
type BroadcastGateway interface {
	ListBroadcasts(ctx context.Context) ([]*broadcast.Broadcast, error)
	CreateBroadcast(ctx context.Context, d broadcast.Draft) (*broadcast.Broadcast, error)
	ScheduleBroadcast(ctx context.Context, d broadcast.Draft) (*broadcast.Broadcast, error)
	UpdateBroadcast(ctx context.Context, id string, d broadcast.Draft) (*broadcast.Broadcast, error)
	DeleteBroadcast(ctx context.Context, id string) error
	ResendBroadcast(ctx context.Context, id string) (*broadcast.Broadcast, error)
}

// AuthGateway is the upstream auth API.
type AuthGateway interface {
	Login(ctx context.Context, creds hostella.Credentials) (*hostella.Session, error)
	Me(ctx context.Context) (*hostella.Admin, error)
	UpdateProfile(ctx context.Context, upd hostella.ProfileUpdate) (*hostella.Admin, error)
}

// EventPublisher emits audit events for confirmed admin actions.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data interface{}) error
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, interface{}) error { return nil }
