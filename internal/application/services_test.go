package application

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Hostella/service-admin/internal/domain"
	"github.com/Hostella/service-admin/internal/domain/booking"
	"github.com/Hostella/service-admin/internal/domain/broadcast"
	"github.com/Hostella/service-admin/internal/domain/chat"
	"github.com/Hostella/service-admin/internal/domain/notification"
	"github.com/Hostella/service-admin/internal/hostella"
)

func TestInFlight_GuardsPerKey(t *testing.T) {
	g := NewInFlight()

	release, err := g.Acquire("approve-booking-b1")
	require.NoError(t, err)

	_, err = g.Acquire("approve-booking-b1")
	assert.True(t, domain.IsConflict(err))

	otherRelease, err := g.Acquire("approve-booking-b2")
	require.NoError(t, err)
	otherRelease()

	release()
	assert.False(t, g.Busy("approve-booking-b1"))
	release2, err := g.Acquire("approve-booking-b1")
	require.NoError(t, err)
	release2()
}

func TestValidateStruct_ListsEveryField(t *testing.T) {
	err := validateStruct(broadcast.Draft{Audience: broadcast.AudienceByHostel})
	require.Error(t, err)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	fields := make([]string, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"title", "message", "hostelName"}, fields)
}

// --- Notifications ---

func TestNotificationPoll_FailureKeepsFeed(t *testing.T) {
	up := newFakeUpstream()
	up.notifications = []notification.Notification{{ID: "n1", Title: "New booking"}}
	svc := NewNotificationService(up, time.Minute, zap.NewNop())

	svc.Poll(context.Background())
	require.Len(t, svc.List(), 1)

	up.failures["ListNotifications"] = apiErr(0, hostella.NetworkErrorMessage)
	svc.Poll(context.Background())
	assert.Len(t, svc.List(), 1)
	assert.Equal(t, 1, svc.UnreadCount())
}

func TestNotificationSocket_RedeliveryIgnored(t *testing.T) {
	svc := NewNotificationService(newFakeUpstream(), 0, zap.NewNop())
	var delivered []string
	svc.OnNotification(func(n notification.Notification) { delivered = append(delivered, n.ID) })

	frame := json.RawMessage(`{"id":"n7","type":"payment","title":"Payment received"}`)
	require.NoError(t, svc.HandleSocket(frame))
	require.NoError(t, svc.HandleSocket(frame))

	assert.Equal(t, []string{"n7"}, delivered)
	assert.Len(t, svc.List(), 1)
	assert.Error(t, svc.HandleSocket(json.RawMessage(`{not json`)))
}

func TestNotificationSocket_RefreshesReferencedBooking(t *testing.T) {
	st := newTestStack(t)
	ctx := context.Background()
	st.upstream.bookings["b1"] = stored("b1", "BK-1", "pending approval", nil)
	require.NoError(t, st.admin.SyncBookings(ctx))

	svc := NewNotificationService(st.upstream, 0, zap.NewNop())
	svc.OnNotification(st.admin.BookingNotificationListener(ctx))

	st.upstream.setStatus("b1", booking.StatusApproved)
	require.NoError(t, svc.HandleSocket(json.RawMessage(`{"id":"n8","type":"booking","title":"Approved","data":{"bookingCode":"BK-1"}}`)))

	snap, err := st.bookings.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusApproved, snap.Status())
}

func TestNotificationService_StartPollsImmediately(t *testing.T) {
	up := newFakeUpstream()
	up.notifications = []notification.Notification{{ID: "n1"}, {ID: "n2", IsRead: true}}
	svc := NewNotificationService(up, time.Hour, zap.NewNop())

	require.NoError(t, svc.Start(context.Background()))
	t.Cleanup(func() { _ = svc.Stop() })

	require.Eventually(t, func() bool { return len(svc.List()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, svc.UnreadCount())
	require.NoError(t, svc.Stop())
	assert.NoError(t, svc.Stop())
}

func TestNotificationMarkRead_LocalOnlyAfterUpstream(t *testing.T) {
	up := newFakeUpstream()
	up.notifications = []notification.Notification{{ID: "n1"}, {ID: "n2"}}
	svc := NewNotificationService(up, 0, zap.NewNop())
	svc.Poll(context.Background())

	up.failures["MarkNotificationRead"] = apiErr(http.StatusInternalServerError, "boom")
	require.Error(t, svc.MarkRead(context.Background(), "n1"))
	assert.Equal(t, 2, svc.UnreadCount())

	delete(up.failures, "MarkNotificationRead")
	require.NoError(t, svc.MarkRead(context.Background(), "n1"))
	assert.Equal(t, 1, svc.UnreadCount())

	require.NoError(t, svc.MarkAllRead(context.Background()))
	assert.Zero(t, svc.UnreadCount())

	require.NoError(t, svc.Delete(context.Background(), "n2"))
	assert.Len(t, svc.List(), 1)
}

// --- Chat ---

func TestChat_SendRejectsBlankAndMergesSocket(t *testing.T) {
	up := newFakeUpstream()
	svc := NewChatService(up, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Send(ctx, "c1", "   ")
	require.True(t, domain.IsValidation(err))
	assert.Zero(t, up.called("SendChatMessage"))

	sent, err := svc.Send(ctx, "c1", " hello ")
	require.NoError(t, err)
	assert.Equal(t, "hello", sent.Content)

	frame, err := json.Marshal(chat.Message{ID: "s1", ChatID: "c1", Content: "hi admin", CreatedAt: time.Now().Add(time.Second)})
	require.NoError(t, err)
	require.NoError(t, svc.HandleSocket(frame))
	require.NoError(t, svc.HandleSocket(frame))
	assert.True(t, domain.IsValidation(svc.HandleSocket(json.RawMessage(`{"id":"x"}`))))

	msgs, err := svc.Messages(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, "hi admin", msgs[1].Content)

	require.NoError(t, svc.Close(ctx, "c1"))
	up.messages["c1"] = nil
	msgs, err = svc.Messages(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestChat_AttachmentSizeLimit(t *testing.T) {
	up := newFakeUpstream()
	svc := NewChatService(up, zap.NewNop())

	_, err := svc.Attach(context.Background(), "c1", "big.pdf", MaxAttachmentBytes+1, strings.NewReader(""))
	require.True(t, domain.IsValidation(err))
	assert.Zero(t, up.called("UploadChatAttachment"))

	m, err := svc.Attach(context.Background(), "c1", "receipt.png", 12, strings.NewReader("png-bytes..."))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/receipt.png", m.AttachmentURL)
}

// --- Broadcasts ---

func TestBroadcast_HostelAudienceNeedsHostel(t *testing.T) {
	up := newFakeUpstream()
	svc := NewBroadcastService(up, zap.NewNop())

	_, err := svc.Create(context.Background(), broadcast.Draft{Title: "Water", Message: "Off tonight", Audience: broadcast.AudienceByHostel})
	require.True(t, domain.IsValidation(err))
	assert.Equal(t, "hostelName: is required", err.Error())

	b, err := svc.Create(context.Background(), broadcast.Draft{Title: "Water", Message: "Off tonight", Audience: broadcast.AudienceAll})
	require.NoError(t, err)
	assert.Equal(t, broadcast.StatusSent, b.Status)
}

func TestBroadcast_ScheduleMustBeInFuture(t *testing.T) {
	up := newFakeUpstream()
	svc := NewBroadcastService(up, zap.NewNop())
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	past := fixed.Add(-time.Minute)
	_, err := svc.Create(context.Background(), broadcast.Draft{Title: "t", Message: "m", Audience: broadcast.AudienceAll, ScheduledAt: &past})
	require.True(t, domain.IsValidation(err))
	assert.Equal(t, "scheduledAt: must be in the future", err.Error())

	future := fixed.Add(time.Hour)
	b, err := svc.Create(context.Background(), broadcast.Draft{Title: "t", Message: "m", Audience: broadcast.AudienceMembers, ScheduledAt: &future})
	require.NoError(t, err)
	assert.Equal(t, broadcast.StatusScheduled, b.Status)
	assert.Equal(t, 1, up.called("ScheduleBroadcast"))
	assert.Zero(t, up.called("CreateBroadcast"))

	_, err = svc.Schedule(context.Background(), broadcast.Draft{Title: "t", Message: "m", Audience: broadcast.AudienceAll})
	assert.True(t, domain.IsValidation(err))
}

// --- Auth ---

func TestAuth_LoginStoresTokenLogoutClears(t *testing.T) {
	up := newFakeUpstream()
	tokens := hostella.NewMemoryTokenStore()
	svc := NewAuthService(up, tokens, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Login(ctx, hostella.Credentials{Email: "nope", Password: "x"})
	require.True(t, domain.IsValidation(err))
	assert.Zero(t, up.called("Login"))

	session, err := svc.Login(ctx, hostella.Credentials{Email: "admin@hostella.test", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok-admin@hostella.test", session.Token)
	tok, err := tokens.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Token, tok)

	require.NoError(t, svc.Logout(ctx))
	tok, err = tokens.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestAuth_LoginFailureLeavesTokenUnset(t *testing.T) {
	up := newFakeUpstream()
	up.failures["Login"] = apiErr(http.StatusUnauthorized, "Invalid credentials")
	tokens := hostella.NewMemoryTokenStore()
	svc := NewAuthService(up, tokens, zap.NewNop())

	_, err := svc.Login(context.Background(), hostella.Credentials{Email: "admin@hostella.test", Password: "bad"})
	require.Error(t, err)
	assert.True(t, hostella.IsUnauthorized(err))
	tok, _ := tokens.Token(context.Background())
	assert.Empty(t, tok)
}
