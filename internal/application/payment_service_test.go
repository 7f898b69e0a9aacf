package application

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hostella/service-admin/internal/domain"
	"github.com/Hostella/service-admin/internal/domain/booking"
	"github.com/Hostella/service-admin/internal/domain/payment"
)

func seedPayment(up *fakeUpstream, id, bookingCode string, provider payment.Provider, status payment.Status, age time.Duration) {
	up.payments[id] = &payment.Payment{
		ID: id, BookingCode: bookingCode, Provider: provider, Status: status,
		Amount: 4500, CreatedAt: time.Now().Add(-age),
	}
}

func TestPendingPayments_MergesAllQueriesNewestFirst(t *testing.T) {
	st := newTestStack(t)
	seedPayment(st.upstream, "p1", "BK-1", payment.ProviderBankTransfer, payment.StatusAwaitingVerification, 3*time.Hour)
	seedPayment(st.upstream, "p2", "BK-2", payment.ProviderPaystack, payment.StatusInitiated, time.Hour)
	seedPayment(st.upstream, "p3", "BK-3", payment.ProviderPaystack, payment.StatusAwaitingVerification, 2*time.Hour)
	seedPayment(st.upstream, "p4", "BK-4", payment.ProviderPaystack, payment.StatusConfirmed, 0)

	got, err := st.payments.PendingPayments(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "p2", got[0].ID)
	assert.Equal(t, "p3", got[1].ID)
	assert.Equal(t, "p1", got[2].ID)
	assert.Equal(t, payment.ProviderBankTransfer, got[2].Provider)

	for _, q := range payment.PendingQueries() {
		assert.Equal(t, 1, st.upstream.called("ListPayments:"+string(q.Provider)+":"+string(q.Status)))
	}
}

func TestPendingPayments_AnyQueryFailureFailsFeed(t *testing.T) {
	st := newTestStack(t)
	seedPayment(st.upstream, "p1", "BK-1", payment.ProviderBankTransfer, payment.StatusAwaitingVerification, 0)
	st.upstream.failures["ListPayments:PAYSTACK:INITIATED"] = apiErr(http.StatusInternalServerError, "Server error")

	got, err := st.payments.PendingPayments(context.Background())
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, "Server error", err.Error())
}

func TestVerifyPayment_RefetchesBookingByCode(t *testing.T) {
	st := newTestStack(t)
	ctx := context.Background()
	st.upstream.bookings["b1"] = stored("b1", "BK-1", "pending payment", nil)
	require.NoError(t, st.admin.SyncBookings(ctx))
	seedPayment(st.upstream, "p1", "BK-1", payment.ProviderBankTransfer, payment.StatusAwaitingVerification, 0)

	res, err := st.payments.VerifyPayment(ctx, "p1", VerifyPaymentRequest{Status: "CONFIRMED"})
	require.NoError(t, err)
	assert.Equal(t, payment.StatusConfirmed, res.Payment.Status)
	require.NotNil(t, res.Booking)
	assert.Equal(t, string(booking.StatusPendingApproval), res.Booking.Status)

	snap, err := st.bookings.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPendingApproval, snap.Status())
	assert.Contains(t, st.publisher.types(), EventPaymentVerified)
}

func TestVerifyPayment_RejectsInvalidDecisions(t *testing.T) {
	st := newTestStack(t)
	ctx := context.Background()
	seedPayment(st.upstream, "p1", "BK-1", payment.ProviderBankTransfer, payment.StatusConfirmed, 0)

	_, err := st.payments.VerifyPayment(ctx, "p1", VerifyPaymentRequest{Status: "REFUNDED"})
	require.True(t, domain.IsValidation(err))
	assert.Equal(t, "status: must be one of: CONFIRMED, FAILED", err.Error())

	_, err = st.payments.VerifyPayment(ctx, "p1", VerifyPaymentRequest{Status: "FAILED"})
	assert.True(t, domain.IsInvalidState(err))
	assert.Zero(t, st.upstream.called("UpdatePaymentStatus"))
}

func TestVerifyPayment_UpstreamErrorNotStored(t *testing.T) {
	st := newTestStack(t)
	seedPayment(st.upstream, "p1", "BK-1", payment.ProviderBankTransfer, payment.StatusAwaitingVerification, 0)
	st.upstream.failures["UpdatePaymentStatus"] = apiErr(http.StatusConflict, "Payment already processed")

	_, err := st.payments.VerifyPayment(context.Background(), "p1", VerifyPaymentRequest{Status: "CONFIRMED"})
	require.Error(t, err)
	assert.Equal(t, "Payment already processed", err.Error())
	assert.Empty(t, st.publisher.types())
}

func TestVerifyPaystack_RequiresReference(t *testing.T) {
	st := newTestStack(t)

	_, err := st.payments.VerifyPaystack(context.Background(), "")
	assert.True(t, domain.IsValidation(err))

	p, err := st.payments.VerifyPaystack(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "ref-1", p.Reference)
}

func TestViewReceipt_RecordsReviewAndClearsFlag(t *testing.T) {
	st := newTestStack(t)
	ctx := context.Background()
	seedPayment(st.upstream, "p1", "BK-1", payment.ProviderBankTransfer, payment.StatusAwaitingVerification, 0)
	st.upstream.payments["p1"].ReceiptURL = "https://cdn.test/r1.png"
	seedPayment(st.upstream, "p2", "BK-2", payment.ProviderBankTransfer, payment.StatusAwaitingVerification, 0)
	st.upstream.payments["p2"].ReceiptURL = "https://cdn.test/r2.png"

	view, err := st.receipts.ViewReceipt(ctx, "p1", "ops@hostella.test", ViewReceiptRequest{Note: "matches statement"})
	require.NoError(t, err)
	assert.True(t, view.NeedsReview)
	assert.Equal(t, "https://cdn.test/r1.png", view.ReceiptURL)
	require.Len(t, view.Reviews, 1)
	assert.Equal(t, "ops@hostella.test", view.Reviews[0].Reviewer)

	reviewed, err := st.payments.VerifyPayment(ctx, "p1", VerifyPaymentRequest{Status: "CONFIRMED"})
	require.NoError(t, err)
	assert.False(t, reviewed.ReceiptUnreviewed)

	unseen, err := st.payments.VerifyPayment(ctx, "p2", VerifyPaymentRequest{Status: "CONFIRMED"})
	require.NoError(t, err)
	assert.True(t, unseen.ReceiptUnreviewed)
	assert.Equal(t, payment.StatusConfirmed, unseen.Payment.Status)
}

func TestViewReceipt_NoReceipt(t *testing.T) {
	st := newTestStack(t)
	seedPayment(st.upstream, "p1", "BK-1", payment.ProviderPaystack, payment.StatusInitiated, 0)
	seedPayment(st.upstream, "p2", "BK-2", payment.ProviderBankTransfer, payment.StatusAwaitingVerification, 0)

	_, err := st.receipts.ViewReceipt(context.Background(), "p1", "ops", ViewReceiptRequest{})
	assert.True(t, domain.IsValidation(err))

	_, err = st.receipts.ViewReceipt(context.Background(), "p2", "ops", ViewReceiptRequest{})
	assert.True(t, domain.IsNotFound(err))

	reviews, err := st.receipts.Reviews(context.Background(), "p2")
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
