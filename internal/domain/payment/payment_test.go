package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hostella/service-admin/internal/domain"
)

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusInitiated.CanTransitionTo(StatusAwaitingVerification))
	assert.True(t, StatusAwaitingVerification.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusRefunded))
	assert.False(t, StatusFailed.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusRefunded.IsTerminal())
	assert.False(t, StatusConfirmed.IsPending())
}

func TestParse(t *testing.T) {
	s, err := ParseStatus("awaiting_verification")
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingVerification, s)

	_, err = ParseStatus("settled")
	assert.Error(t, err)

	p, err := ParseProvider("paystack")
	require.NoError(t, err)
	assert.Equal(t, ProviderPaystack, p)
}

func TestVerify(t *testing.T) {
	p := &Payment{ID: "p1", Status: StatusAwaitingVerification}
	assert.NoError(t, p.Verify(StatusConfirmed))
	assert.NoError(t, p.Verify(StatusFailed))
	assert.True(t, domain.IsValidation(p.Verify(StatusRefunded)))

	done := &Payment{ID: "p2", Status: StatusConfirmed}
	assert.True(t, domain.IsInvalidState(done.Verify(StatusConfirmed)))
}

func TestBelongsTo_BothIDForms(t *testing.T) {
	byID := &Payment{BookingID: "64f0c1"}
	byCode := &Payment{BookingID: "BK-1234"}

	assert.True(t, byID.BelongsTo("64f0c1", "BK-1234"))
	assert.True(t, byCode.BelongsTo("64f0c1", "BK-1234"))
	assert.False(t, byCode.BelongsTo("64f0c1", "BK-9999"))
}

func TestMergePending_KeepsTagsAndDedupes(t *testing.T) {
	now := time.Now()
	bank := []*Payment{{ID: "p1", Provider: ProviderBankTransfer, Status: StatusAwaitingVerification, CreatedAt: now.Add(-time.Hour)}}
	paystackInit := []*Payment{{ID: "p2", CreatedAt: now}}
	PendingQueries()[1].Tag(paystackInit[0])
	paystackAwait := []*Payment{{ID: "p1", Provider: ProviderPaystack, CreatedAt: now}}

	merged := MergePending(bank, paystackInit, paystackAwait)
	require.Len(t, merged, 2)
	assert.Equal(t, "p2", merged[0].ID)
	assert.Equal(t, ProviderPaystack, merged[0].Provider)
	assert.Equal(t, StatusInitiated, merged[0].Status)
	assert.Equal(t, ProviderBankTransfer, merged[1].Provider)
}

func TestNeedsReceiptReview(t *testing.T) {
	p := &Payment{Provider: ProviderBankTransfer, ReceiptURL: "https://cdn/r.png", Status: StatusAwaitingVerification}
	assert.True(t, p.NeedsReceiptReview())
	p.Provider = ProviderPaystack
	assert.False(t, p.NeedsReceiptReview())
}

func TestLatest(t *testing.T) {
	now := time.Now()
	a := &Payment{ID: "a", CreatedAt: now.Add(-time.Minute)}
	b := &Payment{ID: "b", CreatedAt: now}
	assert.Equal(t, b, Latest([]*Payment{a, b}))
	assert.Nil(t, Latest(nil))
}
