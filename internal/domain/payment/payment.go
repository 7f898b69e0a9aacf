package payment

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/Hostella/service-admin/internal/domain"
)

// Payment is the aggregate root for one money-movement attempt tied to a booking.
type Payment struct {
	ID string `json:"id"`
	// BookingID is the internal booking id when the server reported it.
	BookingID string `json:"bookingId,omitempty"`
	// BookingCode is the display booking code when the server reported that form instead.
	BookingCode string   `json:"bookingCode,omitempty"`
	Provider    Provider `json:"provider"`
	Status      Status   `json:"status"`
	Amount      float64  `json:"amount"`
	Currency    string   `json:"currency,omitempty"`

	ReceiptURL   string          `json:"receiptUrl,omitempty"`
	Reference    string          `json:"reference,omitempty"`
	Verification json.RawMessage `json:"verification,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BelongsTo reports whether the payment references the booking by either id form.
func (p *Payment) BelongsTo(bookingID, bookingCode string) bool {
	if bookingID != "" && (p.BookingID == bookingID || p.BookingCode == bookingID) {
		return true
	}
	return bookingCode != "" && (p.BookingCode == bookingCode || p.BookingID == bookingCode)
}

// Verify checks that an admin decision is legal. Only CONFIRMED or FAILED may be chosen,
// and only while the payment is pending.
func (p *Payment) Verify(target Status) error {
	if target != StatusConfirmed && target != StatusFailed {
		return domain.NewFieldValidationError("status", "must be CONFIRMED or FAILED")
	}
	if !p.Status.IsPending() || !p.Status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(p.Status), "verify-payment")
	}
	return nil
}

// NeedsReceiptReview returns true for bank transfers whose receipt should be inspected
// before confirming.
func (p *Payment) NeedsReceiptReview() bool {
	return p.Provider == ProviderBankTransfer && p.ReceiptURL != "" && p.Status.IsPending()
}

// PendingQuery is one provider/status combination the server can list.
type PendingQuery struct {
	Provider Provider
	Status   Status
}

// PendingQueries returns the filtered listings that together make up the pending feed.
// The server has no single "all pending" endpoint.
func PendingQueries() []PendingQuery {
	return []PendingQuery{
		{Provider: ProviderBankTransfer, Status: StatusAwaitingVerification},
		{Provider: ProviderPaystack, Status: StatusInitiated},
		{Provider: ProviderPaystack, Status: StatusAwaitingVerification},
	}
}

// Tag fills provider and status from the query when the server omitted them. Values the
// server did report are kept.
func (q PendingQuery) Tag(p *Payment) {
	if p.Provider == "" {
		p.Provider = q.Provider
	}
	if p.Status == "" {
		p.Status = q.Status
	}
}

// MergePending combines per-query results, dropping duplicate ids and ordering newest first.
func MergePending(batches ...[]*Payment) []*Payment {
	seen := make(map[string]struct{})
	var merged []*Payment
	for _, batch := range batches {
		for _, p := range batch {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			merged = append(merged, p)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}

// Latest returns the most recently created payment, or nil.
func Latest(payments []*Payment) *Payment {
	var latest *Payment
	for _, p := range payments {
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = p
		}
	}
	return latest
}
