package hostella

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Hostella/service-admin/internal/domain/payment"
)

func pendingValues(q payment.PendingQuery) url.Values {
	v := url.Values{}
	if q.Provider != "" {
		v.Set("provider", string(q.Provider))
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	return v
}

// ListPayments calls GET /payments with optional filters.
func (c *Client) ListPayments(ctx context.Context, q payment.PendingQuery) ([]*payment.Payment, error) {
	var payments []*payment.Payment
	if err := c.do(ctx, request{method: http.MethodGet, path: "/payments", query: pendingValues(q)}, &payments, "payments"); err != nil {
		return nil, err
	}
	return payments, nil
}

// PaymentsForBooking calls GET /payments/booking/:id. Payments may reference a booking by
// internal id or display code, so the code is tried when the id yields nothing, and the
// result is filtered to payments that reference either form.
func (c *Client) PaymentsForBooking(ctx context.Context, bookingID, bookingCode string) ([]*payment.Payment, error) {
	var matched []*payment.Payment
	for _, key := range []string{bookingID, bookingCode} {
		if key == "" {
			continue
		}
		var payments []*payment.Payment
		err := c.do(ctx, request{method: http.MethodGet, path: pathf("/payments/booking/%s", key)}, &payments, "payments")
		if err != nil {
			if IsStatus(err, http.StatusNotFound) {
				continue
			}
			return nil, err
		}
		for _, p := range payments {
			if p.BelongsTo(bookingID, bookingCode) || (p.BookingID == "" && p.BookingCode == "") {
				matched = append(matched, p)
			}
		}
		if len(matched) > 0 {
			break
		}
	}
	return matched, nil
}

// GetPayment calls GET /payments/:id.
func (c *Client) GetPayment(ctx context.Context, id string) (*payment.Payment, error) {
	var p payment.Payment
	if err := c.do(ctx, request{method: http.MethodGet, path: pathf("/payments/%s", id)}, &p, "payment"); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePaymentStatus calls PATCH /payments/:id/status.
func (c *Client) UpdatePaymentStatus(ctx context.Context, id string, status payment.Status) (*payment.Payment, error) {
	var p payment.Payment
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   pathf("/payments/%s/status", id),
		body:   map[string]string{"status": string(status)},
	}, &p, "payment")
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, nil
	}
	return &p, nil
}

// VerifyPaystack calls GET /payments/verify/paystack/:reference.
func (c *Client) VerifyPaystack(ctx context.Context, reference string) (*payment.Payment, error) {
	var p payment.Payment
	if err := c.do(ctx, request{method: http.MethodGet, path: pathf("/payments/verify/paystack/%s", reference)}, &p, "payment"); err != nil {
		return nil, err
	}
	if p.Provider == "" {
		p.Provider = payment.ProviderPaystack
	}
	if p.Reference == "" {
		p.Reference = reference
	}
	return &p, nil
}
