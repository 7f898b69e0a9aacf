package payment

import (
	"fmt"
	"strings"
)

// Provider identifies how money moved.
type Provider string

const (
	ProviderBankTransfer Provider = "BANK_TRANSFER"
	ProviderPaystack     Provider = "PAYSTACK"
)

// IsValid returns true if the provider is recognized.
func (p Provider) IsValid() bool {
	return p == ProviderBankTransfer || p == ProviderPaystack
}

// Status is the lifecycle state of a payment.
type Status string

const (
	StatusInitiated            Status = "INITIATED"
	StatusAwaitingVerification Status = "AWAITING_VERIFICATION"
	StatusConfirmed            Status = "CONFIRMED"
	StatusFailed               Status = "FAILED"
	StatusRefunded             Status = "REFUNDED"
)

var validTransitions = map[Status][]Status{
	StatusInitiated:            {StatusAwaitingVerification, StatusConfirmed, StatusFailed},
	StatusAwaitingVerification: {StatusConfirmed, StatusFailed},
	StatusConfirmed:            {StatusRefunded},
	StatusFailed:               {},
	StatusRefunded:             {},
}

// IsValid returns true if the status is a recognized payment status.
func (s Status) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsPending returns true while an admin can still verify the payment.
func (s Status) IsPending() bool {
	return s == StatusInitiated || s == StatusAwaitingVerification
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid payment status: %s", s)
	}
	return status, nil
}

// ParseProvider converts a string to a Provider, returning an error if invalid.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid payment provider: %s", s)
	}
	return p, nil
}
