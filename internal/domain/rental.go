package domain

import (
	"fmt"
	"time"
)

type RequestID int64

type CountryID int

type ApplicationID int

type RentalStatus string

const (
	RentalStatusPending  RentalStatus = "pending"
	RentalStatusReady    RentalStatus = "ready"
	RentalStatusReceived RentalStatus = "received"
	RentalStatusClose    RentalStatus = "close"
	RentalStatusReject   RentalStatus = "reject"
	RentalStatusUsed     RentalStatus = "used"
	RentalStatusError    RentalStatus = "error"
)

var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusPending:  {RentalStatusReady, RentalStatusReceived, RentalStatusClose, RentalStatusReject, RentalStatusUsed, RentalStatusError},
	RentalStatusReady:    {RentalStatusReceived, RentalStatusClose, RentalStatusReject, RentalStatusUsed, RentalStatusError},
	RentalStatusReceived: {RentalStatusClose, RentalStatusReject, RentalStatusUsed},
	RentalStatusUsed:     {RentalStatusClose, RentalStatusReject},
	RentalStatusError:    {RentalStatusClose, RentalStatusReject},
}

func ParseRentalStatus(raw string) (RentalStatus, error) {
	status := RentalStatus(raw)
	switch status {
	case RentalStatusPending, RentalStatusReady, RentalStatusReceived, RentalStatusClose,
		RentalStatusReject, RentalStatusUsed, RentalStatusError:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

// ParseRemoteStatus accepts only the statuses the remote set-status call understands.
func ParseRemoteStatus(raw string) (RentalStatus, error) {
	status := RentalStatus(raw)
	if !status.IsRemoteSettable() {
		return "", fmt.Errorf("%w: %q (want ready, close, reject or used)", ErrInvalidStatus, raw)
	}
	return status, nil
}

func (s RentalStatus) IsPollable() bool {
	return s == RentalStatusPending || s == RentalStatusReady
}

// IsTerminal reports whether no further code delivery is expected.
func (s RentalStatus) IsTerminal() bool {
	switch s {
	case RentalStatusReceived, RentalStatusClose, RentalStatusReject, RentalStatusUsed:
		return true
	default:
		return false
	}
}

func (s RentalStatus) IsRemoteSettable() bool {
	switch s {
	case RentalStatusReady, RentalStatusClose, RentalStatusReject, RentalStatusUsed:
		return true
	default:
		return false
	}
}

// Retires reports whether reaching the status archives the rental and drops it from the active set.
func (s RentalStatus) Retires() bool {
	return s == RentalStatusClose || s == RentalStatusReject
}

func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	for _, candidate := range rentalTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

type Rental struct {
	RequestID     RequestID
	Number        string
	CountryID     CountryID
	ApplicationID ApplicationID
	CountryName   string
	ServiceName   string
	SMSCode       string
	Status        RentalStatus
	CreatedAt     time.Time
	AccountID     AccountID
}

// SameLease reports whether other describes the same lease, not just the same remote id.
func (r Rental) SameLease(other Rental) bool {
	return r.RequestID == other.RequestID &&
		r.AccountID == other.AccountID &&
		r.CreatedAt.Equal(other.CreatedAt)
}
