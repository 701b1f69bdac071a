package model

import (
	"strings"
	"time"

	"github.com/carhive/rental-service/internal/errs"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// ParseStatus maps a stored status string onto the enum. Unknown values
// are an explicit error, never coerced to a default.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusCancelled:
		return StatusCancelled, nil
	case StatusCompleted:
		return StatusCompleted, nil
	default:
		return "", errs.ErrUnknownStatus
	}
}

// Active reports whether the status participates in the overlap constraint.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type Reservation struct {
	ID                 int64      `json:"id" db:"id"`
	UserID             int64      `json:"userId" db:"user_id"`
	VehicleID          int64      `json:"vehicleId" db:"vehicle_id"`
	StartDate          time.Time  `json:"startDate" db:"start_date"`
	EndDate            time.Time  `json:"endDate" db:"end_date"`
	Status             Status     `json:"status" db:"status"`
	TotalAmount        float64    `json:"totalAmount" db:"total_amount"`
	Notes              *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt          time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time  `json:"updatedAt" db:"updated_at"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty" db:"cancelled_at"`
	CancellationReason *string    `json:"cancellationReason,omitempty" db:"cancellation_reason"`
}

// Clone returns a deep copy; pointer fields get their own storage so
// callers can never reach stored state.
func (r Reservation) Clone() Reservation {
	c := r
	if r.Notes != nil {
		v := *r.Notes
		c.Notes = &v
	}
	if r.CancelledAt != nil {
		v := *r.CancelledAt
		c.CancelledAt = &v
	}
	if r.CancellationReason != nil {
		v := *r.CancellationReason
		c.CancellationReason = &v
	}
	return c
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

type CreateReservationRequest struct {
	UserID      int64     `json:"userId" validate:"required,gt=0"`
	VehicleID   int64     `json:"vehicleId" validate:"required,gt=0"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	TotalAmount float64   `json:"totalAmount" validate:"gte=0"`
	Notes       *string   `json:"notes,omitempty"`
}

type CancelReservationRequest struct {
	Reason *string `json:"reason,omitempty"`
}
