package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("reservation not found")
	ErrNilReservation     = errors.New("reservation is required")
	ErrInvalidInterval    = errors.New("start date must be before end date")
	ErrVehicleUnavailable = errors.New("the vehicle is not available for the selected dates")
	ErrUnknownStatus      = errors.New("unknown reservation status")
)

// Kind tags a storage failure at the adapter boundary so callers can
// branch on an enumerated class instead of inspecting driver internals.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindConnectivity
	KindConflict
	KindValidation
	KindCancelled
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindCancelled:
		return "cancelled"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string {
	return fmt.Sprintf("%s: %v", e.kind, e.err)
}

func (e *kindError) Unwrap() error { return e.err }

// WithKind tags err with a Kind. A nil err stays nil.
func WithKind(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// KindOf reports the Kind err was tagged with, or KindUnknown.
func KindOf(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindUnknown
}
