package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carhive/rental-service/internal/errs"
	"github.com/carhive/rental-service/internal/model"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		want    model.Status
		wantErr error
	}{
		{name: "pending", in: "PENDING", want: model.StatusPending},
		{name: "lowercase", in: "confirmed", want: model.StatusConfirmed},
		{name: "padded", in: "  CANCELLED ", want: model.StatusCancelled},
		{name: "completed", in: "COMPLETED", want: model.StatusCompleted},
		{name: "unknown is an error, not a default", in: "RENTED", wantErr: errs.ErrUnknownStatus},
		{name: "empty", in: "", wantErr: errs.ErrUnknownStatus},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := model.ParseStatus(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_Lifecycle(t *testing.T) {
	t.Parallel()
	require.True(t, model.StatusPending.Active())
	require.True(t, model.StatusConfirmed.Active())
	require.False(t, model.StatusCancelled.Active())
	require.False(t, model.StatusCompleted.Active())

	require.True(t, model.StatusCancelled.Terminal())
	require.True(t, model.StatusCompleted.Terminal())
	require.False(t, model.StatusPending.Terminal())
}

func TestOverlaps(t *testing.T) {
	t.Parallel()
	day := func(d int) time.Time {
		return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
	}
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"partial overlap", day(1), day(5), day(3), day(7), true},
		{"contained", day(1), day(10), day(3), day(5), true},
		{"identical", day(1), day(5), day(1), day(5), true},
		{"touching at end does not conflict", day(1), day(5), day(5), day(7), false},
		{"touching at start does not conflict", day(5), day(7), day(1), day(5), false},
		{"disjoint", day(1), day(3), day(5), day(7), false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, model.Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// the predicate is symmetric
			require.Equal(t, tt.want, model.Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestReservation_Clone(t *testing.T) {
	t.Parallel()
	notes := "airport pickup"
	reason := "changed plans"
	cancelled := time.Date(2024, time.June, 2, 12, 0, 0, 0, time.UTC)
	orig := model.Reservation{
		ID:                 7,
		UserID:             1,
		VehicleID:          2,
		Status:             model.StatusCancelled,
		Notes:              &notes,
		CancelledAt:        &cancelled,
		CancellationReason: &reason,
	}

	clone := orig.Clone()
	require.Equal(t, orig, clone)

	*clone.Notes = "mutated"
	*clone.CancellationReason = "mutated"
	*clone.CancelledAt = clone.CancelledAt.Add(time.Hour)

	require.Equal(t, "airport pickup", *orig.Notes)
	require.Equal(t, "changed plans", *orig.CancellationReason)
	require.Equal(t, cancelled, *orig.CancelledAt)
}
