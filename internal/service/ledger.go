package service

import (
	"sort"
	"sync"
	"time"

	"github.com/carhive/rental-service/internal/errs"
	"github.com/carhive/rental-service/internal/model"
)

// ledger is the in-memory reservation store used once the persistent
// backend has been judged unreachable. One mutex guards the latch, the
// id counter and the records; every operation holds it for its full
// duration. Reads hand out clones, never stored records.
type ledger struct {
	mu      sync.Mutex
	engaged bool
	nextID  int64
	records []model.Reservation
}

func newLedger() *ledger {
	return &ledger{nextID: 1}
}

func (l *ledger) isEngaged() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engaged
}

// engage trips the latch. Reports whether this call was the one that
// tripped it; once true it never reverts within the session.
func (l *ledger) engage() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.engaged {
		return false
	}
	l.engaged = true
	return true
}

func (l *ledger) listUser(userID int64) []model.Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]model.Reservation, 0)
	for _, r := range l.records {
		if r.UserID == userID {
			items = append(items, r.Clone())
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartDate.After(items[j].StartDate)
	})
	return items
}

func (l *ledger) listAll() []model.Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]model.Reservation, 0, len(l.records))
	for _, r := range l.records {
		items = append(items, r.Clone())
	}
	return items
}

func (l *ledger) available(vehicleID int64, start, end time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.availableLocked(vehicleID, start, end)
}

func (l *ledger) availableLocked(vehicleID int64, start, end time.Time) bool {
	for _, r := range l.records {
		if r.VehicleID == vehicleID && r.Status.Active() &&
			model.Overlaps(r.StartDate, r.EndDate, start, end) {
			return false
		}
	}
	return true
}

// create re-checks the overlap invariant and inserts under one lock
// acquisition, so no other create can slip in between check and insert.
func (l *ledger) create(res *model.Reservation) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.availableLocked(res.VehicleID, res.StartDate, res.EndDate) {
		return errs.WithKind(errs.KindConflict, errs.ErrVehicleUnavailable)
	}

	stored := res.Clone()
	stored.ID = l.nextID
	l.nextID++
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	l.records = append(l.records, stored)

	res.ID = stored.ID
	res.CreatedAt = stored.CreatedAt
	res.UpdatedAt = stored.UpdatedAt
	return nil
}

func (l *ledger) cancel(id int64, reason *string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.records {
		r := &l.records[i]
		if r.ID != id {
			continue
		}
		if !r.Status.Active() {
			return false
		}
		now := time.Now().UTC()
		r.Status = model.StatusCancelled
		r.CancelledAt = &now
		r.UpdatedAt = now
		if reason != nil {
			v := *reason
			r.CancellationReason = &v
		} else {
			r.CancellationReason = nil
		}
		return true
	}
	return false
}
