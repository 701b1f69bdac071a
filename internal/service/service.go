package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/carhive/rental-service/internal/errs"
	"github.com/carhive/rental-service/internal/events"
	"github.com/carhive/rental-service/internal/model"
	"github.com/carhive/rental-service/internal/repository"
)

// Service is the single entry point for reservation operations. It
// enforces the overlap invariant before any create and hides backend
// connectivity failures behind a one-way in-memory fallback: once a
// connectivity-class error is seen, every later call is served from
// the ledger for the rest of the session.
type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	events   events.Publisher
	fallback *ledger
}

func NewService(repo repository.Repository, pub events.Publisher, log *zap.Logger) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		events:   pub,
		fallback: newLedger(),
	}
}

// Degraded reports whether the service has latched onto the in-memory
// fallback store.
func (s *Service) Degraded() bool {
	return s.fallback.isEngaged()
}

func (s *Service) engageFallback(op string, err error) {
	if s.fallback.engage() {
		s.log.Warn("persistent store unreachable, switching to in-memory reservations",
			zap.String("op", op), zap.Error(err))
	}
}

// shouldFallback reports whether err is a connectivity-class failure.
// Caller-initiated cancellation and business-rule rejections never
// trip the latch.
func shouldFallback(err error) bool {
	return errs.KindOf(err) == errs.KindConnectivity
}

func (s *Service) GetUserReservations(ctx context.Context, userID int64) ([]model.Reservation, error) {
	if s.fallback.isEngaged() {
		return s.fallback.listUser(userID), nil
	}
	items, err := s.repo.GetUserReservations(ctx, userID)
	if err != nil {
		if !shouldFallback(err) {
			return nil, err
		}
		s.engageFallback("GetUserReservations", err)
		return s.fallback.listUser(userID), nil
	}
	return items, nil
}

func (s *Service) GetAll(ctx context.Context) ([]model.Reservation, error) {
	if s.fallback.isEngaged() {
		return s.fallback.listAll(), nil
	}
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		if !shouldFallback(err) {
			return nil, err
		}
		s.engageFallback("GetAll", err)
		return s.fallback.listAll(), nil
	}
	return items, nil
}

// IsAvailable reports whether no PENDING or CONFIRMED reservation for
// the vehicle intersects the half-open interval [start, end).
// Intervals that merely touch at an endpoint do not conflict.
func (s *Service) IsAvailable(ctx context.Context, vehicleID int64, start, end time.Time) (bool, error) {
	if !start.Before(end) {
		return false, errs.WithKind(errs.KindValidation, errs.ErrInvalidInterval)
	}
	if s.fallback.isEngaged() {
		return s.fallback.available(vehicleID, start, end), nil
	}
	ok, err := s.repo.IsVehicleAvailable(ctx, vehicleID, start, end)
	if err != nil {
		if !shouldFallback(err) {
			return false, err
		}
		s.engageFallback("IsAvailable", err)
		return s.fallback.available(vehicleID, start, end), nil
	}
	return ok, nil
}

// CreateReservation re-validates availability immediately before the
// insert; a prior IsAvailable result is not trusted. New reservations
// always start as PENDING.
func (s *Service) CreateReservation(ctx context.Context, req *model.CreateReservationRequest) (model.Reservation, error) {
	if req == nil {
		return model.Reservation{}, errs.WithKind(errs.KindValidation, errs.ErrNilReservation)
	}
	if !req.StartDate.Before(req.EndDate) {
		return model.Reservation{}, errs.WithKind(errs.KindValidation, errs.ErrInvalidInterval)
	}

	res := model.Reservation{
		UserID:      req.UserID,
		VehicleID:   req.VehicleID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      model.StatusPending,
		TotalAmount: req.TotalAmount,
		Notes:       req.Notes,
	}

	if s.fallback.isEngaged() {
		return s.createFallback(res)
	}

	available, err := s.repo.IsVehicleAvailable(ctx, res.VehicleID, res.StartDate, res.EndDate)
	if err != nil {
		if !shouldFallback(err) {
			return model.Reservation{}, err
		}
		s.engageFallback("CreateReservation", err)
		return s.createFallback(res)
	}
	if !available {
		return model.Reservation{}, errs.WithKind(errs.KindConflict, errs.ErrVehicleUnavailable)
	}

	if err := s.repo.CreateReservation(ctx, &res); err != nil {
		if !shouldFallback(err) {
			return model.Reservation{}, err
		}
		s.engageFallback("CreateReservation", err)
		return s.createFallback(res)
	}

	s.publishCreated(res)
	return res, nil
}

func (s *Service) createFallback(res model.Reservation) (model.Reservation, error) {
	if err := s.fallback.create(&res); err != nil {
		return model.Reservation{}, err
	}
	s.publishCreated(res)
	return res, nil
}

// CancelReservation is a no-op returning false for missing or already
// terminal reservations, never an error.
func (s *Service) CancelReservation(ctx context.Context, id int64, reason *string) (bool, error) {
	if s.fallback.isEngaged() {
		return s.cancelFallback(id, reason), nil
	}
	ok, err := s.repo.CancelReservation(ctx, id, reason)
	if err != nil {
		if !shouldFallback(err) {
			return false, err
		}
		s.engageFallback("CancelReservation", err)
		return s.cancelFallback(id, reason), nil
	}
	if ok {
		s.publishCancelled(id, reason)
	}
	return ok, nil
}

func (s *Service) cancelFallback(id int64, reason *string) bool {
	ok := s.fallback.cancel(id, reason)
	if ok {
		s.publishCancelled(id, reason)
	}
	return ok
}

func (s *Service) publishCreated(res model.Reservation) {
	s.events.Publish(events.ReservationEvent{
		Type:          events.ReservationCreated,
		ReservationID: res.ID,
		UserID:        res.UserID,
		VehicleID:     res.VehicleID,
		Status:        res.Status,
		OccurredAt:    res.CreatedAt,
	})
}

func (s *Service) publishCancelled(id int64, reason *string) {
	s.events.Publish(events.ReservationEvent{
		Type:          events.ReservationCancelled,
		ReservationID: id,
		Status:        model.StatusCancelled,
		Reason:        reason,
		OccurredAt:    time.Now().UTC(),
	})
}
