package handler

import (
	"context"
	"time"

	"github.com/carhive/rental-service/internal/model"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

type ReservationService interface {
	GetUserReservations(ctx context.Context, userID int64) ([]model.Reservation, error)
	GetAll(ctx context.Context) ([]model.Reservation, error)
	IsAvailable(ctx context.Context, vehicleID int64, start, end time.Time) (bool, error)
	CreateReservation(ctx context.Context, req *model.CreateReservationRequest) (model.Reservation, error)
	CancelReservation(ctx context.Context, id int64, reason *string) (bool, error)
	Degraded() bool
}
