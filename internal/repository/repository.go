package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/carhive/rental-service/internal/errs"
	"github.com/carhive/rental-service/internal/model"
)

type Repository interface {
	GetUserReservations(ctx context.Context, userID int64) ([]model.Reservation, error)
	GetAll(ctx context.Context) ([]model.Reservation, error)
	IsVehicleAvailable(ctx context.Context, vehicleID int64, start, end time.Time) (bool, error)
	CreateReservation(ctx context.Context, res *model.Reservation) error
	CancelReservation(ctx context.Context, id int64, reason *string) (bool, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	reservationTableName = `reservations`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var reservationColumns = []string{
	"id", "user_id", "vehicle_id", "start_date", "end_date", "status",
	"total_amount", "notes", "created_at", "updated_at", "cancelled_at", "cancellation_reason",
}

// reservationRow keeps the raw status string so unknown values surface
// as an explicit error instead of being coerced to a default.
type reservationRow struct {
	ID                 int64      `db:"id"`
	UserID             int64      `db:"user_id"`
	VehicleID          int64      `db:"vehicle_id"`
	StartDate          time.Time  `db:"start_date"`
	EndDate            time.Time  `db:"end_date"`
	Status             string     `db:"status"`
	TotalAmount        float64    `db:"total_amount"`
	Notes              *string    `db:"notes"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	CancelledAt        *time.Time `db:"cancelled_at"`
	CancellationReason *string    `db:"cancellation_reason"`
}

func (row reservationRow) toModel() (model.Reservation, error) {
	status, err := model.ParseStatus(row.Status)
	if err != nil {
		return model.Reservation{}, errs.WithKind(errs.KindValidation, err)
	}
	return model.Reservation{
		ID:                 row.ID,
		UserID:             row.UserID,
		VehicleID:          row.VehicleID,
		StartDate:          row.StartDate,
		EndDate:            row.EndDate,
		Status:             status,
		TotalAmount:        row.TotalAmount,
		Notes:              row.Notes,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
		CancelledAt:        row.CancelledAt,
		CancellationReason: row.CancellationReason,
	}, nil
}

func (r *repository) GetUserReservations(ctx context.Context, userID int64) ([]model.Reservation, error) {
	q, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("start_date DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.selectReservations(ctx, q, args...)
}

func (r *repository) GetAll(ctx context.Context) ([]model.Reservation, error) {
	q, args, err := qb.Select(reservationColumns...).
		From(reservationTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.selectReservations(ctx, q, args...)
}

func (r *repository) selectReservations(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	var rows []reservationRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, classify(err)
	}
	items := make([]model.Reservation, 0, len(rows))
	for _, row := range rows {
		res, err := row.toModel()
		if err != nil {
			return nil, err
		}
		items = append(items, res)
	}
	return items, nil
}

func (r *repository) IsVehicleAvailable(ctx context.Context, vehicleID int64, start, end time.Time) (bool, error) {
	q := `
	select count(1) from reservations
	where vehicle_id = $1
	  and status in ('PENDING', 'CONFIRMED')
	  and start_date < $3
	  and end_date > $2
`
	var conflicts int
	if err := r.db.QueryRowContext(ctx, q, vehicleID, start, end).Scan(&conflicts); err != nil {
		return false, classify(err)
	}
	return conflicts == 0, nil
}

func (r *repository) CreateReservation(ctx context.Context, res *model.Reservation) error {
	q, args, err := qb.Insert(reservationTableName).
		Columns("user_id", "vehicle_id", "start_date", "end_date", "status", "total_amount", "notes").
		Values(res.UserID, res.VehicleID, res.StartDate, res.EndDate, res.Status, res.TotalAmount, res.Notes).
		Suffix("returning id, created_at, updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		r.log.Error("CreateReservation", zap.String("q", q), zap.Any("args", args), zap.Error(err))
		return classify(err)
	}
	return nil
}

func (r *repository) CancelReservation(ctx context.Context, id int64, reason *string) (bool, error) {
	q := `
	update reservations
	set status = 'CANCELLED',
	    cancelled_at = now(),
	    cancellation_reason = $2,
	    updated_at = now()
	where id = $1 and status in ('PENDING', 'CONFIRMED')
`
	result, err := r.db.ExecContext(ctx, q, id, reason)
	if err != nil {
		return false, classify(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, classify(err)
	}
	return affected > 0, nil
}
