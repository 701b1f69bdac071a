package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"syscall"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carhive/rental-service/internal/errs"
)

// classify tags a driver error with an errs.Kind at the adapter
// boundary. Callers branch on the kind, never on driver internals.
func classify(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errs.WithKind(errs.KindCancelled, err)
	case errors.Is(err, sql.ErrNoRows):
		return errs.WithKind(errs.KindNotFound, errs.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.ExclusionViolation, pgErr.Code == pgerrcode.UniqueViolation:
			return errs.WithKind(errs.KindConflict, errs.ErrVehicleUnavailable)
		case pgErr.Code == pgerrcode.CheckViolation:
			return errs.WithKind(errs.KindValidation, err)
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgErr.Code == pgerrcode.AdminShutdown,
			pgErr.Code == pgerrcode.CrashShutdown,
			pgErr.Code == pgerrcode.CannotConnectNow,
			pgErr.Code == pgerrcode.TooManyConnections:
			return errs.WithKind(errs.KindConnectivity, err)
		}
		return errs.WithKind(errs.KindUnknown, err)
	}

	if isNetworkErr(err) {
		return errs.WithKind(errs.KindConnectivity, err)
	}
	return errs.WithKind(errs.KindUnknown, err)
}

func isNetworkErr(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
