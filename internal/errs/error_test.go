package errs_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/carhive/rental-service/internal/errs"
)

func TestWithKind(t *testing.T) {
	t.Parallel()

	require.NoError(t, errs.WithKind(errs.KindConnectivity, nil))

	err := errs.WithKind(errs.KindConflict, errs.ErrVehicleUnavailable)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))
	require.ErrorIs(t, err, errs.ErrVehicleUnavailable)

	// a wrap on top keeps the kind reachable
	wrapped := errors.Wrap(err, "create")
	require.Equal(t, errs.KindConflict, errs.KindOf(wrapped))

	require.Equal(t, errs.KindUnknown, errs.KindOf(errors.New("plain")))
	require.Equal(t, errs.KindUnknown, errs.KindOf(nil))
}

func TestKind_String(t *testing.T) {
	t.Parallel()
	require.Equal(t, "connectivity", errs.KindConnectivity.String())
	require.Equal(t, "conflict", errs.KindConflict.String())
	require.Equal(t, "validation", errs.KindValidation.String())
	require.Equal(t, "cancelled", errs.KindCancelled.String())
	require.Equal(t, "not_found", errs.KindNotFound.String())
	require.Equal(t, "unknown", errs.KindUnknown.String())
}
