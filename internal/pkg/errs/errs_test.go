package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("bid", "b-1")

		assert.Equal(t, "bid", err.ParamName)
		assert.Equal(t, "b-1", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: b-1", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("collection is empty")
		err := errs.NewObjectNotFoundErrorWithCause("evidence", "e-7", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: evidence, ID is: e-7 (cause: collection is empty)",
			err.Error())
	})

	t.Run("non string id", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("requirement", 3)
		assert.Equal(t, "object not found: %!s(int=3)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	err := errs.NewValueIsInvalidError("assetType")
	assert.Equal(t, "value is invalid: assetType", err.Error())
	assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())

	withCause := errs.NewValueIsInvalidErrorWithCause("plannedUnits", errors.New("-1 is negative"))
	assert.Equal(t, "value is invalid: plannedUnits (cause: -1 is negative)", withCause.Error())
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("latitude", 91.5, -90, 90)

		assert.Equal(t, 91.5, err.Value)
		assert.Equal(t, -90, err.Min)
		assert.Equal(t, 90, err.Max)
		assert.Equal(t, "value is invalid: 91.5 is latitude, min value is -90, max value is 90", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("longitude", 200, -180, 180, errors.New("gps drift"))
		assert.Equal(t,
			"value is invalid: 200 is longitude, min value is -180, max value is 180 (cause: gps drift)",
			err.Error())
	})

	t.Run("newlines are flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("comment", "line one\nline two", 0, 10)
		assert.Contains(t, err.Error(), "line one line two")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("driverName")
	assert.Equal(t, "value is required: driverName", err.Error())
	assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())

	withCause := errs.NewValueIsRequiredErrorWithCause("photos", errors.New("empty list"))
	assert.Equal(t, "value is required: photos (cause: empty list)", withCause.Error())
}

func TestVersionIsInvalidError(t *testing.T) {
	err := errs.NewVersionIsInvalidError("order", errors.New("expected 4, got 5"))
	assert.Equal(t, "version is invalid: order (cause: expected 4, got 5)", err.Error())
	assert.Equal(t, errs.ErrVersionIsInvalid, err.Unwrap())

	bare := errs.NewVersionIsInvalidErrorWithCause("order")
	require.NoError(t, bare.Cause)
	assert.Equal(t, "version is invalid: order", bare.Error())
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
	}{
		{errs.NewObjectNotFoundError("order", "o-1"), errs.ErrObjectNotFound},
		{errs.NewValueIsInvalidError("status"), errs.ErrValueIsInvalid},
		{errs.NewValueIsOutOfRangeError("latitude", 100, -90, 90), errs.ErrValueIsOutOfRange},
		{errs.NewValueIsRequiredError("photos"), errs.ErrValueIsRequired},
		{errs.NewVersionIsInvalidErrorWithCause("order"), errs.ErrVersionIsInvalid},
	}

	for _, tc := range cases {
		wrapped := fmt.Errorf("handle command: %w", tc.err)
		require.ErrorIs(t, wrapped, tc.sentinel)
	}
}
