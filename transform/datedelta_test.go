package transform_test

import (
	"testing"
	"time"

	"github.com/hscells/farecast/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func days(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}

func TestDateDelta(t *testing.T) {
	f := column(t, "last_review", "2019-01-01", "2019-06-01", "")
	d := transform.DateDeltaFeature("last_review")
	require.NoError(t, d.Fit(f))

	max := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, d.Max.Equal(max))

	out, err := d.Transform(f)
	require.NoError(t, err)
	assert.Equal(t, days(time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), max), out.At(0, 0))
	// The row holding the maximum date is exactly zero.
	assert.Equal(t, 0.0, out.At(1, 0))
	// The missing row is imputed to the sentinel before the delta is taken.
	assert.Equal(t, days(transform.SentinelDate, max), out.At(2, 0))
}

func TestDateDeltaUnparsable(t *testing.T) {
	f := column(t, "last_review", "2019-06-01", "not a date")
	d := transform.DateDeltaFeature("last_review")
	require.NoError(t, d.Fit(f))

	out, err := d.Transform(f)
	require.NoError(t, err)
	max := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, days(transform.SentinelDate, max), out.At(1, 0))
}

func TestDateDeltaReferenceFrozenAtFit(t *testing.T) {
	d := transform.DateDeltaFeature("last_review")
	require.NoError(t, d.Fit(column(t, "last_review", "2019-06-01")))

	// A prediction frame with a later date does not shift the reference;
	// its delta goes negative against the frozen fit-time maximum.
	out, err := d.Transform(column(t, "last_review", "2020-06-01"))
	require.NoError(t, err)
	assert.Negative(t, out.At(0, 0))
}

func TestDateDeltaLifecycle(t *testing.T) {
	d := transform.DateDeltaFeature("last_review")
	_, err := d.Transform(column(t, "last_review", "2019-06-01"))
	assert.ErrorIs(t, err, transform.ErrNotFitted)
}
