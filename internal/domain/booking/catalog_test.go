//go:build unit

package booking_test

import (
	"testing"
	"time"

	"jobfair-booking/internal/domain/booking"
	"jobfair-booking/tests/common/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	t.Run("rejects empty slot list", func(t *testing.T) {
		_, err := booking.NewCatalog(nil, testutil.CampaignStart, testutil.CampaignEnd)
		assert.ErrorIs(t, err, booking.ErrEmptyCatalog)
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		_, err := booking.NewCatalog(testutil.CampaignSlots, testutil.CampaignEnd, testutil.CampaignStart)
		assert.ErrorIs(t, err, booking.ErrInvalidWindow)
	})

	t.Run("single-day window is valid", func(t *testing.T) {
		c, err := booking.NewCatalog(testutil.CampaignSlots, testutil.CampaignStart, testutil.CampaignStart)
		require.NoError(t, err)
		assert.True(t, c.WithinCampaign(testutil.CampaignStart))
		assert.False(t, c.WithinCampaign(testutil.CampaignStart.AddDate(0, 0, 1)))
	})
}

func TestCatalogValidateSlot(t *testing.T) {
	catalog := testutil.NewTestCatalog()

	tests := []struct {
		name  string
		date  time.Time
		slot  string
		errIs error
	}{
		{name: "first day first slot", date: testutil.Day(0), slot: "09:00-10:00"},
		{name: "last day last slot", date: testutil.Day(3), slot: "16:00-17:00"},
		{name: "day before window", date: testutil.Day(-1), slot: "09:00-10:00", errIs: booking.ErrOutsideCampaign},
		{name: "day after window", date: testutil.Day(4), slot: "09:00-10:00", errIs: booking.ErrOutsideCampaign},
		{name: "unknown slot", date: testutil.Day(0), slot: "17:00-18:00", errIs: booking.ErrUnknownSlot},
		{name: "window checked before slot", date: testutil.Day(4), slot: "17:00-18:00", errIs: booking.ErrOutsideCampaign},
		{name: "empty slot id", date: testutil.Day(0), slot: "", errIs: booking.ErrUnknownSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := catalog.ValidateSlot(tt.date, tt.slot)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCatalogWithinCampaignIgnoresTimeOfDay(t *testing.T) {
	catalog := testutil.NewTestCatalog()

	lastDayEvening := time.Date(2022, 5, 13, 23, 59, 59, 0, time.UTC)
	assert.True(t, catalog.WithinCampaign(lastDayEvening))

	// The same instant in a western timezone is still 2022-05-13 UTC.
	loc := time.FixedZone("UTC-7", -7*3600)
	assert.True(t, catalog.WithinCampaign(time.Date(2022, 5, 13, 10, 0, 0, 0, loc)))
}

func TestCatalogAvailable(t *testing.T) {
	catalog := testutil.NewTestCatalog()

	t.Run("all slots open", func(t *testing.T) {
		got := catalog.Available(nil)
		assert.Empty(t, cmp.Diff(testutil.CampaignSlots, got))
	})

	t.Run("reserved slots are subtracted in catalog order", func(t *testing.T) {
		reserved := map[string]struct{}{
			"10:00-11:00": {},
			"16:00-17:00": {},
		}
		want := []string{
			"09:00-10:00", "11:00-12:00", "12:00-13:00",
			"13:00-14:00", "14:00-15:00", "15:00-16:00",
		}
		assert.Empty(t, cmp.Diff(want, catalog.Available(reserved)))
	})

	t.Run("fully booked day yields empty list", func(t *testing.T) {
		reserved := make(map[string]struct{}, len(testutil.CampaignSlots))
		for _, s := range testutil.CampaignSlots {
			reserved[s] = struct{}{}
		}
		assert.Empty(t, catalog.Available(reserved))
	})
}

func TestNormalizeDate(t *testing.T) {
	jst := time.FixedZone("JST", 9*3600)

	// 2022-05-11 08:00 JST is 2022-05-10 23:00 UTC.
	got := booking.NormalizeDate(time.Date(2022, 5, 11, 8, 0, 0, 0, jst))
	assert.Equal(t, time.Date(2022, 5, 10, 0, 0, 0, 0, time.UTC), got)

	// Idempotent on already-normalized values.
	assert.Equal(t, got, booking.NormalizeDate(got))
}
