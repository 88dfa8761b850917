//go:build unit

package company_test

import (
	"testing"
	"time"

	"jobfair-booking/internal/domain/company"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	day1 = time.Date(2022, 5, 10, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2022, 5, 11, 0, 0, 0, 0, time.UTC)
)

func TestLedgerAddRemove(t *testing.T) {
	t.Run("add then has", func(t *testing.T) {
		l := company.NewLedger(nil)
		require.NoError(t, l.AddReservation(day1, "09:00-10:00"))
		assert.True(t, l.HasReservation(day1, "09:00-10:00"))
		assert.Equal(t, 1, l.Len())
	})

	t.Run("duplicate add fails", func(t *testing.T) {
		l := company.NewLedger(nil)
		require.NoError(t, l.AddReservation(day1, "09:00-10:00"))
		assert.ErrorIs(t, l.AddReservation(day1, "09:00-10:00"), company.ErrDuplicateReservation)
		assert.Equal(t, 1, l.Len())
	})

	t.Run("same slot on another day is distinct", func(t *testing.T) {
		l := company.NewLedger(nil)
		require.NoError(t, l.AddReservation(day1, "09:00-10:00"))
		require.NoError(t, l.AddReservation(day2, "09:00-10:00"))
		assert.Equal(t, 2, l.Len())
	})

	t.Run("remove frees the pair", func(t *testing.T) {
		l := company.NewLedger(nil)
		require.NoError(t, l.AddReservation(day1, "09:00-10:00"))
		l.RemoveReservation(day1, "09:00-10:00")
		assert.False(t, l.HasReservation(day1, "09:00-10:00"))
		require.NoError(t, l.AddReservation(day1, "09:00-10:00"))
	})

	t.Run("removing an absent pair is a no-op", func(t *testing.T) {
		l := company.NewLedger(nil)
		l.RemoveReservation(day1, "09:00-10:00")
		l.RemoveReservation(day1, "09:00-10:00")
		assert.Equal(t, 0, l.Len())
	})

	t.Run("time of day never splits a pair", func(t *testing.T) {
		l := company.NewLedger(nil)
		require.NoError(t, l.AddReservation(day1.Add(9*time.Hour), "09:00-10:00"))
		assert.True(t, l.HasReservation(day1.Add(16*time.Hour), "09:00-10:00"))
		l.RemoveReservation(day1.Add(20*time.Hour), "09:00-10:00")
		assert.Equal(t, 0, l.Len())
	})
}

func TestNewLedgerDedups(t *testing.T) {
	l := company.NewLedger([]company.ReservedSlot{
		{Date: day1, TimeSlot: "09:00-10:00"},
		{Date: day1, TimeSlot: "09:00-10:00"},
		{Date: day2, TimeSlot: "10:00-11:00"},
	})
	assert.Equal(t, 2, l.Len())
}

func TestLedgerReservedOn(t *testing.T) {
	l := company.NewLedger(nil)
	require.NoError(t, l.AddReservation(day1, "09:00-10:00"))
	require.NoError(t, l.AddReservation(day1, "11:00-12:00"))
	require.NoError(t, l.AddReservation(day2, "10:00-11:00"))

	got := l.ReservedOn(day1)
	assert.Len(t, got, 2)
	assert.Contains(t, got, "09:00-10:00")
	assert.Contains(t, got, "11:00-12:00")
	assert.NotContains(t, got, "10:00-11:00")
}
