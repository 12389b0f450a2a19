package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosh-hamburg/cookbookApp/internal/service"
)

func TestWeekStartUsesPlannerZone(t *testing.T) {
	t.Parallel()
	loc, err := service.LoadPlannerLocation("")
	require.NoError(t, err)
	assert.Equal(t, service.DefaultPlannerTimezone, loc.String())

	// Sunday 23:30 UTC is already Monday in Berlin.
	sundayNight := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-11", service.WeekStart(sundayNight, loc))
	assert.Equal(t, "2024-03-04", service.WeekStart(sundayNight, time.UTC))
}

func TestParseWeek(t *testing.T) {
	t.Parallel()
	loc, err := service.LoadPlannerLocation("Europe/Berlin")
	require.NoError(t, err)
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, loc)

	cases := map[string]string{
		"":           "2024-03-04",
		"2024-03-04": "2024-03-04",
		"2024-03-10": "2024-03-04",
		"2024-03-11": "2024-03-11",
		"2024-01-01": "2024-01-01",
		"2023-12-31": "2023-12-25",
	}
	for in, want := range cases {
		got, err := service.ParseWeek(in, now, loc)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err = service.ParseWeek("next week", now, loc)
	require.Error(t, err)
}

func TestLoadPlannerLocationRejectsUnknownZone(t *testing.T) {
	t.Parallel()
	_, err := service.LoadPlannerLocation("Mars/Olympus")
	require.Error(t, err)
}

func TestParseDay(t *testing.T) {
	t.Parallel()
	cases := map[string]int{
		"monday":   0,
		"Mo":       0,
		"dienstag": 1,
		"wed":      2,
		"4":        3,
		"Freitag":  4,
		"sa":       5,
		"7":        6,
	}
	for in, want := range cases {
		got, err := service.ParseDay(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"0", "8", "someday", ""} {
		_, err := service.ParseDay(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "sunday", service.DayName(6))
}
