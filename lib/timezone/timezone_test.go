package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, time.August, 26, 9, 0, 0, 0, Location)

	cases := []struct {
		then     time.Time
		expected int
	}{
		{then: now, expected: 0},
		{then: now.Add(-time.Hour), expected: 0},
		{then: now.Add(time.Hour), expected: 1},
		{then: now.Add(24 * time.Hour), expected: 1},
		{then: now.Add(24*time.Hour + time.Minute), expected: 2},
		{then: now.AddDate(0, 0, 7), expected: 7},
		{then: now.AddDate(0, 0, -3), expected: -3},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, DaysUntil(now, test.then), test.then.String())
	}
}

func TestStartOfDay(t *testing.T) {
	utc := time.Date(2024, time.March, 31, 20, 30, 0, 0, time.UTC)
	// 20:30 UTC is already 04:30 on the next day in Singapore
	require.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, Location), StartOfDay(utc))
}
