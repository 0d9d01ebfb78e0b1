package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AERESAL/VolunteerHub-Backend/internal/domain"
)

func TestActivityHours(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  float64
	}{
		{name: "same day", start: "09:00", end: "17:30", want: 8.5},
		{name: "wraps midnight", start: "23:00", end: "01:00", want: 2.0},
		{name: "zero length", start: "12:00", end: "12:00", want: 0},
		{name: "missing start", start: "", end: "10:00", want: 0},
		{name: "missing end", start: "10:00", end: "", want: 0},
		{name: "malformed", start: "nine", end: "17:00", want: 0},
		{name: "out of range", start: "25:00", end: "17:00", want: 0},
		{name: "single digit hour", start: "9:15", end: "10:00", want: 0.75},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			activity := domain.Activity{StartTime: tc.start, EndTime: tc.end}
			require.InDelta(t, tc.want, activity.Hours(), 1e-9)
		})
	}
}

func TestRoundHours(t *testing.T) {
	require.Equal(t, 0.33, domain.RoundHours(1.0/3))
	require.Equal(t, 7.25, domain.RoundHours(7.25))
	require.Equal(t, 1.67, domain.RoundHours(5.0/3))
}
