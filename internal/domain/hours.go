package domain

import (
	"math"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ParseClock converts an "HH:MM" wall-clock string into minutes after midnight.
func ParseClock(value string) (int, bool) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, false
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// MinuteSpan returns the minutes between start and end, wrapping past midnight
// when end is earlier than start. Unparseable input yields zero.
func MinuteSpan(start, end string) int {
	from, ok := ParseClock(start)
	if !ok {
		return 0
	}
	to, ok := ParseClock(end)
	if !ok {
		return 0
	}
	diff := to - from
	if diff < 0 {
		diff += minutesPerDay
	}
	return diff
}

// Hours is the duration of the activity in hours.
func (a Activity) Hours() float64 {
	return float64(MinuteSpan(a.StartTime, a.EndTime)) / 60
}

// RoundHours rounds to two decimal places.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
