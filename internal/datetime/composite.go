package datetime

import (
	"fmt"
	"strings"
)

// ComposeInstant joins the calendar portion of date with the clock portion
// of clock and appends offset.
//
//	ComposeInstant("2024-06-01T00:00:00+00:00", "2024-06-01T14:00:00+00:00", "+02:00")
//	// "2024-06-01T14:00:00+02:00"
func ComposeInstant(date, clock, offset string) (string, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	if date == "" {
		return "", NewDateTimeError(ErrInvalidFormat, "empty date input", date, nil)
	}
	if clock == "" {
		return "", NewDateTimeError(ErrInvalidFormat, "empty time input", clock, nil)
	}

	calendarPart, _, _ := strings.Cut(date, "T")
	if calendarPart == "" {
		return "", NewDateTimeError(
			ErrInvalidFormat,
			fmt.Sprintf("date has no calendar portion: '%s'", date),
			date,
			nil,
		)
	}

	clockPart := clock
	if _, after, found := strings.Cut(clock, "T"); found {
		clockPart = after
	} else if i := strings.LastIndex(clock, " "); i >= 0 {
		clockPart = clock[i+1:]
	}
	clockPart = stripOffset(clockPart)
	if clockPart == "" {
		return "", NewDateTimeError(
			ErrInvalidFormat,
			fmt.Sprintf("time has no clock portion: '%s'", clock),
			clock,
			nil,
		)
	}

	return calendarPart + "T" + clockPart + offset, nil
}

// stripOffset removes a trailing "Z", "+hh:mm" or "-hh:mm" from a clock
func stripOffset(clock string) string {
	clock = strings.TrimSuffix(clock, "Z")
	if i := strings.IndexAny(clock, "+-"); i >= 0 {
		clock = clock[:i]
	}
	return clock
}
