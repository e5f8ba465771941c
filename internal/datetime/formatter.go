package datetime

import "time"

// Formatter handles formatting of time.Time values for different output contexts
type Formatter struct {
	config *DateTimeConfig
}

// NewFormatter creates a new Formatter with the given configuration
func NewFormatter(config *DateTimeConfig) *Formatter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Formatter{config: config}
}

// ToCalendarAPI formats a time with an explicit offset, seconds precision.
// UTC values are shifted into the default offset so the backend always
// receives the configured local offset.
func (f *Formatter) ToCalendarAPI(t time.Time) string {
	if t.Location() == time.UTC && f.config.DefaultOffset != "" {
		if loc, err := ParseOffset(f.config.DefaultOffset); err == nil {
			t = t.In(loc)
		}
	}
	return t.Truncate(time.Second).Format(RFC3339Format)
}

// ToCalendarLocal formats the wall clock in the default timezone, for use
// next to an IANA timeZone field
func (f *Formatter) ToCalendarLocal(t time.Time) string {
	if loc, err := time.LoadLocation(f.config.DefaultTimezone); err == nil {
		t = t.In(loc)
	}
	return t.Format(LocalFormat)
}
