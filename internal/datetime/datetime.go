// Package datetime provides standardized date/time handling utilities
// for the composite instants exchanged with the agent, the calendar API and
// calendar invites.
//
// Example usage:
//
//	dt := datetime.New(&datetime.DateTimeConfig{
//		DefaultTimezone: "Europe/Berlin",
//		DefaultOffset:   "+02:00",
//	})
//
//	composite, err := datetime.ComposeInstant(date, clock, "+02:00")
//	if err != nil {
//		return err
//	}
//	start, err := dt.Parse(composite)
//	if err != nil {
//		return err
//	}
//	timeMin := dt.Format(start).ToCalendarAPI()
package datetime

import "time"

// Manager provides a unified interface to all date/time operations
type Manager struct {
	parser    *Parser
	formatter *Formatter
	config    *DateTimeConfig
}

// New creates a new datetime Manager with the given configuration
// If config is nil, uses DefaultConfig()
func New(config *DateTimeConfig) *Manager {
	if config == nil {
		config = DefaultConfig()
	}

	return &Manager{
		parser:    NewParser(config),
		formatter: NewFormatter(config),
		config:    config,
	}
}

// Parse parses a composite instant
func (m *Manager) Parse(input string) (time.Time, error) {
	return m.parser.ParseInstant(input)
}

// Compose builds a composite instant using the configured offset
func (m *Manager) Compose(date, clock string) (string, error) {
	return ComposeInstant(date, clock, m.config.DefaultOffset)
}

// Format returns a formatter interface for the given time
func (m *Manager) Format(t time.Time) *TimeFormatter {
	return &TimeFormatter{
		time:      t,
		formatter: m.formatter,
	}
}

// TimeFormatter provides formatting methods for a specific time
type TimeFormatter struct {
	time      time.Time
	formatter *Formatter
}

// ToCalendarAPI formats for the calendar API (RFC 3339 with offset)
func (tf *TimeFormatter) ToCalendarAPI() string {
	return tf.formatter.ToCalendarAPI(tf.time)
}

// ToCalendarLocal formats the wall clock in the default timezone
func (tf *TimeFormatter) ToCalendarLocal() string {
	return tf.formatter.ToCalendarLocal(tf.time)
}
