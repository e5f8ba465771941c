package datetime

import (
	"fmt"
	"time"
)

// Validator handles validation of date/time values and settings
type Validator struct {
	config *DateTimeConfig
}

// NewValidator creates a new Validator with the given configuration
func NewValidator(config *DateTimeConfig) *Validator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Validator{config: config}
}

// ValidateDateRange ensures that start time is before end time
func (v *Validator) ValidateDateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return NewDateTimeError(
			ErrInvalidRange,
			"date/time cannot be zero value",
			"",
			nil,
		)
	}

	if !start.Before(end) {
		return NewDateTimeError(
			ErrInvalidRange,
			fmt.Sprintf("start time (%s) must be before end time (%s)",
				start.Format(RFC3339Format), end.Format(RFC3339Format)),
			fmt.Sprintf("%s to %s", start.Format(RFC3339Format), end.Format(RFC3339Format)),
			nil,
		)
	}

	return nil
}

// ValidateTimezone verifies that a timezone string is valid
func (v *Validator) ValidateTimezone(tz string) error {
	if tz == "" {
		return NewDateTimeError(
			ErrInvalidTimezone,
			"timezone cannot be empty",
			tz,
			nil,
		)
	}

	_, err := time.LoadLocation(tz)
	if err != nil {
		return NewDateTimeError(
			ErrInvalidTimezone,
			fmt.Sprintf("invalid timezone: %s (must be a valid IANA timezone identifier)", tz),
			tz,
			err,
		)
	}

	return nil
}

// ValidateOffset verifies a "+hh:mm" offset string
func (v *Validator) ValidateOffset(offset string) error {
	_, err := ParseOffset(offset)
	return err
}
