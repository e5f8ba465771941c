// Package datetime provides standardized date/time handling utilities
// for the composite instants exchanged with the agent, the calendar API and
// calendar invites.
package datetime

// Standard format constants for consistent date/time handling
const (
	// RFC3339Format is the canonical format sent to the calendar API
	RFC3339Format = "2006-01-02T15:04:05Z07:00"

	// LocalFormat is a wall-clock format paired with an IANA timezone name
	LocalFormat = "2006-01-02T15:04:05"
)

// CommonInputFormats are the layouts accepted for a composite instant
var CommonInputFormats = []string{
	// ISO8601/RFC3339 formats (order matters - more specific first)
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",

	// Combined date/time formats
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006 3:04 PM",
	"January 2, 2006 3:04 PM",
	"January 2, 2006 at 3:04 PM",
}

// DateTimeConfig holds configuration for date/time operations
type DateTimeConfig struct {
	// DefaultTimezone is the IANA name used for calendar event creation
	DefaultTimezone string

	// DefaultOffset is applied to input that carries no offset, e.g. "+02:00"
	DefaultOffset string
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *DateTimeConfig {
	return &DateTimeConfig{
		DefaultTimezone: "UTC",
		DefaultOffset:   "+00:00",
	}
}

// Error types for standardized error handling
const (
	ErrInvalidFormat   = "INVALID_FORMAT"
	ErrInvalidTimezone = "INVALID_TIMEZONE"
	ErrInvalidOffset   = "INVALID_OFFSET"
	ErrInvalidRange    = "INVALID_RANGE"
)

// DateTimeError represents a standardized date/time error
type DateTimeError struct {
	Type    string
	Message string
	Input   string
	Cause   error
}

// Error implements the error interface
func (e *DateTimeError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *DateTimeError) Unwrap() error {
	return e.Cause
}

// NewDateTimeError creates a new DateTimeError
func NewDateTimeError(errorType, message, input string, cause error) *DateTimeError {
	return &DateTimeError{
		Type:    errorType,
		Message: message,
		Input:   input,
		Cause:   cause,
	}
}

