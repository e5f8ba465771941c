package config

import (
	"fmt"
	"regexp"
	"strings"

	"appointment-webhook/internal/datetime"
	"appointment-webhook/internal/types"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError
}

// Error implements the error interface
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var messages []string
	for _, err := range e.Errors {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("multiple validation errors:\n  - %s", strings.Join(messages, "\n  - "))
}

// Add adds a validation error
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

func validateTimezone(tz types.TimezoneConfig, errors *ValidationErrors) {
	v := datetime.NewValidator(nil)

	if err := v.ValidateOffset(tz.Offset); err != nil {
		errors.Add("timezone.offset", err.Error())
	}
	if err := v.ValidateTimezone(tz.Name); err != nil {
		errors.Add("timezone.name", err.Error())
	}
}

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// isValidARN checks the arn:partition:service:region:account:resource shape
func isValidARN(arn string) bool {
	if !strings.HasPrefix(arn, "arn:") {
		return false
	}

	parts := strings.SplitN(arn, ":", 6)
	if len(parts) < 6 {
		return false
	}

	// partition, service and resource must be present
	return parts[1] != "" && parts[2] != "" && parts[5] != ""
}

func isValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}
