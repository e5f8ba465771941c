package datetime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var offsetPattern = regexp.MustCompile(`^([+-])(\d{2}):?(\d{2})$`)

// Parser handles parsing of composite instants and offsets
type Parser struct {
	config *DateTimeConfig
}

// NewParser creates a new Parser with the given configuration
func NewParser(config *DateTimeConfig) *Parser {
	if config == nil {
		config = DefaultConfig()
	}
	return &Parser{config: config}
}

// ParseInstant parses a composite instant. Input without an offset is
// interpreted in the configured default offset.
func (p *Parser) ParseInstant(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, NewDateTimeError(
			ErrInvalidFormat,
			"empty date/time input",
			input,
			nil,
		)
	}

	parsed, err := p.ParseWithFormats(input, CommonInputFormats)
	if err != nil {
		return time.Time{}, NewDateTimeError(
			ErrInvalidFormat,
			fmt.Sprintf("unable to parse date/time: expected formats like '2006-01-02T15:04:05+02:00', got '%s'", input),
			input,
			err,
		)
	}

	if HasOffset(input) {
		return parsed, nil
	}

	loc, err := p.defaultLocation()
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(
		parsed.Year(), parsed.Month(), parsed.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), parsed.Nanosecond(),
		loc,
	), nil
}

// ParseWithFormats tries to parse the input with multiple format strings
func (p *Parser) ParseWithFormats(input string, formats []string) (time.Time, error) {
	var lastErr error

	for _, format := range formats {
		parsed, err := time.Parse(format, input)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}

	return time.Time{}, lastErr
}

// defaultLocation prefers the fixed offset and falls back to the IANA zone
func (p *Parser) defaultLocation() (*time.Location, error) {
	if p.config.DefaultOffset != "" {
		return ParseOffset(p.config.DefaultOffset)
	}
	loc, err := time.LoadLocation(p.config.DefaultTimezone)
	if err != nil {
		return nil, NewDateTimeError(
			ErrInvalidTimezone,
			fmt.Sprintf("invalid default timezone: %s", p.config.DefaultTimezone),
			p.config.DefaultTimezone,
			err,
		)
	}
	return loc, nil
}

// ParseOffset turns "+02:00", "-0530" or "Z" into a fixed zone
func ParseOffset(offset string) (*time.Location, error) {
	offset = strings.TrimSpace(offset)
	if offset == "Z" || offset == "z" {
		return time.UTC, nil
	}

	m := offsetPattern.FindStringSubmatch(offset)
	if m == nil {
		return nil, NewDateTimeError(
			ErrInvalidOffset,
			fmt.Sprintf("invalid UTC offset: expected '+hh:mm', got '%s'", offset),
			offset,
			nil,
		)
	}

	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	if hours > 14 || minutes > 59 {
		return nil, NewDateTimeError(
			ErrInvalidOffset,
			fmt.Sprintf("UTC offset out of range: %s", offset),
			offset,
			nil,
		)
	}

	seconds := hours*3600 + minutes*60
	if m[1] == "-" {
		seconds = -seconds
	}
	return time.FixedZone("UTC"+m[1]+m[2]+":"+m[3], seconds), nil
}

// HasOffset reports whether the text ends with an explicit UTC offset.
// For "-", only an occurrence after the "T" counts (date separators don't).
func HasOffset(input string) bool {
	input = strings.TrimSpace(input)
	if strings.HasSuffix(input, "Z") || strings.HasSuffix(strings.ToUpper(input), "UTC") {
		return true
	}
	t := strings.LastIndexAny(input, "T ")
	if t < 0 {
		return false
	}
	clock := input[t+1:]
	return strings.ContainsAny(clock, "+-")
}
