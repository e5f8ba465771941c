package datetime

import (
	"errors"
	"testing"
	"time"
)

func TestComposeInstant(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		clock   string
		offset  string
		want    string
		wantErr bool
	}{
		{"agent date and time", "2024-06-01T00:00:00+00:00", "2024-06-01T14:00:00+00:00", "+02:00", "2024-06-01T14:00:00+02:00", false},
		{"negative offset on time", "2024-06-01T12:00:00-05:00", "2024-06-02T09:30:00-05:00", "+01:00", "2024-06-01T09:30:00+01:00", false},
		{"zulu time", "2024-06-01", "2024-06-01T08:00:00Z", "-03:00", "2024-06-01T08:00:00-03:00", false},
		{"clock only", "2024-06-01T00:00:00+00:00", "16:15:00", "+00:00", "2024-06-01T16:15:00+00:00", false},
		{"space separated time", "2024-06-01", "2024-06-01 10:00", "+00:00", "2024-06-01T10:00+00:00", false},
		{"empty date", "", "2024-06-01T14:00:00+00:00", "+02:00", "", true},
		{"empty time", "2024-06-01", "", "+02:00", "", true},
		{"time without clock", "2024-06-01", "2024-06-01T", "+02:00", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComposeInstant(tt.date, tt.clock, tt.offset)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ComposeInstant() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ComposeInstant() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseInstant(t *testing.T) {
	parser := NewParser(&DateTimeConfig{DefaultTimezone: "UTC", DefaultOffset: "+02:00"})

	got, err := parser.ParseInstant("2024-06-01T14:00:00+02:00")
	if err != nil {
		t.Fatalf("ParseInstant() error = %v", err)
	}
	want := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseInstant() = %v, want %v", got, want)
	}

	naive, err := parser.ParseInstant("2024-06-01 14:00")
	if err != nil {
		t.Fatalf("ParseInstant() error = %v", err)
	}
	if !naive.Equal(want) {
		t.Errorf("naive input should use default offset: got %v, want %v", naive, want)
	}
	if _, offset := naive.Zone(); offset != 2*3600 {
		t.Errorf("expected +02:00 zone, got offset %d", offset)
	}
}

func TestParseInstantErrors(t *testing.T) {
	parser := NewParser(nil)

	for _, input := range []string{"", "next tuesday", "2024-13-45T99:00:00+02:00"} {
		_, err := parser.ParseInstant(input)
		if err == nil {
			t.Fatalf("ParseInstant(%q) expected error", input)
		}
		var dtErr *DateTimeError
		if !errors.As(err, &dtErr) {
			t.Fatalf("ParseInstant(%q) error type = %T, want *DateTimeError", input, err)
		}
		if dtErr.Type != ErrInvalidFormat {
			t.Errorf("ParseInstant(%q) error kind = %s, want %s", input, dtErr.Type, ErrInvalidFormat)
		}
	}
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		offset  string
		seconds int
		wantErr bool
	}{
		{"+02:00", 7200, false},
		{"-05:30", -19800, false},
		{"+0100", 3600, false},
		{"Z", 0, false},
		{"02:00", 0, true},
		{"+25:00", 0, true},
		{"Europe/Berlin", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.offset, func(t *testing.T) {
			loc, err := ParseOffset(tt.offset)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOffset(%q) error = %v, wantErr %v", tt.offset, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			_, got := time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Zone()
			if got != tt.seconds {
				t.Errorf("ParseOffset(%q) offset = %d, want %d", tt.offset, got, tt.seconds)
			}
		})
	}
}

func TestHasOffset(t *testing.T) {
	tests := map[string]bool{
		"2024-06-01T14:00:00+02:00": true,
		"2024-06-01T14:00:00-05:00": true,
		"2024-06-01T14:00:00Z":      true,
		"2024-06-01T14:00:00":       false,
		"2024-06-01 14:00":          false,
		"2024-06-01":                false,
	}
	for input, want := range tests {
		if got := HasOffset(input); got != want {
			t.Errorf("HasOffset(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestFormatter(t *testing.T) {
	dt := New(&DateTimeConfig{DefaultTimezone: "UTC", DefaultOffset: "+02:00"})
	instant := time.Date(2024, 6, 1, 12, 0, 0, 500, time.UTC)

	if got := dt.Format(instant).ToCalendarAPI(); got != "2024-06-01T14:00:00+02:00" {
		t.Errorf("ToCalendarAPI() = %q", got)
	}
	if got := dt.Format(instant).ToCalendarLocal(); got != "2024-06-01T12:00:00" {
		t.Errorf("ToCalendarLocal() = %q", got)
	}

	withZone := time.Date(2024, 6, 1, 9, 0, 0, 0, time.FixedZone("", -5*3600))
	if got := dt.Format(withZone).ToCalendarAPI(); got != "2024-06-01T09:00:00-05:00" {
		t.Errorf("ToCalendarAPI() should keep the instant's own offset, got %q", got)
	}
}

func TestManagerCompose(t *testing.T) {
	dt := New(&DateTimeConfig{DefaultTimezone: "UTC", DefaultOffset: "+02:00"})

	composite, err := dt.Compose("2024-06-01T00:00:00+00:00", "2024-06-01T14:00:00+00:00")
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if composite != "2024-06-01T14:00:00+02:00" {
		t.Errorf("Compose() = %q", composite)
	}
}

func TestValidator(t *testing.T) {
	v := NewValidator(nil)

	if err := v.ValidateTimezone("Europe/Berlin"); err != nil {
		t.Errorf("ValidateTimezone() unexpected error: %v", err)
	}
	if err := v.ValidateTimezone("Mars/Olympus"); err == nil {
		t.Error("ValidateTimezone() expected error for unknown zone")
	}
	if err := v.ValidateTimezone(""); err == nil {
		t.Error("ValidateTimezone() expected error for empty zone")
	}
	if err := v.ValidateOffset("+02:00"); err != nil {
		t.Errorf("ValidateOffset() unexpected error: %v", err)
	}

	start := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)
	if err := v.ValidateDateRange(start, start.Add(time.Hour)); err != nil {
		t.Errorf("ValidateDateRange() unexpected error: %v", err)
	}
	if err := v.ValidateDateRange(start, start); err == nil {
		t.Error("ValidateDateRange() expected error for empty range")
	}
}
