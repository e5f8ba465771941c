package types

import (
	"net/mail"
	"testing"
	"time"
)

func TestNewAppointment(t *testing.T) {
	start := time.Date(2024, 6, 1, 14, 0, 0, 0, time.FixedZone("", 2*3600))

	appt := NewAppointment("  Alex  ", " alex@example.com\t", "2024-06-01T14:00:00+02:00", start)

	if appt.RequesterName != "Alex" {
		t.Errorf("RequesterName = %q", appt.RequesterName)
	}
	if appt.RequesterEmail != "alex@example.com" {
		t.Errorf("RequesterEmail = %q", appt.RequesterEmail)
	}
	if appt.StartText != "2024-06-01T14:00:00+02:00" {
		t.Errorf("StartText = %q", appt.StartText)
	}
	if !appt.Start.Equal(start) {
		t.Errorf("Start = %v, want %v", appt.Start, start)
	}
	if got := appt.End.Sub(appt.Start); got != time.Hour {
		t.Errorf("End - Start = %v, want 1h", got)
	}
}

func TestEmailConfigFromHeader(t *testing.T) {
	tests := []struct {
		name     string
		config   EmailConfig
		wantName string
	}{
		{"address only", EmailConfig{SenderAddress: "bookings@example.com"}, ""},
		{"plain name", EmailConfig{SenderAddress: "bookings@example.com", SenderName: "Dana Lee"}, "Dana Lee"},
		{"name with comma", EmailConfig{SenderAddress: "bookings@example.com", SenderName: "Lee, Dana"}, "Lee, Dana"},
		{"non-ascii name", EmailConfig{SenderAddress: "bookings@example.com", SenderName: "Zoë Müller"}, "Zoë Müller"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := tt.config.FromHeader()

			addr, err := mail.ParseAddress(header)
			if err != nil {
				t.Fatalf("FromHeader() = %q is not a valid address: %v", header, err)
			}
			if addr.Address != tt.config.SenderAddress {
				t.Errorf("address = %q, want %q", addr.Address, tt.config.SenderAddress)
			}
			if addr.Name != tt.wantName {
				t.Errorf("name = %q, want %q", addr.Name, tt.wantName)
			}
		})
	}

	if got := (EmailConfig{SenderAddress: "bookings@example.com"}).FromHeader(); got != "bookings@example.com" {
		t.Errorf("FromHeader() without name = %q", got)
	}
}

func TestWebhookConfigAuthEnabled(t *testing.T) {
	tests := []struct {
		config WebhookConfig
		want   bool
	}{
		{WebhookConfig{}, false},
		{WebhookConfig{PasswordParameter: "/appointments/password"}, false},
		{WebhookConfig{Username: "dialogflow"}, true},
		{WebhookConfig{Password: "s3cret"}, true},
		{WebhookConfig{Username: "dialogflow", Password: "s3cret"}, true},
	}

	for _, tt := range tests {
		if got := tt.config.AuthEnabled(); got != tt.want {
			t.Errorf("AuthEnabled() for %+v = %v, want %v", tt.config, got, tt.want)
		}
	}
}

func TestConfigEmailRegion(t *testing.T) {
	cfg := &Config{AWSRegion: "us-east-1"}
	if got := cfg.EmailRegion(); got != "us-east-1" {
		t.Errorf("EmailRegion() = %q, want fallback to AWSRegion", got)
	}

	cfg.Email.Region = "eu-west-1"
	if got := cfg.EmailRegion(); got != "eu-west-1" {
		t.Errorf("EmailRegion() = %q, want eu-west-1", got)
	}
}

func TestHTTPConfigAddress(t *testing.T) {
	if got := (HTTPConfig{Port: "4004"}).Address(); got != ":4004" {
		t.Errorf("Address() = %q", got)
	}
	if got := (HTTPConfig{Host: "127.0.0.1", Port: "8080"}).Address(); got != "127.0.0.1:8080" {
		t.Errorf("Address() = %q", got)
	}
}
