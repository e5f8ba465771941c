// Package types contains all shared type definitions and structs.
package types

import (
	"net/mail"
	"strings"
	"time"
)

// SlotDuration is the fixed length of an appointment slot
const SlotDuration = time.Hour

// Host identifies the person whose calendar is being booked
type Host struct {
	Name  string `json:"name" env:"HOST_NAME"`
	Email string `json:"email" env:"HOST_EMAIL"`
}

// Appointment is a single requested meeting, built fresh for each request
type Appointment struct {
	RequesterName  string
	RequesterEmail string

	// StartText is the composite instant exactly as it is echoed back to people
	StartText string
	Start     time.Time
	End       time.Time
}

// NewAppointment creates an appointment that lasts one SlotDuration
func NewAppointment(name, email, startText string, start time.Time) Appointment {
	return Appointment{
		RequesterName:  strings.TrimSpace(name),
		RequesterEmail: strings.TrimSpace(email),
		StartText:      startText,
		Start:          start,
		End:            start.Add(SlotDuration),
	}
}

// Availability is the outcome of a slot check
type Availability struct {
	Free     bool
	Messages []string
}

// GoogleConfig holds the calendar backend settings
type GoogleConfig struct {
	CredentialsFile      string `json:"credentials_file" env:"GOOGLE_CREDENTIALS_FILE"`
	CredentialsParameter string `json:"credentials_parameter" env:"GOOGLE_CREDENTIALS_PARAMETER"`
	CalendarID           string `json:"calendar_id" env:"GOOGLE_CALENDAR_ID"`

	// CredentialsJSON is filled at startup from the file or the parameter
	CredentialsJSON []byte `json:"-"`
}

// TimezoneConfig holds the timezone used when requests carry no offset
type TimezoneConfig struct {
	Name   string `json:"name" env:"TIMEZONE"`
	Offset string `json:"offset" env:"TIMEZONE_OFFSET"`
}

// EmailConfig holds the email delivery settings
type EmailConfig struct {
	SenderAddress   string `json:"sender_address" env:"EMAIL_SENDER_ADDRESS"`
	SenderName      string `json:"sender_name" env:"EMAIL_SENDER_NAME"`
	Region          string `json:"region" env:"EMAIL_REGION"`
	AccessKeyID     string `json:"access_key_id" env:"EMAIL_ACCESS_KEY_ID"`
	SecretAccessKey string `json:"secret_access_key" env:"EMAIL_SECRET_ACCESS_KEY"`
	RoleARN         string `json:"role_arn" env:"EMAIL_ROLE_ARN"`
}

// FromHeader returns the sender formatted for a From header. The display
// name is quoted or RFC 2047 encoded as needed.
func (e EmailConfig) FromHeader() string {
	if e.SenderName == "" {
		return e.SenderAddress
	}
	return (&mail.Address{Name: e.SenderName, Address: e.SenderAddress}).String()
}

// InviteConfig holds the fixed calendar invite metadata
type InviteConfig struct {
	ProductID        string `json:"product_id" env:"INVITE_PRODUCT_ID"`
	Location         string `json:"location" env:"INVITE_LOCATION"`
	Description      string `json:"description" env:"INVITE_DESCRIPTION"`
	Priority         int    `json:"priority" env:"INVITE_PRIORITY"`
	IncludeOrganizer bool   `json:"include_organizer" env:"INVITE_INCLUDE_ORGANIZER"`
}

// SchedulingConfig toggles optional steps of the confirmation flow
type SchedulingConfig struct {
	CreateCalendarEvent bool `json:"create_calendar_event" env:"SCHEDULING_CREATE_CALENDAR_EVENT"`
}

// WebhookConfig holds the optional basic auth credentials
type WebhookConfig struct {
	Username          string `json:"username" env:"WEBHOOK_USERNAME"`
	Password          string `json:"password" env:"WEBHOOK_PASSWORD"`
	PasswordParameter string `json:"password_parameter" env:"WEBHOOK_PASSWORD_PARAMETER"`
}

// AuthEnabled returns true when requests must carry basic auth
func (w WebhookConfig) AuthEnabled() bool {
	return w.Username != "" || w.Password != ""
}

// HTTPConfig holds the local server settings
type HTTPConfig struct {
	Host           string  `json:"host" env:"HTTP_SERVER_HOST"`
	Port           string  `json:"port" env:"HTTP_SERVER_PORT"`
	RateLimitRPS   float64 `json:"rate_limit_rps" env:"HTTP_RATE_LIMIT_RPS"`
	RateLimitBurst int     `json:"rate_limit_burst" env:"HTTP_RATE_LIMIT_BURST"`
}

// Address returns host:port
func (h HTTPConfig) Address() string {
	return h.Host + ":" + h.Port
}

// Config represents the application configuration
type Config struct {
	AWSRegion string `json:"aws_region" env:"AWS_REGION"`
	LogLevel  string `json:"log_level" env:"LOG_LEVEL"`

	Host       Host             `json:"host"`
	Google     GoogleConfig     `json:"google"`
	Timezone   TimezoneConfig   `json:"timezone"`
	Email      EmailConfig      `json:"email"`
	Invite     InviteConfig     `json:"invite"`
	Scheduling SchedulingConfig `json:"scheduling"`
	Webhook    WebhookConfig    `json:"webhook"`
	HTTP       HTTPConfig       `json:"http"`
}

// EmailRegion returns the region for the email client, falling back to AWSRegion
func (c *Config) EmailRegion() string {
	if c.Email.Region != "" {
		return c.Email.Region
	}
	return c.AWSRegion
}
