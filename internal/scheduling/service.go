// Package scheduling implements the availability and confirmation flows.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"appointment-webhook/internal/calendar"
	"appointment-webhook/internal/datetime"
	"appointment-webhook/internal/notify"
	"appointment-webhook/internal/types"
)

// Reply texts
const (
	ReplyUnparseableDate = "Sorry, I couldn't understand that date and time. Could you say it again?"
	ReplyFailure         = "Sorry, something went wrong :("
)

// AvailabilityChecker reports whether a slot is free
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, startText string) (types.Availability, error)
}

// InviteBuilder produces a calendar invite document
type InviteBuilder interface {
	Build(start, end time.Time, name, email string) ([]byte, error)
}

// AppointmentNotifier sends the appointment emails
type AppointmentNotifier interface {
	SendAppointmentEmails(ctx context.Context, appt types.Appointment, invite []byte) (notify.Delivery, error)
}

// EventCreator books the appointment on the host calendar
type EventCreator interface {
	CreateEvent(ctx context.Context, req calendar.EventRequest) (*gcal.Event, error)
}

// Outcome is the result category of a confirmation
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeUnparseableDate
	OutcomeInviteFailed
	OutcomeDeliveryFailed
	OutcomeCalendarFailed
)

// String implements fmt.Stringer
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeUnparseableDate:
		return "unparseable_date"
	case OutcomeInviteFailed:
		return "invite_failed"
	case OutcomeDeliveryFailed:
		return "delivery_failed"
	case OutcomeCalendarFailed:
		return "calendar_failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the typed outcome of a confirmation with its reply lines
type Result struct {
	Outcome Outcome
	Lines   []string
	Err     error
}

// ConfirmationRequest carries the values collected by the agent
type ConfirmationRequest struct {
	Name  string
	Email string
	Date  string
	Time  string
}

// Options configures a Service
type Options struct {
	Host                types.Host
	Location            string
	Description         string
	CreateCalendarEvent bool
}

// Service runs the scheduling flows against its collaborators
type Service struct {
	checker  AvailabilityChecker
	invites  InviteBuilder
	notifier AppointmentNotifier
	events   EventCreator
	dt       *datetime.Manager
	opts     Options
	logger   *slog.Logger
}

// NewService creates a Service. events may be nil when calendar booking is
// disabled.
func NewService(checker AvailabilityChecker, invites InviteBuilder, notifier AppointmentNotifier, events EventCreator, dt *datetime.Manager, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if dt == nil {
		dt = datetime.New(nil)
	}
	return &Service{
		checker:  checker,
		invites:  invites,
		notifier: notifier,
		events:   events,
		dt:       dt,
		opts:     opts,
		logger:   logger.With("component", "scheduling"),
	}
}

// CheckAvailability composes the requested instant and asks the calendar
// once whether its slot is free
func (s *Service) CheckAvailability(ctx context.Context, date, clock string) ([]string, error) {
	startText, err := s.dt.Compose(date, clock)
	if err != nil {
		return nil, err
	}

	s.logger.Info("checking availability", "start", startText)

	availability, err := s.checker.CheckAvailability(ctx, startText)
	if err != nil {
		return nil, err
	}
	return availability.Messages, nil
}

// SendConfirmation builds the invite and emails both parties. Each step
// runs only when the previous one succeeded.
func (s *Service) SendConfirmation(ctx context.Context, req ConfirmationRequest) Result {
	startText, err := s.dt.Compose(req.Date, req.Time)
	if err != nil {
		return s.fail(OutcomeUnparseableDate, err)
	}
	start, err := s.dt.Parse(startText)
	if err != nil {
		return s.fail(OutcomeUnparseableDate, err)
	}

	appt := types.NewAppointment(req.Name, req.Email, startText, start)

	inviteData, err := s.invites.Build(appt.Start, appt.End, appt.RequesterName, appt.RequesterEmail)
	if err != nil {
		return s.fail(OutcomeInviteFailed, err)
	}

	if _, err := s.notifier.SendAppointmentEmails(ctx, appt, inviteData); err != nil {
		return s.fail(OutcomeDeliveryFailed, err)
	}

	if s.opts.CreateCalendarEvent && s.events != nil {
		_, err := s.events.CreateEvent(ctx, calendar.EventRequest{
			Summary:     "Online meeting with " + s.opts.Host.Name,
			Description: s.opts.Description,
			Location:    s.opts.Location,
			Start:       appt.Start,
			Duration:    types.SlotDuration,
			Attendees: []types.Host{
				s.opts.Host,
				{Name: appt.RequesterName, Email: appt.RequesterEmail},
			},
		})
		if err != nil {
			return s.fail(OutcomeCalendarFailed, err)
		}
	}

	s.logger.Info("appointment confirmed",
		"requester", appt.RequesterEmail,
		"start", appt.StartText)

	return Result{
		Outcome: OutcomeSuccess,
		Lines:   []string{fmt.Sprintf("Thank you, %s. I just sent you an email to %s!", appt.RequesterName, appt.RequesterEmail)},
	}
}

func (s *Service) fail(outcome Outcome, err error) Result {
	line := ReplyFailure
	if outcome == OutcomeUnparseableDate {
		line = ReplyUnparseableDate
	}

	attrs := []any{"outcome", outcome.String(), "error", err}
	var delErr *notify.DeliveryError
	if errors.As(err, &delErr) {
		attrs = append(attrs, "failed_recipient", delErr.Failed.Role, "delivered", len(delErr.Delivered))
	}
	s.logger.Error("confirmation failed", attrs...)

	return Result{Outcome: outcome, Lines: []string{line}, Err: err}
}
