// Package calendar checks availability against and manages events on the
// host's Google calendar.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"appointment-webhook/internal/datetime"
	"appointment-webhook/internal/types"
)

const (
	// DefaultSearchWindow is applied on both sides of now when no start is given
	DefaultSearchWindow = 30 * 24 * time.Hour

	emailReminderMinutes = 24 * 60
	popupReminderMinutes = 10
)

// ListQuery bounds an event listing
type ListQuery struct {
	Query      string
	TimeMin    string
	TimeMax    string
	MaxResults int64
}

// EventsAPI is the subset of the calendar backend used by Client
type EventsAPI interface {
	List(ctx context.Context, calendarID string, q ListQuery) ([]*gcal.Event, error)
	Insert(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error)
	Delete(ctx context.Context, calendarID, eventID string) error
}

// EventSummary is a compact view of an upcoming event
type EventSummary struct {
	ID      string
	Summary string
	Start   string
}

// EventRequest describes an event to create
type EventRequest struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	Duration    time.Duration
	Attendees   []types.Host
}

// Client performs calendar operations for one calendar
type Client struct {
	api        EventsAPI
	calendarID string
	timezone   string
	dt         *datetime.Manager
	logger     *slog.Logger
	now        func() time.Time
}

// NewClient creates a Client over the given backend
func NewClient(api EventsAPI, calendarID, timezone string, dt *datetime.Manager, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if dt == nil {
		dt = datetime.New(nil)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{
		api:        api,
		calendarID: calendarID,
		timezone:   timezone,
		dt:         dt,
		logger:     logger.With("component", "calendar"),
		now:        time.Now,
	}
}

// UpcomingEvents lists the next max events starting from now
func (c *Client) UpcomingEvents(ctx context.Context, max int) ([]EventSummary, error) {
	if max <= 0 {
		max = 10
	}

	items, err := c.api.List(ctx, c.calendarID, ListQuery{
		TimeMin:    c.dt.Format(c.now()).ToCalendarAPI(),
		MaxResults: int64(max),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}

	summaries := make([]EventSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, EventSummary{
			ID:      item.Id,
			Summary: item.Summary,
			Start:   eventStart(item),
		})
	}
	return summaries, nil
}

// SearchEvents lists events matching query within [start, start+duration).
// A nil start searches 30 days either side of now.
func (c *Client) SearchEvents(ctx context.Context, query string, start *time.Time, duration time.Duration) ([]*gcal.Event, error) {
	var timeMin, timeMax time.Time
	if start != nil {
		if duration <= 0 {
			duration = types.SlotDuration
		}
		timeMin = *start
		timeMax = start.Add(duration)
	} else {
		now := c.now()
		timeMin = now.Add(-DefaultSearchWindow)
		timeMax = now.Add(DefaultSearchWindow)
	}

	q := ListQuery{
		Query:   query,
		TimeMin: c.dt.Format(timeMin).ToCalendarAPI(),
		TimeMax: c.dt.Format(timeMax).ToCalendarAPI(),
	}
	c.logger.Debug("searching events", "query", query, "time_min", q.TimeMin, "time_max", q.TimeMax)

	items, err := c.api.List(ctx, c.calendarID, q)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	return items, nil
}

// CheckAvailability reports whether the one-hour slot starting at startText
// is free. startText is echoed verbatim in the reply lines.
func (c *Client) CheckAvailability(ctx context.Context, startText string) (types.Availability, error) {
	start, err := c.dt.Parse(startText)
	if err != nil {
		return types.Availability{}, err
	}

	events, err := c.SearchEvents(ctx, "", &start, types.SlotDuration)
	if err != nil {
		return types.Availability{}, err
	}

	if len(events) > 0 {
		c.logger.Info("slot unavailable", "start", startText, "conflicts", len(events))
		return types.Availability{
			Free: false,
			Messages: []string{
				fmt.Sprintf("I'm sorry, there are no slots available for %s. Would some other time work for you?", startText),
			},
		}, nil
	}

	c.logger.Info("slot available", "start", startText)
	return types.Availability{
		Free: true,
		Messages: []string{
			"Ok, let me see if we can fit you in.",
			fmt.Sprintf("%s is fine!", startText),
		},
	}, nil
}

// CreateEvent inserts an event and notifies its attendees
func (c *Client) CreateEvent(ctx context.Context, req EventRequest) (*gcal.Event, error) {
	if req.Start.IsZero() {
		return nil, fmt.Errorf("event start is required")
	}
	duration := req.Duration
	if duration <= 0 {
		duration = types.SlotDuration
	}
	end := req.Start.Add(duration)

	event := &gcal.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Location:    req.Location,
		Start:       c.eventTime(req.Start),
		End:         c.eventTime(end),
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: emailReminderMinutes},
				{Method: "popup", Minutes: popupReminderMinutes},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
	for _, a := range req.Attendees {
		if a.Email == "" {
			continue
		}
		event.Attendees = append(event.Attendees, &gcal.EventAttendee{
			Email:       a.Email,
			DisplayName: a.Name,
		})
	}

	created, err := c.api.Insert(ctx, c.calendarID, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	c.logger.Info("event added",
		"event_id", created.Id,
		"summary", req.Summary,
		"start", event.Start.DateTime,
		"end", event.End.DateTime)
	return created, nil
}

// DeleteEvent removes an event and notifies its attendees
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("event id is required")
	}

	c.logger.Info("deleting event", "event_id", eventID)
	if err := c.api.Delete(ctx, c.calendarID, eventID); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}

func (c *Client) eventTime(t time.Time) *gcal.EventDateTime {
	if c.timezone == "" {
		return &gcal.EventDateTime{DateTime: c.dt.Format(t).ToCalendarAPI()}
	}
	return &gcal.EventDateTime{
		DateTime: c.dt.Format(t).ToCalendarLocal(),
		TimeZone: c.timezone,
	}
}

func eventStart(e *gcal.Event) string {
	if e.Start == nil {
		return ""
	}
	if e.Start.DateTime != "" {
		return e.Start.DateTime
	}
	return e.Start.Date
}
