package calendar

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// NewService creates a Google Calendar service from service account JSON
func NewService(ctx context.Context, credentialsJSON []byte) (*gcal.Service, error) {
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("calendar credentials are empty")
	}

	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar credentials: %w", err)
	}

	svc, err := gcal.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

// GoogleEvents adapts a calendar service to EventsAPI
type GoogleEvents struct {
	svc *gcal.Service
}

// NewGoogleEvents wraps svc
func NewGoogleEvents(svc *gcal.Service) *GoogleEvents {
	return &GoogleEvents{svc: svc}
}

// List returns single events ordered by start time
func (g *GoogleEvents) List(ctx context.Context, calendarID string, q ListQuery) ([]*gcal.Event, error) {
	call := g.svc.Events.List(calendarID).
		Context(ctx).
		SingleEvents(true).
		OrderBy("startTime")
	if q.Query != "" {
		call = call.Q(q.Query)
	}
	if q.TimeMin != "" {
		call = call.TimeMin(q.TimeMin)
	}
	if q.TimeMax != "" {
		call = call.TimeMax(q.TimeMax)
	}
	if q.MaxResults > 0 {
		call = call.MaxResults(q.MaxResults)
	}

	events, err := call.Do()
	if err != nil {
		return nil, err
	}
	return events.Items, nil
}

// Insert creates the event and sends invitations to all attendees
func (g *GoogleEvents) Insert(ctx context.Context, calendarID string, event *gcal.Event) (*gcal.Event, error) {
	return g.svc.Events.Insert(calendarID, event).
		SendUpdates("all").
		Context(ctx).
		Do()
}

// Delete removes the event and notifies all attendees
func (g *GoogleEvents) Delete(ctx context.Context, calendarID, eventID string) error {
	return g.svc.Events.Delete(calendarID, eventID).
		SendUpdates("all").
		Context(ctx).
		Do()
}
