// Package invite builds iCalendar meeting requests for booked appointments.
package invite

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"appointment-webhook/internal/datetime"
)

const (
	// Filename is the attachment name used for generated invites
	Filename = "appointment.ics"
	// ContentType is the MIME type of generated invites
	ContentType = "text/calendar"

	DefaultProductID = "-//Appointment Webhook//Scheduler//EN"
	DefaultPriority  = 5
)

var rangeValidator = datetime.NewValidator(nil)

// BuildError reports an invite that could not be generated
type BuildError struct {
	Reason string
	Err    error
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to build invite: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to build invite: %s", e.Reason)
}

// Unwrap returns the underlying error
func (e *BuildError) Unwrap() error {
	return e.Err
}

// Builder generates meeting requests between the host and a requester
type Builder struct {
	ProductID        string
	HostName         string
	HostEmail        string
	Location         string
	Description      string
	Priority         int
	IncludeOrganizer bool
	Logger           *slog.Logger
}

// Build returns the serialized VCALENDAR for a single appointment. The
// output depends only on the arguments and the builder fields.
func (b *Builder) Build(start, end time.Time, name, email string) ([]byte, error) {
	if err := rangeValidator.ValidateDateRange(start, end); err != nil {
		return nil, &BuildError{Reason: "invalid appointment range", Err: err}
	}
	if strings.TrimSpace(email) == "" {
		return nil, &BuildError{Reason: "requester email is required"}
	}
	if strings.TrimSpace(b.HostEmail) == "" {
		return nil, &BuildError{Reason: "host email is required"}
	}

	productID := b.ProductID
	if productID == "" {
		productID = DefaultProductID
	}
	priority := b.Priority
	if priority == 0 {
		priority = DefaultPriority
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropMethod, "REQUEST")
	cal.Props.SetText("NAME", b.HostName)

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, eventUID(start, end, email))
	event.Props.SetDateTime(ical.PropDateTimeStamp, start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, end.UTC())
	event.Props.SetText(ical.PropSummary, "Online meeting with "+b.HostName)
	if b.Location != "" {
		event.Props.SetText(ical.PropLocation, b.Location)
	}
	if b.Description != "" {
		event.Props.SetText(ical.PropDescription, b.Description)
	}

	prio := ical.NewProp(ical.PropPriority)
	prio.Value = strconv.Itoa(priority)
	event.Props.Set(prio)

	if b.IncludeOrganizer {
		organizer := ical.NewProp(ical.PropOrganizer)
		organizer.Params.Set(ical.ParamCommonName, b.HostName)
		organizer.Value = "mailto:" + b.HostEmail
		event.Props.Set(organizer)
	}

	event.Props.Add(attendee(b.HostName, b.HostEmail))
	event.Props.Add(attendee(name, email))

	cal.Children = append(cal.Children, event.Component)

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, &BuildError{Reason: "encode calendar", Err: err}
	}

	if b.Logger != nil {
		b.Logger.Debug("generated calendar invite",
			"uid", eventUID(start, end, email),
			"bytes", buf.Len(),
			"document", buf.String())
	}

	return buf.Bytes(), nil
}

func attendee(name, email string) *ical.Prop {
	prop := ical.NewProp(ical.PropAttendee)
	prop.Params.Set(ical.ParamCommonName, name)
	prop.Params.Set(ical.ParamRole, "REQ-PARTICIPANT")
	prop.Params.Set(ical.ParamRSVP, "TRUE")
	prop.Value = "mailto:" + email
	return prop
}

func eventUID(start, end time.Time, email string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%d|%s",
		start.UTC().Unix(), end.UTC().Unix(), strings.ToLower(strings.TrimSpace(email)))))
	return hex.EncodeToString(sum[:16]) + "@appointment-webhook"
}
