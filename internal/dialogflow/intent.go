package dialogflow

import (
	"fmt"
	"strings"
)

// IntentKind is the closed set of intents this webhook fulfills
type IntentKind int

const (
	IntentUnknown IntentKind = iota
	IntentCheckAvailability
	IntentSendConfirmation
)

// Display names configured on the agent
const (
	CheckAvailabilityDisplayName = "Schedule Appointment"
	SendConfirmationDisplayName  = "Schedule Appointment - Email - Name"
)

// ParseIntent maps a display name onto an IntentKind
func ParseIntent(displayName string) IntentKind {
	switch strings.TrimSpace(displayName) {
	case CheckAvailabilityDisplayName:
		return IntentCheckAvailability
	case SendConfirmationDisplayName:
		return IntentSendConfirmation
	default:
		return IntentUnknown
	}
}

// String implements fmt.Stringer
func (k IntentKind) String() string {
	switch k {
	case IntentCheckAvailability:
		return "check_availability"
	case IntentSendConfirmation:
		return "send_confirmation"
	default:
		return "unknown"
	}
}

// AvailabilityParams extracts the requested date and time
func AvailabilityParams(qr *QueryResult) (date, clock string, err error) {
	date, ok := qr.Parameters.String("date")
	if !ok {
		return "", "", &MissingFieldError{Field: "queryResult.parameters.date"}
	}
	clock, ok = qr.Parameters.String("time")
	if !ok {
		return "", "", &MissingFieldError{Field: "queryResult.parameters.time"}
	}
	return date, clock, nil
}

// ConfirmationParams extracts the requester identity and the slot from the
// current parameters and the output contexts of earlier turns. The email is
// expected on the first context and the date/time on the second; when the
// expected context lacks the key the remaining contexts are searched.
func ConfirmationParams(qr *QueryResult) (name, email, date, clock string, err error) {
	name, ok := qr.Parameters.String("given-name")
	if !ok {
		return "", "", "", "", &MissingFieldError{Field: "queryResult.parameters.given-name"}
	}

	lookups := []struct {
		key   string
		index int
		dest  *string
	}{
		{"email", 0, &email},
		{"date", 1, &date},
		{"time", 1, &clock},
	}
	for _, l := range lookups {
		v, found := contextValue(qr.OutputContexts, l.index, l.key)
		if !found {
			return "", "", "", "", &MissingFieldError{
				Field: fmt.Sprintf("queryResult.outputContexts[%d].parameters.%s", l.index, l.key),
			}
		}
		*l.dest = v
	}

	return name, email, date, clock, nil
}

func contextValue(contexts []OutputContext, preferred int, key string) (string, bool) {
	if preferred < len(contexts) {
		if v, ok := contexts[preferred].Parameters.String(key); ok {
			return v, true
		}
	}
	for i, c := range contexts {
		if i == preferred {
			continue
		}
		if v, ok := c.Parameters.String(key); ok {
			return v, true
		}
	}
	return "", false
}
