package notify

import (
	"fmt"
	"html"
	"strings"

	"appointment-webhook/internal/types"
)

// EmailTemplate is a rendered email
type EmailTemplate struct {
	Subject  string
	HTMLBody string
	TextBody string
}

// OperatorTemplate renders the notice sent to the host
func OperatorTemplate(host types.Host, appt types.Appointment) EmailTemplate {
	hostName := html.EscapeString(host.Name)
	body := fmt.Sprintf("Hey, %s!<br> %s just sent an appointment request for %s. <br>Please send an email of confirmation to %s",
		hostName,
		html.EscapeString(appt.RequesterName),
		html.EscapeString(appt.StartText),
		html.EscapeString(appt.RequesterEmail))

	return EmailTemplate{
		Subject:  fmt.Sprintf("Appointment request from %s", host.Name),
		HTMLBody: body,
		TextBody: textFromHTML(body),
	}
}

// RequesterTemplate renders the confirmation sent to the requester
func RequesterTemplate(host types.Host, appt types.Appointment) EmailTemplate {
	body := fmt.Sprintf("Hey, %s! <br> %s just received your appointment request for %s and will contact you soon. <br> Meanwhile, please add the event to your calendar.",
		html.EscapeString(appt.RequesterName),
		html.EscapeString(host.Name),
		html.EscapeString(appt.StartText))

	return EmailTemplate{
		Subject:  fmt.Sprintf("Appointment confirmation with %s", host.Name),
		HTMLBody: body,
		TextBody: textFromHTML(body),
	}
}

func textFromHTML(body string) string {
	lines := strings.Split(body, "<br>")
	for i, line := range lines {
		lines[i] = html.UnescapeString(strings.TrimSpace(line))
	}
	return strings.Join(lines, "\r\n")
}
