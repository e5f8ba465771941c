package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"appointment-webhook/internal/invite"
	"appointment-webhook/internal/types"
)

// MessageSender sends a single message
type MessageSender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}

// Delivery holds the receipts of both appointment emails
type Delivery struct {
	Operator  Receipt
	Requester Receipt
}

// Notifier sends the operator notice and the requester confirmation for an
// appointment
type Notifier struct {
	sender MessageSender
	host   types.Host
	from   string
	logger *slog.Logger
}

// NewNotifier creates a Notifier sending from the given address
func NewNotifier(sender MessageSender, host types.Host, from string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		sender: sender,
		host:   host,
		from:   from,
		logger: logger.With("component", "notifier"),
	}
}

// SendAppointmentEmails sends the operator email and then the requester
// email, both carrying the same invite attachment. A failure stops the
// sequence and is returned as a *DeliveryError.
func (n *Notifier) SendAppointmentEmails(ctx context.Context, appt types.Appointment, inviteData []byte) (Delivery, error) {
	attachment := &Attachment{
		Filename:    invite.Filename,
		ContentType: invite.ContentType,
		Disposition: "attachment",
		ContentID:   uuid.NewString() + "@appointment-webhook",
		Content:     inviteData,
	}

	var delivery Delivery
	steps := []struct {
		recipient Recipient
		tpl       EmailTemplate
		receipt   *Receipt
	}{
		{Recipient{Role: RoleOperator, Address: n.host.Email}, OperatorTemplate(n.host, appt), &delivery.Operator},
		{Recipient{Role: RoleRequester, Address: appt.RequesterEmail}, RequesterTemplate(n.host, appt), &delivery.Requester},
	}

	var delivered []Recipient
	for _, step := range steps {
		receipt, err := n.sender.Send(ctx, Message{
			From:       n.from,
			To:         step.recipient.Address,
			Subject:    step.tpl.Subject,
			HTMLBody:   step.tpl.HTMLBody,
			TextBody:   step.tpl.TextBody,
			Attachment: attachment,
		})
		if err != nil {
			kind := ClassifyError(err)
			n.logger.Error("appointment email failed",
				"role", step.recipient.Role,
				"to", step.recipient.Address,
				"kind", kind,
				"delivered", len(delivered),
				"error", err)
			return delivery, &DeliveryError{
				Failed:    step.recipient,
				Delivered: delivered,
				Kind:      kind,
				Err:       err,
			}
		}
		*step.receipt = receipt
		delivered = append(delivered, step.recipient)
	}

	n.logger.Info("appointment emails sent",
		"requester", appt.RequesterEmail,
		"start", appt.StartText,
		"operator_message_id", delivery.Operator.MessageID,
		"requester_message_id", delivery.Requester.MessageID)

	return delivery, nil
}

// String implements fmt.Stringer
func (r Recipient) String() string {
	return fmt.Sprintf("%s <%s>", r.Role, r.Address)
}
