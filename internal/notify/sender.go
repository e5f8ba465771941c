// Package notify delivers appointment emails through Amazon SES.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sesv2types "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// SESAPI is the subset of the SES v2 client used by Sender
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Receipt describes an accepted message
type Receipt struct {
	MessageID  string
	StatusCode int
	Headers    http.Header
	RequestID  string
}

// Sender sends raw MIME messages, one backend call per message
type Sender struct {
	client SESAPI
	logger *slog.Logger
}

// NewSender creates a Sender over client
func NewSender(client SESAPI, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{client: client, logger: logger.With("component", "notify")}
}

// Send delivers msg and returns the backend receipt
func (s *Sender) Send(ctx context.Context, msg Message) (Receipt, error) {
	raw, err := BuildRawMessage(msg)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to build email: %w", err)
	}

	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(msg.From),
		Destination: &sesv2types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &sesv2types.EmailContent{
			Raw: &sesv2types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}

	receipt := receiptFromOutput(out)
	s.logger.Info("email sent",
		"to", msg.To,
		"subject", msg.Subject,
		"message_id", receipt.MessageID,
		"status_code", receipt.StatusCode,
		"request_id", receipt.RequestID,
		"headers", receipt.Headers)

	return receipt, nil
}

func receiptFromOutput(out *sesv2.SendEmailOutput) Receipt {
	var receipt Receipt
	if out == nil {
		return receipt
	}
	receipt.MessageID = aws.ToString(out.MessageId)

	if raw, ok := awsmiddleware.GetRawResponse(out.ResultMetadata).(*smithyhttp.Response); ok && raw != nil && raw.Response != nil {
		receipt.StatusCode = raw.StatusCode
		receipt.Headers = raw.Header.Clone()
	}
	if requestID, ok := awsmiddleware.GetRequestIDMetadata(out.ResultMetadata); ok {
		receipt.RequestID = requestID
	}
	return receipt
}
