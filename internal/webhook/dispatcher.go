// Package webhook routes fulfillment requests to the scheduling flows and
// exposes them over API Gateway and plain HTTP.
package webhook

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"appointment-webhook/internal/datetime"
	"appointment-webhook/internal/dialogflow"
	"appointment-webhook/internal/scheduling"
	"appointment-webhook/internal/types"
)

// Reply texts produced by the dispatcher itself
const (
	ReplyUnknownIntent = "I'm sorry, didn't hear you. Could you repeat it please? "
	ReplyMalformed     = "Sorry, I couldn't read that request."
	ReplyUnauthorized  = "Sorry, this request is not authorized."
	ReplyRateLimited   = "Sorry, too many requests. Please try again in a moment."
)

// Scheduler runs the scheduling flows
type Scheduler interface {
	CheckAvailability(ctx context.Context, date, clock string) ([]string, error)
	SendConfirmation(ctx context.Context, req scheduling.ConfirmationRequest) scheduling.Result
}

// Reply is a transport independent response
type Reply struct {
	StatusCode int
	Response   dialogflow.WebhookResponse
}

func newReply(status int, lines ...string) Reply {
	return Reply{StatusCode: status, Response: dialogflow.NewTextResponse(lines...)}
}

// Dispatcher selects the flow for an intent and wraps its reply lines
type Dispatcher struct {
	scheduler Scheduler
	auth      types.WebhookConfig
	logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher. Basic auth is enforced when auth has
// credentials configured.
func NewDispatcher(scheduler Scheduler, auth types.WebhookConfig, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		scheduler: scheduler,
		auth:      auth,
		logger:    logger.With("component", "dispatcher"),
	}
}

// Handle processes one request body
func (d *Dispatcher) Handle(ctx context.Context, body []byte, creds Credentials) Reply {
	if d.auth.AuthEnabled() && !creds.Matches(d.auth.Username, d.auth.Password) {
		d.logger.Warn("rejected unauthorized request", "credentials_present", creds.Present)
		return newReply(http.StatusUnauthorized, ReplyUnauthorized)
	}

	req, err := dialogflow.DecodeRequest(body)
	if err != nil {
		d.logger.Warn("malformed webhook request", "error", err)
		return newReply(http.StatusBadRequest, ReplyMalformed)
	}

	displayName := req.QueryResult.Intent.DisplayName
	intent := dialogflow.ParseIntent(displayName)
	logger := d.logger.With("intent", displayName, "session", req.Session)
	logger.Info("webhook request received", "kind", intent.String())

	var reply Reply
	switch intent {
	case dialogflow.IntentCheckAvailability:
		reply = d.checkAvailability(ctx, logger, req.QueryResult)
	case dialogflow.IntentSendConfirmation:
		reply = d.sendConfirmation(ctx, logger, req.QueryResult)
	default:
		logger.Warn("unknown intent")
		reply = newReply(http.StatusOK, ReplyUnknownIntent)
	}

	logger.Info("webhook reply",
		"status_code", reply.StatusCode,
		"lines", reply.Response.Lines())
	return reply
}

func (d *Dispatcher) checkAvailability(ctx context.Context, logger *slog.Logger, qr *dialogflow.QueryResult) Reply {
	date, clock, err := dialogflow.AvailabilityParams(qr)
	if err != nil {
		logger.Warn("missing availability parameters", "error", err)
		return newReply(http.StatusBadRequest, ReplyMalformed)
	}

	lines, err := d.scheduler.CheckAvailability(ctx, date, clock)
	if err != nil {
		var dtErr *datetime.DateTimeError
		if errors.As(err, &dtErr) {
			logger.Warn("could not understand requested time", "date", date, "time", clock, "error", err)
			return newReply(http.StatusOK, scheduling.ReplyUnparseableDate)
		}
		logger.Error("availability check failed", "error", err)
		return newReply(http.StatusInternalServerError, scheduling.ReplyFailure)
	}

	return newReply(http.StatusOK, lines...)
}

func (d *Dispatcher) sendConfirmation(ctx context.Context, logger *slog.Logger, qr *dialogflow.QueryResult) Reply {
	name, email, date, clock, err := dialogflow.ConfirmationParams(qr)
	if err != nil {
		logger.Warn("missing confirmation parameters", "error", err)
		return newReply(http.StatusBadRequest, ReplyMalformed)
	}

	result := d.scheduler.SendConfirmation(ctx, scheduling.ConfirmationRequest{
		Name:  name,
		Email: email,
		Date:  date,
		Time:  clock,
	})
	logger.Info("confirmation finished", "outcome", result.Outcome.String())

	return newReply(http.StatusOK, result.Lines...)
}
