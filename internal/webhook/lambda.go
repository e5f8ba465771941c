package webhook

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"appointment-webhook/internal/dialogflow"
)

// LambdaHandler adapts the dispatcher to API Gateway proxy events
type LambdaHandler struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewLambdaHandler creates a LambdaHandler
func NewLambdaHandler(dispatcher *Dispatcher, logger *slog.Logger) *LambdaHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LambdaHandler{dispatcher: dispatcher, logger: logger.With("component", "lambda")}
}

// Handle processes API Gateway proxy requests
func (h *LambdaHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := h.logger.With("request_id", request.RequestContext.RequestID)
	logger.Info("webhook request received",
		"method", request.HTTPMethod,
		"path", request.Path)

	if request.HTTPMethod != http.MethodPost {
		logger.Warn("invalid http method",
			"method", request.HTTPMethod,
			"expected", http.MethodPost)
		return createResponse(http.StatusMethodNotAllowed, dialogflow.NewTextResponse("Only POST requests are supported")), nil
	}

	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			logger.Warn("failed to decode base64 body", "error", err)
			return createResponse(http.StatusBadRequest, dialogflow.NewTextResponse(ReplyMalformed)), nil
		}
		body = decoded
	}

	authHeader := request.Headers["Authorization"]
	if authHeader == "" {
		// API Gateway may normalize header names
		authHeader = request.Headers["authorization"]
	}

	reply := h.dispatcher.Handle(ctx, body, ParseBasicAuth(authHeader))
	return createResponse(reply.StatusCode, reply.Response), nil
}

func createResponse(statusCode int, response dialogflow.WebhookResponse) events.APIGatewayProxyResponse {
	bodyJSON, _ := json.Marshal(response)

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(bodyJSON),
	}
}
