package dialogflow

// WebhookResponse is the fulfillment response envelope
type WebhookResponse struct {
	FulfillmentMessages []Message `json:"fulfillmentMessages"`
}

// Message is a single fulfillment message
type Message struct {
	Text Text `json:"text"`
}

// Text holds the literal response lines of a message
type Text struct {
	Text []string `json:"text"`
}

// NewTextResponse wraps each line in its own message
func NewTextResponse(lines ...string) WebhookResponse {
	messages := make([]Message, 0, len(lines))
	for _, line := range lines {
		messages = append(messages, Message{Text: Text{Text: []string{line}}})
	}
	return WebhookResponse{FulfillmentMessages: messages}
}

// Lines flattens the envelope back into its text lines
func (r WebhookResponse) Lines() []string {
	var lines []string
	for _, m := range r.FulfillmentMessages {
		lines = append(lines, m.Text.Text...)
	}
	return lines
}
