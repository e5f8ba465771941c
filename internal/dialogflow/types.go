// Package dialogflow models the fulfillment webhook request and response.
package dialogflow

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WebhookRequest represents the fulfillment request sent by the agent
type WebhookRequest struct {
	ResponseID  string       `json:"responseId"`
	Session     string       `json:"session"`
	QueryResult *QueryResult `json:"queryResult"`
}

// QueryResult carries the matched intent and the extracted slot values
type QueryResult struct {
	QueryText      string          `json:"queryText"`
	LanguageCode   string          `json:"languageCode"`
	Intent         *Intent         `json:"intent"`
	Parameters     Parameters      `json:"parameters"`
	OutputContexts []OutputContext `json:"outputContexts"`
}

// Intent identifies the matched intent
type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// OutputContext carries parameters remembered across conversation turns
type OutputContext struct {
	Name          string     `json:"name"`
	LifespanCount int        `json:"lifespanCount"`
	Parameters    Parameters `json:"parameters"`
}

// Parameters holds extracted slot values keyed by parameter name
type Parameters map[string]any

// String returns the parameter as text. Lists yield their first string and
// structured date/time or person values yield their primary field.
func (p Parameters) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false
	}
	s := toString(v)
	return s, s != ""
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		for _, item := range val {
			if s := toString(item); s != "" {
				return s
			}
		}
	case map[string]any:
		for _, key := range []string{"date_time", "startDateTime", "name"} {
			if s, ok := val[key]; ok {
				if text := toString(s); text != "" {
					return text
				}
			}
		}
	}
	return ""
}

// MissingFieldError reports a required request field that was not present
type MissingFieldError struct {
	Field string
}

// Error implements the error interface
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// DecodeRequest parses a request body and checks for the intent name
func DecodeRequest(body []byte) (*WebhookRequest, error) {
	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	if req.QueryResult == nil {
		return nil, &MissingFieldError{Field: "queryResult"}
	}
	if req.QueryResult.Intent == nil {
		return nil, &MissingFieldError{Field: "queryResult.intent"}
	}
	if strings.TrimSpace(req.QueryResult.Intent.DisplayName) == "" {
		return nil, &MissingFieldError{Field: "queryResult.intent.displayName"}
	}

	return &req, nil
}
