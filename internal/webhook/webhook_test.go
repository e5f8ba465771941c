package webhook

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"

	"appointment-webhook/internal/datetime"
	"appointment-webhook/internal/dialogflow"
	"appointment-webhook/internal/scheduling"
	"appointment-webhook/internal/types"
)

type fakeScheduler struct {
	availabilityCalls  [][2]string
	confirmationCalls  []scheduling.ConfirmationRequest
	availabilityLines  []string
	availabilityErr    error
	confirmationResult scheduling.Result
}

func (f *fakeScheduler) CheckAvailability(ctx context.Context, date, clock string) ([]string, error) {
	f.availabilityCalls = append(f.availabilityCalls, [2]string{date, clock})
	return f.availabilityLines, f.availabilityErr
}

func (f *fakeScheduler) SendConfirmation(ctx context.Context, req scheduling.ConfirmationRequest) scheduling.Result {
	f.confirmationCalls = append(f.confirmationCalls, req)
	return f.confirmationResult
}

func (f *fakeScheduler) calls() int {
	return len(f.availabilityCalls) + len(f.confirmationCalls)
}

const availabilityBody = `{
  "queryResult": {
    "intent": {"displayName": "Schedule Appointment"},
    "parameters": {"date": "2024-06-01T12:00:00+02:00", "time": "2024-06-01T14:00:00+02:00"}
  }
}`

const confirmationBody = `{
  "queryResult": {
    "intent": {"displayName": "Schedule Appointment - Email - Name"},
    "parameters": {"given-name": "Alex"},
    "outputContexts": [
      {"parameters": {"email": "alex@example.com"}},
      {"parameters": {"date": "2024-06-01T12:00:00+02:00", "time": "2024-06-01T14:00:00+02:00"}}
    ]
  }
}`

func TestDispatcherAvailability(t *testing.T) {
	sched := &fakeScheduler{availabilityLines: []string{"Ok, let me see if we can fit you in.", "2024-06-01T14:00:00+02:00 is fine!"}}
	d := NewDispatcher(sched, types.WebhookConfig{}, nil)

	reply := d.Handle(context.Background(), []byte(availabilityBody), Credentials{})
	if reply.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", reply.StatusCode)
	}
	if !reflect.DeepEqual(reply.Response.Lines(), sched.availabilityLines) {
		t.Errorf("Lines = %v", reply.Response.Lines())
	}
	if len(reply.Response.FulfillmentMessages) != 2 {
		t.Errorf("expected one message per line, got %d", len(reply.Response.FulfillmentMessages))
	}
	want := [2]string{"2024-06-01T12:00:00+02:00", "2024-06-01T14:00:00+02:00"}
	if len(sched.availabilityCalls) != 1 || sched.availabilityCalls[0] != want {
		t.Errorf("availability calls = %v", sched.availabilityCalls)
	}
}

func TestDispatcherAvailabilityErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantLine   string
	}{
		{"calendar failure", errors.New("googleapi: 500"), http.StatusInternalServerError, scheduling.ReplyFailure},
		{"bad date", datetime.NewDateTimeError(datetime.ErrInvalidFormat, "bad", "x", nil), http.StatusOK, scheduling.ReplyUnparseableDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &fakeScheduler{availabilityErr: tt.err}
			reply := NewDispatcher(sched, types.WebhookConfig{}, nil).Handle(context.Background(), []byte(availabilityBody), Credentials{})
			if reply.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", reply.StatusCode, tt.wantStatus)
			}
			if !reflect.DeepEqual(reply.Response.Lines(), []string{tt.wantLine}) {
				t.Errorf("Lines = %v", reply.Response.Lines())
			}
		})
	}
}

func TestDispatcherConfirmation(t *testing.T) {
	sched := &fakeScheduler{confirmationResult: scheduling.Result{
		Outcome: scheduling.OutcomeSuccess,
		Lines:   []string{"Thank you, Alex. I just sent you an email to alex@example.com!"},
	}}
	d := NewDispatcher(sched, types.WebhookConfig{}, nil)

	reply := d.Handle(context.Background(), []byte(confirmationBody), Credentials{})
	if reply.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", reply.StatusCode)
	}
	if !reflect.DeepEqual(reply.Response.Lines(), sched.confirmationResult.Lines) {
		t.Errorf("Lines = %v", reply.Response.Lines())
	}
	want := scheduling.ConfirmationRequest{
		Name:  "Alex",
		Email: "alex@example.com",
		Date:  "2024-06-01T12:00:00+02:00",
		Time:  "2024-06-01T14:00:00+02:00",
	}
	if len(sched.confirmationCalls) != 1 || sched.confirmationCalls[0] != want {
		t.Errorf("confirmation calls = %+v", sched.confirmationCalls)
	}
}

func TestDispatcherUnknownIntent(t *testing.T) {
	sched := &fakeScheduler{}
	d := NewDispatcher(sched, types.WebhookConfig{}, nil)

	body := `{"queryResult":{"intent":{"displayName":"Default Welcome Intent"},"parameters":{}}}`
	reply := d.Handle(context.Background(), []byte(body), Credentials{})

	if reply.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", reply.StatusCode)
	}
	if !reflect.DeepEqual(reply.Response.Lines(), []string{ReplyUnknownIntent}) {
		t.Errorf("Lines = %q", reply.Response.Lines())
	}
	if sched.calls() != 0 {
		t.Errorf("expected no downstream calls, got %d", sched.calls())
	}
}

func TestDispatcherMalformed(t *testing.T) {
	bodies := []string{
		`not json`,
		`{}`,
		`{"queryResult":{}}`,
		`{"queryResult":{"intent":{"displayName":"Schedule Appointment"},"parameters":{}}}`,
		`{"queryResult":{"intent":{"displayName":"Schedule Appointment - Email - Name"},"parameters":{"given-name":"Alex"}}}`,
	}

	var first []byte
	for _, body := range bodies {
		sched := &fakeScheduler{}
		reply := NewDispatcher(sched, types.WebhookConfig{}, nil).Handle(context.Background(), []byte(body), Credentials{})

		if reply.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: StatusCode = %d", body, reply.StatusCode)
		}
		if sched.calls() != 0 {
			t.Errorf("%s: expected no downstream calls", body)
		}
		data, err := json.Marshal(reply.Response)
		if err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = data
		} else if string(first) != string(data) {
			t.Errorf("%s: expected deterministic envelope, got %s", body, data)
		}
	}
}

func TestDispatcherAuth(t *testing.T) {
	auth := types.WebhookConfig{Username: "agent", Password: "s3cret"}

	tests := []struct {
		name       string
		creds      Credentials
		wantStatus int
	}{
		{"missing", Credentials{}, http.StatusUnauthorized},
		{"wrong password", Credentials{Username: "agent", Password: "nope", Present: true}, http.StatusUnauthorized},
		{"valid", Credentials{Username: "agent", Password: "s3cret", Present: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &fakeScheduler{availabilityLines: []string{"ok"}}
			reply := NewDispatcher(sched, auth, nil).Handle(context.Background(), []byte(availabilityBody), tt.creds)
			if reply.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", reply.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized && sched.calls() != 0 {
				t.Error("expected no downstream calls for rejected request")
			}
		})
	}
}

func TestParseBasicAuth(t *testing.T) {
	header := "Basic " + base64.StdEncoding.EncodeToString([]byte("agent:pa:ss"))
	got := ParseBasicAuth(header)
	if !got.Present || got.Username != "agent" || got.Password != "pa:ss" {
		t.Errorf("ParseBasicAuth() = %+v", got)
	}

	for _, h := range []string{"", "Bearer abc", "Basic !!!", "Basic " + base64.StdEncoding.EncodeToString([]byte("nocolon"))} {
		if ParseBasicAuth(h).Present {
			t.Errorf("ParseBasicAuth(%q) should not be present", h)
		}
	}
}

func TestLambdaHandler(t *testing.T) {
	sched := &fakeScheduler{availabilityLines: []string{"ok"}}
	h := NewLambdaHandler(NewDispatcher(sched, types.WebhookConfig{}, nil), nil)

	t.Run("rejects GET", func(t *testing.T) {
		resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: "GET"})
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("StatusCode = %d", resp.StatusCode)
		}
	})

	t.Run("base64 body", func(t *testing.T) {
		resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod:      "POST",
			Body:            base64.StdEncoding.EncodeToString([]byte(availabilityBody)),
			IsBase64Encoded: true,
		})
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d, body = %s", resp.StatusCode, resp.Body)
		}
		if resp.Headers["Content-Type"] != "application/json" {
			t.Errorf("Content-Type = %q", resp.Headers["Content-Type"])
		}
		var body dialogflow.WebhookResponse
		if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(body.Lines(), []string{"ok"}) {
			t.Errorf("Lines = %v", body.Lines())
		}
	})

	t.Run("lowercase authorization header", func(t *testing.T) {
		protected := NewLambdaHandler(NewDispatcher(&fakeScheduler{availabilityLines: []string{"ok"}},
			types.WebhookConfig{Username: "agent", Password: "s3cret"}, nil), nil)
		resp, err := protected.Handle(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod: "POST",
			Body:       availabilityBody,
			Headers: map[string]string{
				"authorization": "Basic " + base64.StdEncoding.EncodeToString([]byte("agent:s3cret")),
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d", resp.StatusCode)
		}
	})
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sched := &fakeScheduler{availabilityLines: []string{"Ok, let me see if we can fit you in."}}
	router := NewRouter(NewDispatcher(sched, types.WebhookConfig{}, nil), RouterConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(availabilityBody)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("expected a request id header")
	}
	var body dialogflow.WebhookResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(body.Lines(), sched.availabilityLines) {
		t.Errorf("Lines = %v", body.Lines())
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	req.Header.Set(requestIDHeader, "req-42")
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed status = %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) != "req-42" {
		t.Errorf("request id = %q", rec.Header().Get(requestIDHeader))
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
}

func TestRouterRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sched := &fakeScheduler{availabilityLines: []string{"ok"}}
	router := NewRouter(NewDispatcher(sched, types.WebhookConfig{}, nil), RouterConfig{
		RateLimiter: NewRateLimiter(0.001, 1),
	})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(availabilityBody)))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
	if len(sched.availabilityCalls) != 1 {
		t.Errorf("expected limited request to skip the scheduler, got %d calls", len(sched.availabilityCalls))
	}
}
