package notify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// ErrorKind is the category of a delivery failure
type ErrorKind string

const (
	ErrorKindThrottled     ErrorKind = "throttled"
	ErrorKindRejected      ErrorKind = "rejected"
	ErrorKindConfiguration ErrorKind = "configuration"
	ErrorKindNetwork       ErrorKind = "network"
	ErrorKindUnknown       ErrorKind = "unknown"
)

// Role identifies which of the two appointment emails a recipient receives
type Role string

const (
	RoleOperator  Role = "operator"
	RoleRequester Role = "requester"
)

// Recipient is the addressee of one appointment email
type Recipient struct {
	Role    Role
	Address string
}

// DeliveryError reports which appointment email failed and which were
// already delivered
type DeliveryError struct {
	Failed    Recipient
	Delivered []Recipient
	Kind      ErrorKind
	Err       error
}

// Error implements the error interface
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("[%s] failed to deliver %s email to %s (%d delivered): %v",
		e.Kind, e.Failed.Role, e.Failed.Address, len(e.Delivered), e.Err)
}

// Unwrap returns the underlying error
func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// ClassifyError maps an email backend error onto an ErrorKind
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "TooManyRequestsException", "LimitExceededException", "Throttling", "ThrottlingException":
			return ErrorKindThrottled
		case "MessageRejected", "BadRequestException", "MailFromDomainNotVerifiedException",
			"AccountSuspendedException", "SendingPausedException":
			return ErrorKindRejected
		case "AccessDeniedException", "NotFoundException", "UnrecognizedClientException",
			"InvalidClientTokenId", "SignatureDoesNotMatch", "ExpiredTokenException":
			return ErrorKindConfiguration
		}
		return ErrorKindUnknown
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "credential") || strings.Contains(errMsg, "config"):
		return ErrorKindConfiguration
	case strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "connection") ||
		strings.Contains(errMsg, "network") || strings.Contains(errMsg, "dns"):
		return ErrorKindNetwork
	}

	return ErrorKindUnknown
}
