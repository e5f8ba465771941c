package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sesv2types "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// IdentityAPI is the subset of the SES v2 client used to inspect the sender
type IdentityAPI interface {
	GetEmailIdentity(ctx context.Context, params *sesv2.GetEmailIdentityInput, optFns ...func(*sesv2.Options)) (*sesv2.GetEmailIdentityOutput, error)
	GetAccount(ctx context.Context, params *sesv2.GetAccountInput, optFns ...func(*sesv2.Options)) (*sesv2.GetAccountOutput, error)
}

// SenderStatus summarizes whether the sender can deliver mail
type SenderStatus struct {
	// Identity is the address or domain that was found verified
	Identity         string
	Verified         bool
	DKIMEnabled      bool
	SendingEnabled   bool
	ProductionAccess bool
	Max24HourSend    float64
	SentLast24Hours  float64
}

// Ready reports whether mail from the sender will be accepted
func (s SenderStatus) Ready() bool {
	return s.Verified && s.SendingEnabled
}

// VerifySender looks up the sender address, then its domain, and the
// account sending state. Problems are logged as warnings; only failed
// lookups are returned as errors.
func VerifySender(ctx context.Context, client IdentityAPI, address string, logger *slog.Logger) (SenderStatus, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "notify")

	var status SenderStatus
	candidates := []string{address}
	if _, domain, ok := strings.Cut(address, "@"); ok && domain != "" {
		candidates = append(candidates, domain)
	}

	var lookupErr error
	for _, identity := range candidates {
		out, err := client.GetEmailIdentity(ctx, &sesv2.GetEmailIdentityInput{
			EmailIdentity: aws.String(identity),
		})
		if err != nil {
			var notFound *sesv2types.NotFoundException
			if !errors.As(err, &notFound) {
				lookupErr = err
			}
			continue
		}
		if out.VerifiedForSendingStatus {
			status.Identity = identity
			status.Verified = true
			status.DKIMEnabled = out.DkimAttributes != nil && out.DkimAttributes.Status == sesv2types.DkimStatusSuccess
			break
		}
	}
	if !status.Verified && lookupErr != nil {
		return status, fmt.Errorf("failed to get email identity %s: %w", address, lookupErr)
	}

	account, err := client.GetAccount(ctx, &sesv2.GetAccountInput{})
	if err != nil {
		return status, fmt.Errorf("failed to get account sending status: %w", err)
	}
	status.SendingEnabled = account.SendingEnabled
	status.ProductionAccess = account.ProductionAccessEnabled
	if account.SendQuota != nil {
		status.Max24HourSend = account.SendQuota.Max24HourSend
		status.SentLast24Hours = account.SendQuota.SentLast24Hours
	}

	logger.Info("sender verification",
		"sender", address,
		"identity", status.Identity,
		"verified", status.Verified,
		"dkim_enabled", status.DKIMEnabled,
		"sending_enabled", status.SendingEnabled,
		"production_access_enabled", status.ProductionAccess,
		"max_24_hour_send", status.Max24HourSend,
		"sent_last_24_hours", status.SentLast24Hours)

	if !status.Verified {
		logger.Warn("sender identity is not verified", "sender", address)
	}
	if !status.ProductionAccess {
		// sandbox accounts only deliver to verified recipients
		logger.Warn("email account is in the sandbox", "sender", address)
	}

	return status, nil
}
