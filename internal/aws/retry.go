// Package aws wires AWS configuration, credentials and startup fetches from
// Parameter Store and S3.
package aws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/aws/smithy-go"
)

// RetryConfig holds configuration for retry behavior with exponential backoff
type RetryConfig struct {
	MaxAttempts    int           // Maximum number of attempts (default: 5)
	InitialDelay   time.Duration // Initial delay before first retry (default: 1s)
	MaxDelay       time.Duration // Maximum delay between retries (default: 30s)
	BackoffFactor  float64       // Multiplier for exponential backoff (default: 2.0)
	JitterFraction float64       // Fraction of delay to use for jitter (default: 0.1)
}

// DefaultRetryConfig returns the retry configuration used for startup fetches
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    5,
		InitialDelay:   1 * time.Second,
		MaxDelay:       30 * time.Second,
		BackoffFactor:  2.0,
		JitterFraction: 0.1,
	}
}

// RetryWithBackoff executes an operation with exponential backoff retry logic.
// Only throttling, unavailable and timeout errors are retried.
func RetryWithBackoff(ctx context.Context, operation func() error, config RetryConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			if attempt > 1 {
				logger.Info("operation succeeded after retry",
					"attempt", attempt,
					"total_attempts", config.MaxAttempts)
			}
			return nil
		}

		lastErr = err

		if !IsRetryableError(err) {
			logger.Error("operation failed with non-retryable error",
				"attempt", attempt,
				"error", err)
			return err
		}

		if attempt == config.MaxAttempts {
			break
		}

		jitter := time.Duration(float64(delay) * config.JitterFraction * (rand.Float64()*2 - 1))
		sleepTime := delay + jitter
		if config.MaxDelay > 0 && sleepTime > config.MaxDelay {
			sleepTime = config.MaxDelay
		}

		logger.Warn("operation failed, retrying with backoff",
			"attempt", attempt,
			"max_attempts", config.MaxAttempts,
			"delay", sleepTime,
			"error", err)

		timer := time.NewTimer(sleepTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("operation cancelled: %w", ctx.Err())
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * config.BackoffFactor)
	}

	logger.Error("operation failed after all retry attempts",
		"attempts", config.MaxAttempts,
		"error", lastErr)

	return fmt.Errorf("operation failed after %d attempts: %w", config.MaxAttempts, lastErr)
}

// IsRetryableError determines if an AWS error should be retried
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "Throttling",
			"ThrottlingException",
			"TooManyRequestsException",
			"RequestLimitExceeded":
			return true
		case "ServiceUnavailable",
			"ServiceUnavailableException",
			"InternalError",
			"InternalServerError",
			"InternalFailure":
			return true
		case "RequestTimeout",
			"RequestTimeoutException",
			"RequestExpired",
			"SlowDown":
			return true
		}
	}

	var retryable interface{ RetryableError() bool }
	if errors.As(err, &retryable) {
		return retryable.RetryableError()
	}

	var temporary interface{ Temporary() bool }
	if errors.As(err, &temporary) {
		return temporary.Temporary()
	}

	return false
}
