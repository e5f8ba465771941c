package aws

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// SSMAPI is the subset of the SSM client used to read secrets
type SSMAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// S3API is the subset of the S3 client used to read configuration objects
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// GetSecureParameter reads and decrypts a parameter, retrying transient errors
func GetSecureParameter(ctx context.Context, client SSMAPI, name string, retry RetryConfig, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var value string
	err := RetryWithBackoff(ctx, func() error {
		result, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(name),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return err
		}
		if result.Parameter == nil || result.Parameter.Value == nil {
			return fmt.Errorf("parameter %s has no value", name)
		}
		value = *result.Parameter.Value
		return nil
	}, retry, logger)
	if err != nil {
		return "", fmt.Errorf("failed to get parameter %s: %w", name, err)
	}

	logger.Info("loaded parameter from parameter store", "name", name)
	return value, nil
}

// IsS3URI reports whether location has the s3:// scheme
func IsS3URI(location string) bool {
	return strings.HasPrefix(location, "s3://")
}

// ParseS3URI splits s3://bucket/key
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !IsS3URI(uri) {
		return "", "", fmt.Errorf("not an s3 uri: %s", uri)
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, "s3://"), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 uri, expected s3://bucket/key: %s", uri)
	}
	return bucket, key, nil
}

// GetObject downloads an object, retrying transient errors
func GetObject(ctx context.Context, client S3API, uri string, retry RetryConfig, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = RetryWithBackoff(ctx, func() error {
		out, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return err
		}
		defer out.Body.Close()

		data, err = io.ReadAll(out.Body)
		return err
	}, retry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", uri, err)
	}

	logger.Info("downloaded object from s3", "bucket", bucket, "key", key, "bytes", len(data))
	return data, nil
}
