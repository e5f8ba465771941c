package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"appointment-webhook/internal/types"
)

const (
	defaultRegion       = "us-east-1"
	emailSessionName    = "appointment-webhook-email"
	emailSessionTimeout = time.Hour
)

// LoadAWSConfig loads the default AWS configuration for region
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.Region == "" {
		cfg.Region = defaultRegion
	}
	return cfg, nil
}

// EmailConfig derives the configuration used by the email client. Static
// keys take precedence, then an assumed role, then the base credentials.
func EmailConfig(base aws.Config, email types.EmailConfig, region string) aws.Config {
	cfg := base.Copy()
	if region != "" {
		cfg.Region = region
	}

	switch {
	case email.AccessKeyID != "" && email.SecretAccessKey != "":
		cfg.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(email.AccessKeyID, email.SecretAccessKey, ""))
	case email.RoleARN != "":
		stsClient := sts.NewFromConfig(base)
		cfg.Credentials = aws.NewCredentialsCache(
			stscreds.NewAssumeRoleProvider(stsClient, email.RoleARN, func(o *stscreds.AssumeRoleOptions) {
				o.RoleSessionName = emailSessionName
				o.Duration = emailSessionTimeout
			}))
	}

	return cfg
}

// CallerIdentity returns the ARN the configuration authenticates as
func CallerIdentity(ctx context.Context, cfg aws.Config) (string, error) {
	out, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to validate credentials: %w", err)
	}
	return aws.ToString(out.Arn), nil
}
