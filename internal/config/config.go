// Package config provides configuration loading and management functionality.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"

	awsutil "appointment-webhook/internal/aws"
	"appointment-webhook/internal/types"
)

const (
	defaultConfigFile  = "config.json"
	defaultRegion      = "us-east-1"
	defaultLogLevel    = "info"
	defaultPort        = "4004"
	defaultTimezone    = "UTC"
	defaultOffset      = "+00:00"
	defaultLocation    = "Online via zoom"
	defaultDescription = "Online meeting with {host} to discuss chatbot development."
	defaultPriority    = 5
	defaultRateRPS     = 5
	defaultRateBurst   = 10

	hostPlaceholder = "{host}"
)

// GetConfigPath returns the CONFIG_PATH environment variable or defaults to
// config.json in the current directory. The value may be an s3:// URI.
func GetConfigPath() string {
	configPath, exists := os.LookupEnv("CONFIG_PATH")
	if !exists || configPath == "" {
		return "./" + defaultConfigFile
	}
	if awsutil.IsS3URI(configPath) || strings.HasSuffix(configPath, ".json") {
		return configPath
	}
	if !strings.HasSuffix(configPath, "/") {
		configPath += "/"
	}
	return configPath + defaultConfigFile
}

// LoadConfig loads configuration from a JSON file, then applies environment
// overrides and defaults. A missing file is not an error: the configuration
// then comes from the environment alone.
func LoadConfig(configPath string) (*types.Config, error) {
	if configPath == "" {
		return Parse(nil)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Parse(nil)
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// Load reads the configuration from a local path or an s3:// URI
func Load(ctx context.Context, location string, client awsutil.S3API, logger *slog.Logger) (*types.Config, error) {
	if !awsutil.IsS3URI(location) {
		return LoadConfig(location)
	}
	if client == nil {
		return nil, fmt.Errorf("config location %s requires an s3 client", location)
	}

	data, err := awsutil.GetObject(ctx, client, location, awsutil.DefaultRetryConfig(), logger)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", location, err)
	}
	return cfg, nil
}

// Parse decodes JSON configuration, overlays environment variables and fills
// in defaults. Empty data yields a configuration built from the environment.
func Parse(data []byte) (*types.Config, error) {
	var config types.Config
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *types.Config) {
	if config.LogLevel == "" {
		config.LogLevel = defaultLogLevel
	}
	if config.Google.CalendarID == "" {
		config.Google.CalendarID = "primary"
	}
	if config.Timezone.Name == "" {
		config.Timezone.Name = defaultTimezone
	}
	if config.Timezone.Offset == "" {
		config.Timezone.Offset = defaultOffset
	}
	if config.Invite.Location == "" {
		config.Invite.Location = defaultLocation
	}
	if config.Invite.Description == "" {
		config.Invite.Description = defaultDescription
	}
	config.Invite.Description = strings.ReplaceAll(config.Invite.Description, hostPlaceholder, config.Host.Name)
	if config.Invite.Priority == 0 {
		config.Invite.Priority = defaultPriority
	}
	if config.HTTP.Port == "" {
		config.HTTP.Port = defaultPort
	}
	if config.HTTP.RateLimitRPS == 0 {
		config.HTTP.RateLimitRPS = defaultRateRPS
	}
	if config.HTTP.RateLimitBurst == 0 {
		config.HTTP.RateLimitBurst = defaultRateBurst
	}
}

// ResolveRegion settles the AWS region. An explicit aws_region or AWS_REGION
// wins; otherwise the region the SDK resolved from its own chain is kept.
func ResolveRegion(config *types.Config, sdkRegion string) string {
	if config.AWSRegion == "" {
		config.AWSRegion = sdkRegion
	}
	if config.AWSRegion == "" {
		config.AWSRegion = defaultRegion
	}
	return config.AWSRegion
}

// LoadSecrets fills credentials that are not kept in the configuration
// itself: the calendar service account JSON from a file or Parameter Store,
// and the webhook password from Parameter Store.
func LoadSecrets(ctx context.Context, config *types.Config, client awsutil.SSMAPI, logger *slog.Logger) error {
	retry := awsutil.DefaultRetryConfig()

	switch {
	case len(config.Google.CredentialsJSON) > 0:
	case config.Google.CredentialsFile != "":
		data, err := os.ReadFile(config.Google.CredentialsFile)
		if err != nil {
			return fmt.Errorf("failed to read google credentials %s: %w", config.Google.CredentialsFile, err)
		}
		config.Google.CredentialsJSON = data
	case config.Google.CredentialsParameter != "":
		if client == nil {
			return fmt.Errorf("google.credentials_parameter requires a parameter store client")
		}
		value, err := awsutil.GetSecureParameter(ctx, client, config.Google.CredentialsParameter, retry, logger)
		if err != nil {
			return err
		}
		config.Google.CredentialsJSON = []byte(value)
	}

	if config.Webhook.Password == "" && config.Webhook.PasswordParameter != "" {
		if client == nil {
			return fmt.Errorf("webhook.password_parameter requires a parameter store client")
		}
		value, err := awsutil.GetSecureParameter(ctx, client, config.Webhook.PasswordParameter, retry, logger)
		if err != nil {
			return err
		}
		config.Webhook.Password = value
	}

	return nil
}

// ValidateConfig validates the loaded configuration
func ValidateConfig(config *types.Config) error {
	errors := &ValidationErrors{}

	if config.AWSRegion == "" {
		errors.Add("aws_region", "is required")
	}

	if config.Host.Name == "" {
		errors.Add("host.name", "is required")
	}
	if config.Host.Email == "" {
		errors.Add("host.email", "is required")
	} else if !isValidEmail(config.Host.Email) {
		errors.Add("host.email", fmt.Sprintf("invalid email format: %s", config.Host.Email))
	}

	if config.Email.SenderAddress == "" {
		errors.Add("email.sender_address", "is required")
	} else if !isValidEmail(config.Email.SenderAddress) {
		errors.Add("email.sender_address", fmt.Sprintf("invalid email format: %s", config.Email.SenderAddress))
	}
	if (config.Email.AccessKeyID == "") != (config.Email.SecretAccessKey == "") {
		errors.Add("email.access_key_id", "access_key_id and secret_access_key must be set together")
	}
	if config.Email.RoleARN != "" && !isValidARN(config.Email.RoleARN) {
		errors.Add("email.role_arn", fmt.Sprintf("invalid ARN format: %s", config.Email.RoleARN))
	}

	if config.Google.CredentialsFile == "" && config.Google.CredentialsParameter == "" && len(config.Google.CredentialsJSON) == 0 {
		errors.Add("google.credentials_file", "one of credentials_file or credentials_parameter is required")
	}
	if config.Google.CalendarID == "" {
		errors.Add("google.calendar_id", "is required")
	}

	validateTimezone(config.Timezone, errors)

	if config.Invite.Priority < 0 || config.Invite.Priority > 9 {
		errors.Add("invite.priority", fmt.Sprintf("must be between 0 and 9, got %d", config.Invite.Priority))
	}

	if config.HTTP.RateLimitRPS <= 0 {
		errors.Add("http.rate_limit_rps", fmt.Sprintf("must be greater than 0, got %v", config.HTTP.RateLimitRPS))
	}
	if config.HTTP.RateLimitBurst <= 0 {
		errors.Add("http.rate_limit_burst", fmt.Sprintf("must be greater than 0, got %d", config.HTTP.RateLimitBurst))
	}

	if config.Webhook.Username != "" && config.Webhook.Password == "" && config.Webhook.PasswordParameter == "" {
		errors.Add("webhook.password", "is required when webhook.username is set")
	}

	if !isValidLogLevel(config.LogLevel) {
		errors.Add("log_level", fmt.Sprintf("must be one of debug, info, warn, error, got %q", config.LogLevel))
	}

	if errors.HasErrors() {
		return errors
	}
	return nil
}

// SetupLogging returns a JSON logger writing to stdout at the given level
func SetupLogging(level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLogLevel(level),
	}))
}

// ParseLogLevel maps a level name to a slog level, defaulting to info
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
