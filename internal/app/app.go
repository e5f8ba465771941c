// Package app wires configuration and clients into a ready dispatcher. Both
// the Lambda and the local server binaries start here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	awsutil "appointment-webhook/internal/aws"
	"appointment-webhook/internal/calendar"
	"appointment-webhook/internal/config"
	"appointment-webhook/internal/datetime"
	"appointment-webhook/internal/invite"
	"appointment-webhook/internal/notify"
	"appointment-webhook/internal/scheduling"
	"appointment-webhook/internal/types"
	"appointment-webhook/internal/webhook"
)

// App holds the long-lived pieces built at startup. Nothing here changes
// after New returns.
type App struct {
	Config     *types.Config
	Logger     *slog.Logger
	Dispatcher *webhook.Dispatcher
}

// New loads configuration from location (a file path or s3:// URI), reads
// secrets and builds every client
func New(ctx context.Context, location string) (*App, error) {
	// The configured level is not known until the file is read
	bootLogger := config.SetupLogging(os.Getenv("LOG_LEVEL"))

	awsCfg, err := awsutil.LoadAWSConfig(ctx, "")
	if err != nil {
		return nil, err
	}

	var s3Client awsutil.S3API
	if awsutil.IsS3URI(location) {
		s3Client = s3.NewFromConfig(awsCfg)
	}

	cfg, err := config.Load(ctx, location, s3Client, bootLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.SetupLogging(cfg.LogLevel)
	awsCfg.Region = config.ResolveRegion(cfg, awsCfg.Region)

	var ssmClient awsutil.SSMAPI
	if cfg.Google.CredentialsParameter != "" || cfg.Webhook.PasswordParameter != "" {
		ssmClient = ssm.NewFromConfig(awsCfg)
	}
	if err := config.LoadSecrets(ctx, cfg, ssmClient, logger); err != nil {
		return nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	dt := datetime.New(&datetime.DateTimeConfig{
		DefaultTimezone: cfg.Timezone.Name,
		DefaultOffset:   cfg.Timezone.Offset,
	})

	svc, err := calendar.NewService(ctx, cfg.Google.CredentialsJSON)
	if err != nil {
		return nil, err
	}
	calendarClient := calendar.NewClient(calendar.NewGoogleEvents(svc), cfg.Google.CalendarID, cfg.Timezone.Name, dt, logger)

	builder := &invite.Builder{
		ProductID:        cfg.Invite.ProductID,
		HostName:         cfg.Host.Name,
		HostEmail:        cfg.Host.Email,
		Location:         cfg.Invite.Location,
		Description:      cfg.Invite.Description,
		Priority:         cfg.Invite.Priority,
		IncludeOrganizer: cfg.Invite.IncludeOrganizer,
		Logger:           logger,
	}

	emailCfg := awsutil.EmailConfig(awsCfg, cfg.Email, cfg.EmailRegion())
	if cfg.Email.RoleARN != "" || cfg.Email.AccessKeyID != "" {
		arn, err := awsutil.CallerIdentity(ctx, emailCfg)
		if err != nil {
			return nil, fmt.Errorf("email credentials: %w", err)
		}
		logger.Info("email credentials validated", "arn", arn)
	}

	sesClient := sesv2.NewFromConfig(emailCfg)
	if _, err := notify.VerifySender(ctx, sesClient, cfg.Email.SenderAddress, logger); err != nil {
		logger.Warn("could not verify email sender", "sender", cfg.Email.SenderAddress, "error", err)
	}
	sender := notify.NewSender(sesClient, logger)
	notifier := notify.NewNotifier(sender, cfg.Host, cfg.Email.FromHeader(), logger)

	var events scheduling.EventCreator
	if cfg.Scheduling.CreateCalendarEvent {
		events = calendarClient
	}

	scheduler := scheduling.NewService(calendarClient, builder, notifier, events, dt, scheduling.Options{
		Host:                cfg.Host,
		Location:            cfg.Invite.Location,
		Description:         cfg.Invite.Description,
		CreateCalendarEvent: cfg.Scheduling.CreateCalendarEvent,
	}, logger)

	logger.Info("webhook configured",
		"host", cfg.Host.Email,
		"calendar_id", cfg.Google.CalendarID,
		"timezone", cfg.Timezone.Name,
		"offset", cfg.Timezone.Offset,
		"email_region", emailCfg.Region,
		"auth_enabled", cfg.Webhook.AuthEnabled(),
		"create_calendar_event", cfg.Scheduling.CreateCalendarEvent)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Dispatcher: webhook.NewDispatcher(scheduler, cfg.Webhook, logger),
	}, nil
}
