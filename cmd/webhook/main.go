package main

import (
	"context"
	"log/slog"
	"os"
	_ "time/tzdata"

	"github.com/aws/aws-lambda-go/lambda"

	"appointment-webhook/internal/app"
	"appointment-webhook/internal/config"
	"appointment-webhook/internal/webhook"
)

// Version information
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx := context.Background()

	a, err := app.New(ctx, config.GetConfigPath())
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to start webhook", "error", err)
		os.Exit(1)
	}

	a.Logger.Info("appointment webhook lambda starting",
		"version", Version,
		"commit", GitCommit,
		"built", BuildTime)

	handler := webhook.NewLambdaHandler(a.Dispatcher, a.Logger)
	lambda.Start(handler.Handle)
}
