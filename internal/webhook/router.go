package webhook

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"appointment-webhook/internal/dialogflow"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 20
)

// RouterConfig configures the HTTP transport
type RouterConfig struct {
	// RateLimiter is optional; nil disables rate limiting
	RateLimiter *RateLimiter
	Logger      *slog.Logger
}

// NewRouter exposes the dispatcher at POST / and a health check at GET /health
func NewRouter(dispatcher *Dispatcher, cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")

	router := gin.New()
	router.Use(gin.Recovery(), requestID(logger))
	if cfg.RateLimiter != nil {
		router.Use(rateLimit(cfg.RateLimiter, logger))
	}

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/", func(ctx *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxBodyBytes))
		if err != nil {
			logger.Warn("failed to read request body", "error", err)
			ctx.JSON(http.StatusBadRequest, dialogflow.NewTextResponse(ReplyMalformed))
			return
		}

		var creds Credentials
		if username, password, ok := ctx.Request.BasicAuth(); ok {
			creds = Credentials{Username: username, Password: password, Present: true}
		}

		reply := dispatcher.Handle(ctx.Request.Context(), body, creds)
		ctx.JSON(reply.StatusCode, reply.Response)
	})

	return router
}

func requestID(logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set("request_id", id)
		ctx.Header(requestIDHeader, id)

		start := time.Now()
		ctx.Next()

		logger.Info("http request",
			"request_id", id,
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"client_ip", ctx.ClientIP(),
			"duration", time.Since(start))
	}
}

func rateLimit(rl *RateLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !rl.Allow(ctx.ClientIP()) {
			logger.Warn("rate limit exceeded", "client_ip", ctx.ClientIP())
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, dialogflow.NewTextResponse(ReplyRateLimited))
			return
		}
		ctx.Next()
	}
}
