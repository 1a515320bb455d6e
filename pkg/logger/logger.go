package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with request- and booking-aware helpers.
type Logger struct {
	*slog.Logger
}

// New builds a logger from the LOG_LEVEL environment variable. Gin debug
// mode gets a human-readable text handler; any other mode emits JSON.
// Source locations are attached only at debug level.
func New() *Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// WithRequestID returns a logger that tags every record with the request id.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("request_id", requestID))}
}

// WithUserID returns a logger that tags every record with the acting user.
func (l *Logger) WithUserID(userID int64) *Logger {
	return &Logger{Logger: l.Logger.With(slog.Int64("user_id", userID))}
}

// WithError returns a logger that carries the error text on every record.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}

// WithFields returns a logger carrying an arbitrary field set.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{Logger: l.Logger.With(args...)}
}

// LogHTTPRequest records one served request. The request-logging middleware
// calls it after the handler chain finishes, so the response status and
// body size are final.
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"http request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.String("user_agent", c.Request.UserAgent()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError records a request that ended in a server-side failure.
// The response helper invokes it for every 5xx envelope, so unexpected
// errors surface in the log even when a handler forgets to.
func (l *Logger) LogHTTPError(c *gin.Context, status int, detail string) {
	l.Logger.ErrorContext(c.Request.Context(),
		"http error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", status),
		slog.String("detail", detail),
		slog.String("ip", c.ClientIP()),
	)
}

// LogRateLimitExceeded records a request rejected by the per-IP limiter.
func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx,
		"rate limit exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// LogBookingCreated records a committed reservation. One purchase may cover
// several seats; they share a transaction id and are logged as one line.
func (l *Logger) LogBookingCreated(ctx context.Context, transactionID string, eventID, userID int64, seats int) {
	l.Logger.InfoContext(ctx,
		"booking created",
		slog.String("transaction_id", transactionID),
		slog.Int64("event_id", eventID),
		slog.Int64("user_id", userID),
		slog.Int("seats", seats),
	)
}

var defaultLogger = New()

// GetDefault returns the process-wide logger. Callers that run before
// main has rebuilt it see the environment-derived default.
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
