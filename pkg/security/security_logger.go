package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventStoreUnavailable   EventType = "shared_store_unavailable"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventForbiddenAccess    EventType = "forbidden_access"
	EventCSRFViolation      EventType = "csrf_violation"
	EventServerError        EventType = "server_error"
	EventDataExport         EventType = "data_export"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time              `json:"timestamp"`
	Service      string                 `json:"service"`
	Environment  string                 `json:"env"`
	Level        string                 `json:"level"`
	Severity     Severity               `json:"severity"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "ip", "user_id"
	SubjectValue string                 `json:"subject_value,omitempty"` // Masked or hashed for PII
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// SecurityLogger provides structured logging for security events
type SecurityLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
	// Optional: DB persistence function
	persistFunc func(ctx context.Context, event SecurityEvent) error
}

var defaultLogger *SecurityLogger

// InitSecurityLogger builds a production zap logger on stdout and makes it
// the default.
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "level"
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		logger, _ = zap.NewProduction()
	}

	defaultLogger = NewSecurityLogger(logger, serviceName, environment)
	return defaultLogger
}

func NewSecurityLogger(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{
		zapLogger:   logger,
		serviceName: serviceName,
		environment: environment,
	}
}

// DefaultLogger returns the default security logger instance, or a no-op
// logger before InitSecurityLogger runs.
func DefaultLogger() *SecurityLogger {
	if defaultLogger == nil {
		return NewSecurityLogger(zap.NewNop(), "talent-marketplace-backend", "development")
	}
	return defaultLogger
}

// SetPersistFunc sets the function to persist events to database
func (sl *SecurityLogger) SetPersistFunc(f func(ctx context.Context, event SecurityEvent) error) {
	sl.persistFunc = f
}

// Log logs a security event
func (sl *SecurityLogger) Log(ctx context.Context, event SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.Service = sl.serviceName
	event.Environment = sl.environment
	event.Severity = GetSeverity(event.Event)

	level := event.Severity.zapLevel()
	event.Level = level.String()

	fields := []zap.Field{
		zap.String("service", event.Service),
		zap.String("env", event.Environment),
		zap.String("event", string(event.Event)),
		zap.String("severity", string(event.Severity)),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)

	if sl.persistFunc != nil {
		go func(e SecurityEvent) {
			// Request context may already be canceled
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := sl.persistFunc(ctx, e); err != nil {
				sl.zapLogger.Error("Failed to persist security event", zap.Error(err))
			}
		}(event)
	}
}

// RequestInfo is the request metadata attached to every event.
type RequestInfo struct {
	IP        string
	UserAgent string
	RequestID string
	Path      string
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, req RequestInfo, scope string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: req.IP,
		IP:           req.IP,
		UserAgent:    req.UserAgent,
		RequestID:    req.RequestID,
		Details:      map[string]interface{}{"endpoint": req.Path, "scope": scope},
	})
}

// LogStoreUnavailable logs a failure of the shared TTL store.
func (sl *SecurityLogger) LogStoreUnavailable(ctx context.Context, req RequestInfo, component string, err error) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventStoreUnavailable,
		IP:        req.IP,
		RequestID: req.RequestID,
		Details:   map[string]interface{}{"component": component, "error": err.Error()},
	})
}

// LogUnauthorized logs a request rejected for a missing or invalid token.
func (sl *SecurityLogger) LogUnauthorized(ctx context.Context, req RequestInfo, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventUnauthorizedAccess,
		IP:        req.IP,
		UserAgent: req.UserAgent,
		RequestID: req.RequestID,
		Details:   map[string]interface{}{"endpoint": req.Path, "reason": reason},
	})
}

// LogForbidden logs an authenticated user hitting a route their role lacks.
func (sl *SecurityLogger) LogForbidden(ctx context.Context, req RequestInfo, userID, role string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventForbiddenAccess,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		IP:           req.IP,
		UserAgent:    req.UserAgent,
		RequestID:    req.RequestID,
		Details:      map[string]interface{}{"endpoint": req.Path, "role": role},
	})
}

// LogCSRFViolation logs a mutating request without a valid CSRF token.
func (sl *SecurityLogger) LogCSRFViolation(ctx context.Context, req RequestInfo, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventCSRFViolation,
		IP:        req.IP,
		UserAgent: req.UserAgent,
		RequestID: req.RequestID,
		Details:   map[string]interface{}{"endpoint": req.Path, "reason": reason},
	})
}

// LogServerError logs an unhandled error surfaced as a 500.
func (sl *SecurityLogger) LogServerError(ctx context.Context, req RequestInfo, err error) {
	sl.Log(ctx, SecurityEvent{
		Event:     EventServerError,
		IP:        req.IP,
		RequestID: req.RequestID,
		Details:   map[string]interface{}{"endpoint": req.Path, "error": err.Error()},
	})
}

// LogDataExport logs an audit-log export by an admin.
func (sl *SecurityLogger) LogDataExport(ctx context.Context, req RequestInfo, userID string, size int) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventDataExport,
		SubjectType:  "user_id",
		SubjectValue: HashValue(userID),
		IP:           req.IP,
		RequestID:    req.RequestID,
		Details:      map[string]interface{}{"endpoint": req.Path, "bytes": size},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8]) // First 16 chars of hex
}
