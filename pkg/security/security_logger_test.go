package security

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*SecurityLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewSecurityLogger(zap.New(core), "test-service", "test"), logs
}

func TestLogLevelFollowsSeverity(t *testing.T) {
	sl, logs := newObserved()
	req := RequestInfo{IP: "10.0.0.1", RequestID: "req-1", Path: "/v1/admin/profiles"}

	sl.LogRateLimitTriggered(context.Background(), req, "global")
	sl.LogCSRFViolation(context.Background(), req, "token_missing")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "rate_limit_triggered", entries[0].Message)
	assert.Equal(t, "10.0.0.1", entries[0].ContextMap()["ip"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "HIGH", entries[1].ContextMap()["severity"])
}

func TestForbiddenHashesUserID(t *testing.T) {
	sl, logs := newObserved()
	sl.LogForbidden(context.Background(), RequestInfo{}, "user-123", "candidate")

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, HashValue("user-123"), ctx["subject_value"])
	assert.NotContains(t, ctx["details"], "user-123")
}

func TestPersistFuncReceivesEvent(t *testing.T) {
	sl, _ := newObserved()

	var mu sync.Mutex
	var got []SecurityEvent
	done := make(chan struct{}, 1)
	sl.SetPersistFunc(func(_ context.Context, e SecurityEvent) error {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
		done <- struct{}{}
		return errors.New("ignored")
	})

	sl.LogUnauthorized(context.Background(), RequestInfo{IP: "1.2.3.4"}, "invalid_token")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("persist func was not called")
	}
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, EventUnauthorizedAccess, got[0].Event)
	assert.Equal(t, SeverityHIGH, got[0].Severity)
	assert.Equal(t, "test-service", got[0].Service)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestGetSeverityDefaultsToMedium(t *testing.T) {
	assert.Equal(t, SeverityMEDIUM, GetSeverity("something_new"))
	assert.True(t, IsHighOrAbove(EventCSRFViolation))
	assert.False(t, IsHighOrAbove(EventRateLimitTriggered))
}

func TestDefaultLoggerIsSafeBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		DefaultLogger().LogServerError(context.Background(), RequestInfo{}, errors.New("boom"))
	})
}
