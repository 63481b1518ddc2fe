package middleware

import (
	"net/http"
	"strconv"
	"time"

	"talent-marketplace-backend/config"
	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/kvstore"
	"talent-marketplace-backend/pkg/logger"
	"talent-marketplace-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds configuration for one rate limiting scope.
type RateLimitConfig struct {
	Scope     string
	Limit     int
	Window    time.Duration
	KeyPrefix string
	KeyFunc   func(c *gin.Context) string
	// FailClosed rejects requests with 503 when the shared store is down
	// instead of counting in process memory.
	FailClosed bool
}

// GlobalRateLimitConfig limits every request per client IP.
func GlobalRateLimitConfig(cfg *config.Config) RateLimitConfig {
	return RateLimitConfig{
		Scope:      "global",
		Limit:      cfg.RateLimitGlobalThreshold,
		Window:     cfg.RateLimitWindow,
		KeyPrefix:  "rl:global:",
		FailClosed: cfg.RateLimitFailClosed,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// AdminRateLimitConfig limits admin actions per authenticated user. It must
// run after AuthMiddleware.
func AdminRateLimitConfig(cfg *config.Config) RateLimitConfig {
	return RateLimitConfig{
		Scope:      "admin",
		Limit:      cfg.RateLimitAdminThreshold,
		Window:     cfg.RateLimitWindow,
		KeyPrefix:  "rl:admin:",
		FailClosed: cfg.RateLimitFailClosed,
		KeyFunc: func(c *gin.Context) string {
			if id := c.GetString(string(domain.KeyUserID)); id != "" {
				return id
			}
			return c.ClientIP()
		},
	}
}

// RateLimiter counts requests in the shared TTL store so that all instances
// enforce one budget. When the store fails it either rejects (fail closed)
// or counts in the local fallback store.
type RateLimiter struct {
	store    kvstore.Store
	fallback kvstore.Store
	secLog   *security.SecurityLogger
}

func NewRateLimiter(store kvstore.Store, secLog *security.SecurityLogger) *RateLimiter {
	if store == nil {
		store = kvstore.NewMemoryStore()
	}
	return &RateLimiter{
		store:    store,
		fallback: kvstore.NewMemoryStore(),
		secLog:   securityLogger(secLog),
	}
}

// Middleware returns the limiter for one scope.
func (rl *RateLimiter) Middleware(cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Limit <= 0 {
			c.Next()
			return
		}

		key := cfg.KeyPrefix + cfg.KeyFunc(c)
		ctx := c.Request.Context()

		count, ttl, err := rl.store.Incr(ctx, key, cfg.Window)
		if err != nil {
			rl.secLog.LogStoreUnavailable(ctx, requestInfo(c), "rate_limit", err)
			if cfg.FailClosed {
				logger.Log.Error("rate limit store unavailable, rejecting", "scope", cfg.Scope, "error", err)
				response.Abort(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				return
			}
			logger.Log.Warn("rate limit store unavailable, counting locally", "scope", cfg.Scope, "error", err)
			count, ttl, _ = rl.fallback.Incr(ctx, key, cfg.Window)
		}

		resetAt := time.Now().Add(ttl)
		remaining := cfg.Limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))

		if count > int64(cfg.Limit) {
			retryAfter := int(ttl.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			rl.secLog.LogRateLimitTriggered(ctx, requestInfo(c), cfg.Scope)

			response.Abort(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", response.ErrorBody{
				Kind:    string(apperror.KindRateLimited),
				Details: map[string]interface{}{"scope": cfg.Scope, "retry_after": retryAfter},
			})
			return
		}

		c.Next()
	}
}
