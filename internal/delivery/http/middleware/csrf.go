package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/kvstore"
	"talent-marketplace-backend/pkg/logger"
	"talent-marketplace-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFTokenCookieName is the name of the cookie that stores the CSRF token
	CSRFTokenCookieName = "csrf_token"
	// CSRFTokenHeaderName is the name of the header that must contain the CSRF token
	CSRFTokenHeaderName = "X-CSRF-Token"
	// CSRFTokenLength is the length of the generated token in bytes (32 bytes = 64 hex chars)
	CSRFTokenLength = 32

	csrfKeyPrefix = "csrf:"
)

// CSRFProtector implements the double-submit cookie pattern with issued
// tokens kept in the shared TTL store. A mutating request passes only when
// the X-CSRF-Token header equals the csrf_token cookie and the token was
// issued by some instance and has not expired.
type CSRFProtector struct {
	store        kvstore.Store
	ttl          time.Duration
	secureCookie bool
	exempt       map[string]bool
	secLog       *security.SecurityLogger
}

func NewCSRFProtector(store kvstore.Store, ttl time.Duration, secureCookie bool, secLog *security.SecurityLogger) *CSRFProtector {
	if store == nil {
		store = kvstore.NewMemoryStore()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CSRFProtector{
		store:        store,
		ttl:          ttl,
		secureCookie: secureCookie,
		exempt: map[string]bool{
			"/v1/health":     true,
			"/v1/csrf-token": true,
		},
		secLog: securityLogger(secLog),
	}
}

// generateCSRFToken creates a cryptographically secure random token
func generateCSRFToken() (string, error) {
	b := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Issue creates a token, records it and sets the cookie.
func (p *CSRFProtector) Issue(c *gin.Context) (string, error) {
	token, err := generateCSRFToken()
	if err != nil {
		return "", err
	}
	if err := p.store.Set(c.Request.Context(), csrfKeyPrefix+token, "1", p.ttl); err != nil {
		return "", err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		CSRFTokenCookieName,
		token,
		int(p.ttl.Seconds()),
		"/",
		"",
		p.secureCookie,
		false, // the frontend reads it to echo the header
	)
	return token, nil
}

// TokenHandler godoc
// @Summary      Issue CSRF token
// @Description  Issues a CSRF token, sets it as the csrf_token cookie and returns it. Send it back in X-CSRF-Token on mutating requests.
// @Tags         security
// @Produce      json
// @Success      200  {object}  response.Response{data=map[string]string}
// @Failure      503  {object}  response.Response
// @Router       /csrf-token [get]
func (p *CSRFProtector) TokenHandler(c *gin.Context) {
	token, err := p.Issue(c)
	if err != nil {
		p.secLog.LogStoreUnavailable(c.Request.Context(), requestInfo(c), "csrf", err)
		logger.Log.Error("failed to issue csrf token", "error", err)
		response.Error(c, http.StatusServiceUnavailable, "Failed to generate security token", nil)
		return
	}
	response.Success(c, http.StatusOK, "CSRF token issued", gin.H{"csrf_token": token})
}

// Middleware validates mutating requests.
func (p *CSRFProtector) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if p.exempt[c.Request.URL.Path] {
			c.Next()
			return
		}

		headerToken := c.GetHeader(CSRFTokenHeaderName)
		if headerToken == "" {
			p.reject(c, "missing_header", "Missing CSRF token")
			return
		}

		cookieToken, err := c.Cookie(CSRFTokenCookieName)
		if err != nil || subtle.ConstantTimeCompare([]byte(headerToken), []byte(cookieToken)) != 1 {
			p.reject(c, "token_mismatch", "Invalid CSRF token")
			return
		}

		if _, err := p.store.Get(c.Request.Context(), csrfKeyPrefix+headerToken); err != nil {
			if errors.Is(err, kvstore.ErrNotFound) {
				p.reject(c, "unknown_or_expired", "Invalid CSRF token")
				return
			}
			p.secLog.LogStoreUnavailable(c.Request.Context(), requestInfo(c), "csrf", err)
			response.Abort(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
			return
		}

		c.Next()
	}
}

func (p *CSRFProtector) reject(c *gin.Context, reason, message string) {
	p.secLog.LogCSRFViolation(c.Request.Context(), requestInfo(c), reason)
	response.Abort(c, http.StatusForbidden, message, response.ErrorBody{
		Kind:    string(apperror.KindForbidden),
		Details: map[string]interface{}{"reason": reason},
	})
}
