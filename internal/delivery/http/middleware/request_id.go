package middleware

import (
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an id, reusing a well-formed inbound one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(string(domain.KeyRequestID), id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func requestInfo(c *gin.Context) security.RequestInfo {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return security.RequestInfo{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetString(string(domain.KeyRequestID)),
		Path:      path,
	}
}

func securityLogger(sl *security.SecurityLogger) *security.SecurityLogger {
	if sl == nil {
		return security.DefaultLogger()
	}
	return sl
}
