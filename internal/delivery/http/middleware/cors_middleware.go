package middleware

import (
	"strings"
	"time"

	"talent-marketplace-backend/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var devOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:3001",
}

// CORSMiddleware allows the configured frontend origins. Localhost origins
// are only accepted outside production.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowed := make(map[string]bool)
	for _, o := range cfg.AllowedOrigins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	if cfg.FrontendURL != "" {
		allowed[cfg.FrontendURL] = true
	}
	if !cfg.IsProduction() {
		for _, o := range devOrigins {
			allowed[o] = true
		}
	}

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowed[origin]
		},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept", "Authorization",
			CSRFTokenHeaderName, RequestIDHeader, "Cache-Control", "X-Requested-With",
		},
		ExposeHeaders: []string{
			RequestIDHeader, "Content-Disposition",
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}
