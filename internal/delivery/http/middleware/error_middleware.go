package middleware

import (
	"errors"
	"net/http"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/logger"
	"talent-marketplace-backend/pkg/security"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler(secLog *security.SecurityLogger) gin.HandlerFunc {
	secLog = securityLogger(secLog)

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("request failed",
					"kind", appErr.Kind,
					"path", c.Request.URL.Path,
					"error", err,
				)
				report(c, err)
			}
			response.Error(c, appErr.Code, appErr.Message, response.ErrorBody{
				Kind:    string(appErr.Kind),
				Details: appErr.Details,
			})
			return
		}

		// Never expose internal error details to clients.
		logger.Log.Error("unhandled error",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"error", err,
		)
		secLog.LogServerError(c.Request.Context(), requestInfo(c), err)
		report(c, err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", response.ErrorBody{
			Kind: string(apperror.KindInternal),
		})
	}
}

// report sends err to Sentry when the sentrygin middleware attached a hub.
func report(c *gin.Context, err error) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
}
