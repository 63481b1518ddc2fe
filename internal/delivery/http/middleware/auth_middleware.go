package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"talent-marketplace-backend/config"
	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/auth"
	"talent-marketplace-backend/pkg/logger"
	"talent-marketplace-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthCookieName is read when no Authorization header is present.
const AuthCookieName = "auth_token"

// AuthMiddleware verifies the bearer token (HS256 with the shared secret or
// RS256 against the JWKS) and loads the local account. The role always comes
// from the database, never from the token.
func AuthMiddleware(jwksProvider *auth.Provider, cfg *config.Config, authUC domain.AuthUsecase, secLog *security.SecurityLogger) gin.HandlerFunc {
	secLog = securityLogger(secLog)

	keyFunc := func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			if cfg.SupabaseJWTSecret == "" {
				return nil, errors.New("HS256 token received but SUPABASE_JWT_SECRET is not configured")
			}
			return []byte(cfg.SupabaseJWTSecret), nil
		case *jwt.SigningMethodRSA:
			if jwksProvider == nil {
				return nil, errors.New("RS256 token received but SUPABASE_URL is not configured")
			}
			return jwksProvider.KeyFunc(token)
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
	}

	unauthorized := func(c *gin.Context, reason, message string) {
		secLog.LogUnauthorized(c.Request.Context(), requestInfo(c), reason)
		response.Abort(c, http.StatusUnauthorized, message, response.ErrorBody{
			Kind: string(apperror.KindUnauthorized),
		})
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			unauthorized(c, "missing_token", "Authorization header or auth_token cookie required")
			return
		}

		token, err := jwt.Parse(tokenString, keyFunc)
		if err != nil || !token.Valid {
			logger.Log.Debug("token validation failed", "error", err)
			unauthorized(c, "invalid_token", "Invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "invalid_claims", "Invalid claims")
			return
		}
		sub, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)
		if sub == "" {
			unauthorized(c, "missing_subject", "Invalid claims")
			return
		}

		user, err := authUC.EnsureUser(c.Request.Context(), sub, email)
		if err != nil {
			if apperror.IsKind(err, apperror.KindPersistenceFailure) {
				_ = c.Error(err)
				c.Abort()
				return
			}
			unauthorized(c, "unknown_user", "User not found")
			return
		}

		c.Set(string(domain.KeyUserID), user.ID)
		c.Set(string(domain.KeyUserEmail), user.Email)
		c.Set(string(domain.KeyUserRole), user.Role)

		ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, user.ID)
		ctx = context.WithValue(ctx, domain.KeyUserRole, user.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		}
		return ""
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}
	return ""
}

// RequireRole lets only the listed roles through. It must run after
// AuthMiddleware.
func RequireRole(secLog *security.SecurityLogger, roles ...domain.Role) gin.HandlerFunc {
	secLog = securityLogger(secLog)

	return func(c *gin.Context) {
		v, _ := c.Get(string(domain.KeyUserRole))
		role, _ := v.(domain.Role)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		secLog.LogForbidden(c.Request.Context(), requestInfo(c), c.GetString(string(domain.KeyUserID)), role.String())
		response.Abort(c, http.StatusForbidden, "You do not have access to this resource", response.ErrorBody{
			Kind: string(apperror.KindForbidden),
		})
	}
}
