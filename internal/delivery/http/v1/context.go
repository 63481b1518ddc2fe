package v1

import (
	"strconv"

	"talent-marketplace-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// actorFrom returns the caller set by AuthMiddleware.
func actorFrom(c *gin.Context) domain.Actor {
	v, _ := c.Get(string(domain.KeyUserRole))
	role, _ := v.(domain.Role)
	return domain.Actor{
		ID:   c.GetString(string(domain.KeyUserID)),
		Role: role,
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return n
}
