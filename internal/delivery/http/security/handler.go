package security

import (
	"net/http"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// SecurityDashboardHandler serves read-only views over persisted security
// events. Access control is applied by the group it is registered on.
type SecurityDashboardHandler struct {
	usecase domain.SecurityDashboardUsecase
}

func NewSecurityDashboardHandler(usecase domain.SecurityDashboardUsecase) *SecurityDashboardHandler {
	return &SecurityDashboardHandler{usecase: usecase}
}

func (h *SecurityDashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stats", h.GetStats)
	router.GET("/events", h.ListEvents)
}

// GetStats godoc
// @Summary      Security event statistics
// @Description  Counts by severity and type over the last 7 days, top client IPs and 24h counters. Cached for one minute.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.SecurityDashboardStats}
// @Failure      403  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /admin/security/stats [get]
func (h *SecurityDashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.usecase.GetStats(c)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Security statistics retrieved", stats)
}

// ListEvents godoc
// @Summary      List security events
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        event_type query     string  false  "Event type, e.g. csrf_violation"
// @Param        severity   query     string  false  "INFO, MEDIUM, WARN or HIGH"
// @Param        ip         query     string  false  "Client IP prefix"
// @Param        request_id query     string  false  "Request ID"
// @Param        since      query     string  false  "RFC 3339 lower bound"
// @Param        until      query     string  false  "RFC 3339 upper bound"
// @Param        page       query     int     false  "Page number"
// @Param        pageSize   query     int     false  "Items per page"
// @Success      200        {object}  response.Response{data=domain.PaginatedResult[domain.SecurityEventView]}
// @Failure      400        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Router       /admin/security/events [get]
func (h *SecurityDashboardHandler) ListEvents(c *gin.Context) {
	var filter domain.SecurityEventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(apperror.BadRequest("Invalid filter").WithDetail("error", err.Error()))
		return
	}

	events, err := h.usecase.ListEvents(c, filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Security events retrieved", events)
}
