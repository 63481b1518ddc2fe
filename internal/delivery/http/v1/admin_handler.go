package v1

import (
	"net/http"
	"strconv"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"
	"talent-marketplace-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	adminUC    domain.AdminUsecase
	workflowUC domain.ProfileWorkflowUsecase
	secLog     *security.SecurityLogger
}

func NewAdminHandler(admin *gin.RouterGroup, adminUC domain.AdminUsecase, workflowUC domain.ProfileWorkflowUsecase, secLog *security.SecurityLogger) {
	if secLog == nil {
		secLog = security.DefaultLogger()
	}
	handler := &AdminHandler{adminUC: adminUC, workflowUC: workflowUC, secLog: secLog}

	// Review queue
	admin.GET("/profiles", handler.ListProfiles)
	admin.GET("/profiles/:id", handler.GetProfile)
	admin.POST("/profiles/:id/transition", handler.Transition)

	// Audit trail
	admin.GET("/audit-logs", handler.ListAuditLogs)
	admin.GET("/audit-logs/export", handler.ExportAuditLogs)
}

func profileIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.BadRequest("Invalid profile ID"))
		return 0, false
	}
	return id, true
}

// ListProfiles godoc
// @Summary      List profiles by review status
// @Description  Returns the review queue. Defaults to SUBMITTED profiles, oldest submission first.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status   query     string  false  "DRAFT, SUBMITTED, NEED_REVISION, APPROVED or REJECTED"
// @Param        page     query     int     false  "Page number"
// @Param        pageSize query     int     false  "Items per page"
// @Success      200      {object}  response.Response{data=domain.PaginatedResult[domain.CandidateProfile]}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /admin/profiles [get]
func (h *AdminHandler) ListProfiles(c *gin.Context) {
	status := domain.ProfileStatus(c.Query("status"))
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 20)

	result, err := h.adminUC.ListProfiles(c, status, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profiles list", result)
}

// GetProfile godoc
// @Summary      Get profile for review
// @Description  Returns the profile, its readiness, the review events available now and the audit history
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Profile ID"
// @Success      200  {object}  response.Response{data=domain.AdminProfileDetail}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/profiles/{id} [get]
func (h *AdminHandler) GetProfile(c *gin.Context) {
	id, ok := profileIDParam(c)
	if !ok {
		return
	}

	detail, err := h.adminUC.GetProfile(c, id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile detail", detail)
}

// Transition godoc
// @Summary      Review a submitted profile
// @Description  Applies approve, reject (requires reason) or request-revision (requires notes). Side-effect failures are returned as warnings.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                       true  "Profile ID"
// @Param        body  body      domain.TransitionRequest  true  "Event and payload"
// @Success      200   {object}  response.Response{data=domain.TransitionResult}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /admin/profiles/{id}/transition [post]
func (h *AdminHandler) Transition(c *gin.Context) {
	id, ok := profileIDParam(c)
	if !ok {
		return
	}

	var req domain.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	result, err := h.workflowUC.Transition(c, id, req.Event, actorFrom(c), domain.TransitionPayload{
		Reason: req.Reason,
		Notes:  req.Notes,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile status updated", result)
}

// ListAuditLogs godoc
// @Summary      List audit log entries
// @Description  Returns administrative actions, newest first
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        actor_id     query     string  false  "Filter by actor"
// @Param        action       query     string  false  "Filter by action, e.g. profile.approve"
// @Param        target_type  query     string  false  "Filter by target type"
// @Param        target_id    query     string  false  "Filter by target ID"
// @Param        page         query     int     false  "Page number"
// @Param        pageSize     query     int     false  "Items per page"
// @Success      200          {object}  response.Response{data=domain.PaginatedResult[domain.AuditEntry]}
// @Failure      403          {object}  response.Response
// @Router       /admin/audit-logs [get]
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	var filter domain.AuditFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(apperror.BadRequest("Invalid query parameters"))
		return
	}

	result, err := h.adminUC.ListAuditLogs(c, filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Audit log", result)
}

// ExportAuditLogs godoc
// @Summary      Export audit log
// @Description  Downloads the filtered audit log as an XLSX workbook
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        actor_id     query     string  false  "Filter by actor"
// @Param        action       query     string  false  "Filter by action"
// @Param        target_type  query     string  false  "Filter by target type"
// @Param        target_id    query     string  false  "Filter by target ID"
// @Success      200          {file}    file
// @Failure      403          {object}  response.Response
// @Router       /admin/audit-logs/export [get]
func (h *AdminHandler) ExportAuditLogs(c *gin.Context) {
	var filter domain.AuditFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(apperror.BadRequest("Invalid query parameters"))
		return
	}

	data, filename, err := h.adminUC.ExportAuditLogs(c, filter)
	if err != nil {
		c.Error(err)
		return
	}

	h.secLog.LogDataExport(c.Request.Context(), security.RequestInfo{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetString(string(domain.KeyRequestID)),
		Path:      c.FullPath(),
	}, actorFrom(c).ID, len(data))

	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, xlsxContentType, data)
}
