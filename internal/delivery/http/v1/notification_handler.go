package v1

import (
	"net/http"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifUC domain.NotificationUsecase
}

func NewNotificationHandler(notifications *gin.RouterGroup, notifUC domain.NotificationUsecase) {
	handler := &NotificationHandler{notifUC: notifUC}

	notifications.GET("", handler.List)
	notifications.PATCH("/:id/read", handler.MarkRead)
}

// List godoc
// @Summary      List my notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread    query     bool  false  "Only unread notifications"
// @Param        page      query     int   false  "Page number"
// @Param        pageSize  query     int   false  "Items per page"
// @Success      200       {object}  response.Response{data=domain.PaginatedResult[domain.Notification]}
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "pageSize", 20)

	result, err := h.notifUC.List(c, actorFrom(c).ID, unreadOnly, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Notifications", result)
}

// MarkRead godoc
// @Summary      Mark notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notifUC.MarkRead(c, actorFrom(c).ID, c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Notification marked as read", nil)
}
