package v1

import (
	"net/http"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated endpoints.
type PublicHandler struct {
	healthUC    domain.HealthUsecase
	candidateUC domain.CandidateUsecase
}

func NewPublicHandler(public *gin.RouterGroup, healthUC domain.HealthUsecase, candidateUC domain.CandidateUsecase) {
	handler := &PublicHandler{healthUC: healthUC, candidateUC: candidateUC}

	public.GET("/health", handler.Health)
	public.GET("/skills", handler.ListSkills)
}

// Health godoc
// @Summary      Health check
// @Description  Reports database and Redis reachability. Returns 503 when the database is down.
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.HealthStatus}
// @Failure      503  {object}  response.Response{data=domain.HealthStatus}
// @Router       /health [get]
func (h *PublicHandler) Health(c *gin.Context) {
	status := h.healthUC.Check(c.Request.Context())
	if status.Status == "down" {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Success:   false,
			Message:   "System unavailable",
			Data:      status,
			RequestID: c.GetString(string(domain.KeyRequestID)),
		})
		return
	}
	response.Success(c, http.StatusOK, "System operational", status)
}

// ListSkills godoc
// @Summary      List skills
// @Description  Returns the skill catalogue used in profiles and job postings
// @Tags         skills
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Skill}
// @Router       /skills [get]
func (h *PublicHandler) ListSkills(c *gin.Context) {
	skills, err := h.candidateUC.ListSkills(c)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Skills", skills)
}
