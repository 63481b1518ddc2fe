package v1

import (
	"net/http"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
	workflowUC  domain.ProfileWorkflowUsecase
}

// ProfileUpdateResponse pairs the saved profile with its fresh readiness.
type ProfileUpdateResponse struct {
	Profile   *domain.CandidateProfile `json:"profile"`
	Readiness *domain.ReadinessResult  `json:"readiness"`
}

func NewCandidateHandler(candidates *gin.RouterGroup, candidateUC domain.CandidateUsecase, workflowUC domain.ProfileWorkflowUsecase) {
	handler := &CandidateHandler{candidateUC: candidateUC, workflowUC: workflowUC}

	candidates.GET("/me", handler.GetProfile)
	candidates.PUT("/me", handler.UpdateProfile)
	candidates.GET("/me/readiness", handler.CheckReadiness)
	candidates.POST("/me/readiness", handler.ComputeReadiness)
	candidates.POST("/me/submit", handler.Submit)
	candidates.POST("/me/resubmit", handler.Resubmit)
}

// GetProfile godoc
// @Summary      Get candidate profile
// @Description  Get the profile of the currently logged-in candidate
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.CandidateProfile}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/me [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetProfile(c *gin.Context) {
	profile, err := h.candidateUC.GetProfile(c, actorFrom(c).ID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate profile", profile)
}

// UpdateProfile godoc
// @Summary      Update candidate profile
// @Description  Saves the editable profile fields and skills, then recomputes and stores readiness in the same transaction
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.UpdateProfileRequest  true  "Profile fields"
// @Success      200      {object}  response.Response{data=ProfileUpdateResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /candidates/me [put]
// @Security     BearerAuth
func (h *CandidateHandler) UpdateProfile(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	profile, readiness, err := h.candidateUC.UpdateProfile(c, actorFrom(c).ID, &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", ProfileUpdateResponse{
		Profile:   profile,
		Readiness: readiness,
	})
}

// CheckReadiness godoc
// @Summary      Check profile readiness
// @Description  Scores the stored profile without persisting anything
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.ReadinessResult}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/me/readiness [get]
// @Security     BearerAuth
func (h *CandidateHandler) CheckReadiness(c *gin.Context) {
	result, err := h.candidateUC.CheckReadiness(c, actorFrom(c).ID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile readiness", result)
}

// ComputeReadiness godoc
// @Summary      Recompute profile readiness
// @Description  Recomputes readiness from the stored profile and persists completion, readiness flag and validation time. A user without a profile gets the empty result.
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.ReadinessResult}
// @Failure      401  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /candidates/me/readiness [post]
// @Security     BearerAuth
func (h *CandidateHandler) ComputeReadiness(c *gin.Context) {
	result, err := h.candidateUC.ComputeReadiness(c, actorFrom(c).ID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile readiness recomputed", result)
}

// Submit godoc
// @Summary      Submit profile for review
// @Description  Moves the caller's profile from DRAFT to SUBMITTED
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.TransitionResult}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /candidates/me/submit [post]
// @Security     BearerAuth
func (h *CandidateHandler) Submit(c *gin.Context) {
	result, err := h.workflowUC.Submit(c, actorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile submitted for review", result)
}

// Resubmit godoc
// @Summary      Resubmit profile after revision
// @Description  Moves the caller's profile from NEED_REVISION back to SUBMITTED
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.TransitionResult}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /candidates/me/resubmit [post]
// @Security     BearerAuth
func (h *CandidateHandler) Resubmit(c *gin.Context) {
	result, err := h.workflowUC.Resubmit(c, actorFrom(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile resubmitted for review", result)
}
