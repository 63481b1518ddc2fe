package v1

import (
	"net/http"

	"talent-marketplace-backend/internal/delivery/http/response"
	"talent-marketplace-backend/internal/domain"
	"talent-marketplace-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

// CreateJobRequest is the employer-editable part of a job posting.
type CreateJobRequest struct {
	Title         string  `json:"title" example:"Senior Go Engineer"`
	Description   string  `json:"description"`
	HourlyRateMin float64 `json:"hourly_rate_min" example:"40"`
	HourlyRateMax float64 `json:"hourly_rate_max" example:"80"`
	Location      string  `json:"location" example:"Remote"`
	SkillIDs      []int   `json:"skill_ids"`
}

func NewJobHandler(jobs *gin.RouterGroup, jobUC domain.JobUsecase, candidateOnly, postersOnly gin.HandlerFunc) {
	handler := &JobHandler{jobUC: jobUC}

	jobs.GET("", handler.List)
	jobs.GET("/best-match", candidateOnly, handler.BestMatch)
	jobs.POST("", postersOnly, handler.Create)
}

// List godoc
// @Summary      List active jobs
// @Description  Returns active job postings, newest first
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response{data=domain.PaginatedResult[domain.Job]}
// @Router       /jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "page_size", 10)

	result, err := h.jobUC.ListJobs(c, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Jobs list", result)
}

// BestMatch godoc
// @Summary      Best-match jobs
// @Description  Ranks active jobs by skill overlap. Profiles below the readiness threshold get an explanation instead of matches, still with HTTP 200.
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max results (1-50, default 10)"
// @Success      200    {object}  response.Response{data=domain.BestMatchResult}
// @Failure      403    {object}  response.Response
// @Router       /jobs/best-match [get]
func (h *JobHandler) BestMatch(c *gin.Context) {
	result, err := h.jobUC.BestMatches(c, actorFrom(c).ID, queryInt(c, "limit", 0))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, result.Message, result)
}

// Create godoc
// @Summary      Create job
// @Description  Publishes a job posting with its required skills
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        job  body      CreateJobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response{data=domain.Job}
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /jobs [post]
func (h *JobHandler) Create(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	job := &domain.Job{
		Title:         req.Title,
		Description:   req.Description,
		HourlyRateMin: req.HourlyRateMin,
		HourlyRateMax: req.HourlyRateMax,
		Location:      req.Location,
		SkillIDs:      req.SkillIDs,
	}
	if err := h.jobUC.CreateJob(c, actorFrom(c), job); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Job created", job)
}
