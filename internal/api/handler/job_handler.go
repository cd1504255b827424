package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobradar/jobradar/internal/core/ports"
)

// JobHandler handles HTTP requests for job browsing and mutation.
type JobHandler struct {
	service ports.JobService
}

func NewJobHandler(service ports.JobService) *JobHandler {
	return &JobHandler{service: service}
}

// List handles GET /v1/jobs.
//
// @Summary      List jobs with filters and pagination
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        search    query     string  false  "Partial match on title or company"
// @Param        location  query     string  false  "Partial match on location"
// @Param        applied   query     bool    false  "Filter by applied flag"
// @Param        emailed   query     bool    false  "Filter by emailed flag"
// @Param        dateFrom  query     string  false  "Posted on or after (2006-01-02)"
// @Param        dateTo    query     string  false  "Posted on or before (2006-01-02)"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Page size (default 20, max 100)"
// @Success      200       {object}  listJobsResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Router       /v1/jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	var q listJobsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	input, err := toListInput(q)
	if err != nil {
		return err
	}

	result, err := h.service.ListJobs(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListResponse(result))
}

// Create handles POST /v1/jobs: admin-only manual job creation.
//
// @Summary      Create a job manually
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createJobRequest  true  "Job details"
// @Success      201   {object}  jobResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/jobs [post]
func (h *JobHandler) Create(c echo.Context) error {
	var req createJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	job, err := h.service.CreateJob(c.Request().Context(), ports.CreateJobInput{
		Title:    req.Title,
		Company:  req.Company,
		Location: req.Location,
		URL:      req.URL,
		Source:   req.Source,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toJobResponse(job))
}

// SetApplied handles PUT /v1/jobs/:id/applied. When the body omits the
// applied field the current value is toggled.
//
// @Summary      Set or toggle a job's applied flag
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true   "Job id"
// @Param        body  body      setAppliedRequest  false  "Applied flag; omit to toggle"
// @Success      200   {object}  jobResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/jobs/{id}/applied [put]
func (h *JobHandler) SetApplied(c echo.Context) error {
	id := c.Param("id")

	// An empty body means toggle; bind failures on present-but-malformed
	// bodies are still rejected.
	var req setAppliedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "applied must be a boolean value")
	}

	job, err := h.service.SetApplied(c.Request().Context(), ports.SetAppliedInput{
		ID:      id,
		Applied: req.Applied,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toJobResponse(job))
}
