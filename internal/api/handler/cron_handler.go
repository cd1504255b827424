package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jobradar/jobradar/internal/api/metrics"
	"github.com/jobradar/jobradar/internal/core/domain"
	"github.com/jobradar/jobradar/internal/core/ports"
)

// CronHandler exposes the scheduled pipelines as HTTP triggers, so an
// external cron can drive them instead of (or alongside) the in-process
// scheduler.
type CronHandler struct {
	ingest ports.IngestService
	notify ports.NotifyService
	jobs   ports.JobRepository
	users  ports.UserRepository
}

func NewCronHandler(ingest ports.IngestService, notify ports.NotifyService, jobs ports.JobRepository, users ports.UserRepository) *CronHandler {
	return &CronHandler{ingest: ingest, notify: notify, jobs: jobs, users: users}
}

// FetchJobs handles POST /cron/fetch-jobs: runs one ingestion cycle.
//
// @Summary      Trigger job ingestion
// @Tags         cron
// @Produce      json
// @Param        Authorization  header    string  false  "Bearer cron secret"
// @Success      200  {object}  ports.IngestResult
// @Failure      401  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /cron/fetch-jobs [post]
func (h *CronHandler) FetchJobs(c echo.Context) error {
	result, err := h.ingest.Run(c.Request().Context())
	metrics.ObserveIngest(result, err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// SendEmails handles POST /cron/send-emails: runs one digest dispatch.
//
// @Summary      Trigger digest email dispatch
// @Tags         cron
// @Produce      json
// @Param        Authorization  header    string  false  "Bearer cron secret"
// @Success      200  {object}  ports.DispatchResult
// @Failure      401  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /cron/send-emails [post]
func (h *CronHandler) SendEmails(c echo.Context) error {
	start := time.Now()
	result, err := h.notify.DispatchDigest(c.Request().Context())
	metrics.ObserveDispatch(result, time.Since(start))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Status handles GET /cron/send-emails: reports whether a dispatch would do
// anything right now.
//
// @Summary      Digest dispatch status
// @Tags         cron
// @Produce      json
// @Success      200  {object}  cronStatusResponse
// @Router       /cron/send-emails [get]
func (h *CronHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()

	unEmailed, err := h.jobs.CountUnemailed(ctx)
	if err != nil {
		return err
	}
	userCount, err := h.users.Count(ctx)
	if err != nil {
		return err
	}
	stats, err := h.jobs.Stats(ctx, time.Now().UTC().Add(-7*24*time.Hour))
	if err != nil {
		return err
	}

	resp := cronStatusResponse{
		UnEmailedJobs: unEmailed,
		TotalUsers:    userCount,
		TotalJobs:     stats.Total,
		ReadyToSend:   unEmailed > 0 && userCount > 0,
	}

	last, err := h.jobs.Latest(ctx)
	if err == nil {
		resp.LastJobAdded = &last.CreatedAt
		resp.LastJobPosted = &last.PostedAt
	} else if err != domain.ErrJobNotFound {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}
