package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jobradar/jobradar/internal/core/ports"
)

// StatsHandler serves aggregate job counts.
type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Get handles GET /v1/stats.
//
// @Summary      Job statistics
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/stats [get]
func (h *StatsHandler) Get(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statsResponse{
		Total:   stats.Total,
		Applied: stats.Applied,
		Emailed: stats.Emailed,
		Recent:  stats.Recent,
	})
}
