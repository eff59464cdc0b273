package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"seat-ticketing/services"
)

type AdminHandler struct {
	tickets *services.TicketService
	started time.Time
	backend string
}

func NewAdminHandler(tickets *services.TicketService, backend string) *AdminHandler {
	return &AdminHandler{
		tickets: tickets,
		started: time.Now(),
		backend: backend,
	}
}

// GetStats - GET /api/stats
func (h *AdminHandler) GetStats(c echo.Context) error {
	stats, err := h.tickets.Stats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("failed to compute stats"))
	}
	return c.JSON(http.StatusOK, stats)
}

// Health - GET /healthz
func (h *AdminHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"backend": h.backend,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
