package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v5"

	"seat-ticketing/services"
	"seat-ticketing/store"
)

type SeatHandler struct {
	seats *services.SeatService
}

func NewSeatHandler(seats *services.SeatService) *SeatHandler {
	return &SeatHandler{seats: seats}
}

// GetSeats - GET /api/seats
func (h *SeatHandler) GetSeats(c echo.Context) error {
	seats, err := h.seats.ListSeats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("failed to list seats"))
	}

	available := 0
	for _, seat := range seats {
		if !seat.IsOccupied {
			available++
		}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"seats":           seats,
		"total_seats":     len(seats),
		"available_seats": available,
	})
}

// GetSeat - GET /api/seats/:seatNumber
func (h *SeatHandler) GetSeat(c echo.Context) error {
	seat, err := h.seats.GetSeat(c.Request().Context(), c.PathParam("seatNumber"))
	if errors.Is(err, store.ErrSeatNotFound) {
		return c.JSON(http.StatusNotFound, errorBody("seat not found"))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("failed to get seat"))
	}
	return c.JSON(http.StatusOK, seat)
}

// ClaimSeat - POST /api/seats/claim
//
// The claim itself is atomic in the service; this handler only maps the
// outcome to a status code.
func (h *SeatHandler) ClaimSeat(c echo.Context) error {
	var req struct {
		TicketID   string `json:"ticket_id"`
		SeatNumber string `json:"seat_number"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if req.TicketID == "" || req.SeatNumber == "" {
		return c.JSON(http.StatusBadRequest, errorBody("ticket_id and seat_number are required"))
	}

	res := h.seats.ClaimSeat(c.Request().Context(), req.TicketID, req.SeatNumber)
	return c.JSON(claimStatus(res), res)
}

func claimStatus(res services.ClaimResult) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Reason {
	case services.ReasonTicketNotFound, services.ReasonSeatNotFound:
		return http.StatusNotFound
	case services.ReasonSeatTaken, services.ReasonTicketHasSeat:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
