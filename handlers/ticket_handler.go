package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v5"

	"seat-ticketing/services"
	"seat-ticketing/store"
	"seat-ticketing/utils"
)

type TicketHandler struct {
	tickets *services.TicketService
}

func NewTicketHandler(tickets *services.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// CreateTicket - POST /api/tickets
func (h *TicketHandler) CreateTicket(c echo.Context) error {
	var req services.CreateTicketInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	ticket, err := h.tickets.Create(c.Request().Context(), req)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		}
		if errors.Is(err, store.ErrDuplicateTicket) {
			return c.JSON(http.StatusConflict, errorBody("ticket code already exists"))
		}
		return c.JSON(http.StatusInternalServerError, errorBody("failed to create ticket"))
	}
	return c.JSON(http.StatusCreated, ticket)
}

// ListTickets - GET /api/tickets
func (h *TicketHandler) ListTickets(c echo.Context) error {
	tickets, err := h.tickets.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("failed to list tickets"))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"tickets": tickets,
		"total":   len(tickets),
	})
}

// GetTicket - GET /api/tickets/:ticketId
func (h *TicketHandler) GetTicket(c echo.Context) error {
	ticket, err := h.tickets.Get(c.Request().Context(), c.PathParam("ticketId"))
	if errors.Is(err, store.ErrTicketNotFound) {
		return c.JSON(http.StatusNotFound, errorBody("ticket not found"))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("failed to get ticket"))
	}
	return c.JSON(http.StatusOK, ticket)
}

// GetTicketQR - GET /api/tickets/:ticketId/qr
//
// Renders the ticket's QR payload as a PNG for printing or on-screen
// display.
func (h *TicketHandler) GetTicketQR(c echo.Context) error {
	ticket, err := h.tickets.Get(c.Request().Context(), c.PathParam("ticketId"))
	if errors.Is(err, store.ErrTicketNotFound) {
		return c.JSON(http.StatusNotFound, errorBody("ticket not found"))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("failed to get ticket"))
	}

	png, err := utils.RenderQRCodePNG(ticket.QRCode, 256)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("failed to render qr code"))
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// CheckInTicket - POST /api/tickets/:ticketId/checkin
func (h *TicketHandler) CheckInTicket(c echo.Context) error {
	res := h.tickets.CheckIn(c.Request().Context(), c.PathParam("ticketId"))
	return c.JSON(checkInStatus(res), res)
}

// CheckInByQR - POST /api/checkin/scan
//
// Accepts the raw payload produced by scanning a ticket QR code.
func (h *TicketHandler) CheckInByQR(c echo.Context) error {
	var req struct {
		QRPayload string `json:"qr_payload"`
	}
	if err := c.Bind(&req); err != nil || req.QRPayload == "" {
		return c.JSON(http.StatusBadRequest, errorBody("qr_payload is required"))
	}

	res := h.tickets.CheckInByQR(c.Request().Context(), req.QRPayload)
	return c.JSON(checkInStatus(res), res)
}

func checkInStatus(res services.CheckInResult) int {
	if res.Success {
		return http.StatusOK
	}
	switch res.Reason {
	case services.ReasonTicketNotFound:
		return http.StatusNotFound
	case services.ReasonTicketNotAssigned, services.ReasonAlreadyCheckedIn:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(msg string) map[string]any {
	return map[string]any{"error": msg}
}
