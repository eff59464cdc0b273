package handlers

import (
	"github.com/labstack/echo/v5"
)

// RegisterRoutes wires every handler onto the router. claimMiddleware is
// applied to the claim endpoint only; pass nothing to leave it open.
func RegisterRoutes(e *echo.Echo, tickets *TicketHandler, seats *SeatHandler, importer *ImportHandler, admin *AdminHandler, claimMiddleware ...echo.MiddlewareFunc) {
	api := e.Group("/api")

	api.POST("/tickets", tickets.CreateTicket)
	api.GET("/tickets", tickets.ListTickets)
	api.GET("/tickets/:ticketId", tickets.GetTicket)
	api.GET("/tickets/:ticketId/qr", tickets.GetTicketQR)
	api.POST("/tickets/:ticketId/checkin", tickets.CheckInTicket)
	api.POST("/checkin/scan", tickets.CheckInByQR)

	api.GET("/seats", seats.GetSeats)
	api.GET("/seats/:seatNumber", seats.GetSeat)
	api.POST("/seats/claim", seats.ClaimSeat, claimMiddleware...)

	api.POST("/import", importer.ImportGuests)
	api.POST("/import/csv", importer.ImportGuestsCSV)
	api.POST("/import/assign", importer.BulkAssignSeats)

	api.GET("/stats", admin.GetStats)

	e.GET("/healthz", admin.Health)
}
