package models

// Seat is one physical seat in the venue. Row and SeatIndex are the
// components SeatNumber was formatted from, kept for display and lookup.
// TicketID holds the human-facing code of the ticket occupying the seat.
type Seat struct {
	ID         string `json:"id"`
	SeatNumber string `json:"seat_number"`
	Row        string `json:"row"`
	SeatIndex  int    `json:"seat_index"`
	IsOccupied bool   `json:"is_occupied"`
	TicketID   string `json:"ticket_id,omitempty"`
}
