package models

import (
	"time"
)

const (
	TicketStatusPending   = "pending"
	TicketStatusAssigned  = "assigned"
	TicketStatusCheckedIn = "checked-in"
)

// Ticket is the canonical ticket record. SeatNumber is empty until a seat
// has been claimed for the ticket. Status only ever moves forward:
// pending -> assigned -> checked-in.
type Ticket struct {
	ID           string     `json:"id"`
	TicketID     string     `json:"ticket_id"`
	GuestName    string     `json:"guest_name"`
	Email        string     `json:"email"`
	SeatNumber   string     `json:"seat_number,omitempty"`
	QRCode       string     `json:"qr_code"`
	Status       string     `json:"status"`
	PurchaseDate time.Time  `json:"purchase_date"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
}
