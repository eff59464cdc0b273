// Package store holds the persistence contract for tickets and seats plus
// its two backends: an in-process map store and a Google Sheets store.
//
// Updates are last-write-wins merges of the supplied fields over the
// existing record. The store does not serialize concurrent updates to the
// same record; atomic seat claiming belongs to the seat service, which
// funnels every claim through a per-seat lock before touching the store.
package store

import (
	"context"
	"errors"
	"time"

	"seat-ticketing/models"
)

var (
	ErrTicketNotFound  = errors.New("store: ticket not found")
	ErrSeatNotFound    = errors.New("store: seat not found")
	ErrDuplicateTicket = errors.New("store: ticket code already exists")
)

// TicketDraft carries the caller-supplied fields for a new ticket. The
// store assigns the record ID, stamps the purchase date, and defaults
// Status to pending when unset.
type TicketDraft struct {
	TicketID   string
	GuestName  string
	Email      string
	QRCode     string
	SeatNumber string
	Status     string
	AssignedAt *time.Time
}

// TicketUpdate lists the fields to merge over an existing ticket. Nil
// pointers leave the stored value untouched; a pointer to the zero value
// clears the field.
type TicketUpdate struct {
	GuestName   *string
	Email       *string
	SeatNumber  *string
	QRCode      *string
	Status      *string
	AssignedAt  *time.Time
	CheckedInAt *time.Time
}

// SeatUpdate lists the mutable seat fields. Everything else about a seat
// is fixed at seeding time.
type SeatUpdate struct {
	IsOccupied *bool
	TicketID   *string
}

// Store is the uniform persistence contract both backends implement.
type Store interface {
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	GetTicketByCode(ctx context.Context, code string) (*models.Ticket, error)
	GetTicketByQRPayload(ctx context.Context, payload string) (*models.Ticket, error)
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	CreateTicket(ctx context.Context, draft TicketDraft) (*models.Ticket, error)
	UpdateTicket(ctx context.Context, id string, upd TicketUpdate) (*models.Ticket, error)

	ListSeats(ctx context.Context) ([]models.Seat, error)
	GetSeat(ctx context.Context, seatNumber string) (*models.Seat, error)
	UpdateSeat(ctx context.Context, seatNumber string, upd SeatUpdate) (*models.Seat, error)

	GetStats(ctx context.Context) (*models.Stats, error)
}

func mergeTicket(t models.Ticket, upd TicketUpdate) models.Ticket {
	if upd.GuestName != nil {
		t.GuestName = *upd.GuestName
	}
	if upd.Email != nil {
		t.Email = *upd.Email
	}
	if upd.SeatNumber != nil {
		t.SeatNumber = *upd.SeatNumber
	}
	if upd.QRCode != nil {
		t.QRCode = *upd.QRCode
	}
	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.AssignedAt != nil {
		at := *upd.AssignedAt
		t.AssignedAt = &at
	}
	if upd.CheckedInAt != nil {
		at := *upd.CheckedInAt
		t.CheckedInAt = &at
	}
	return t
}

func mergeSeat(s models.Seat, upd SeatUpdate) models.Seat {
	if upd.IsOccupied != nil {
		s.IsOccupied = *upd.IsOccupied
	}
	if upd.TicketID != nil {
		s.TicketID = *upd.TicketID
	}
	return s
}

func computeStats(tickets []models.Ticket, seats []models.Seat) *models.Stats {
	stats := &models.Stats{TotalTickets: len(tickets)}
	for _, s := range seats {
		if s.IsOccupied {
			stats.AssignedSeats++
		}
	}
	for _, t := range tickets {
		if t.QRCode != "" {
			stats.ScannedCodes++
		}
		if t.Status == models.TicketStatusCheckedIn {
			stats.CheckedIn++
		}
	}
	return stats
}
