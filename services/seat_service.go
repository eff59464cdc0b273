package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"seat-ticketing/models"
	"seat-ticketing/monitoring"
	"seat-ticketing/store"
	"seat-ticketing/utils"
)

// Claim failure reasons. These are the stable strings callers branch on;
// expected failures are results, not errors.
const (
	ReasonTicketNotFound = "ticket_not_found"
	ReasonSeatNotFound   = "seat_not_found"
	ReasonSeatTaken      = "seat_already_occupied"
	ReasonTicketHasSeat  = "ticket_already_has_seat"
	ReasonInternalError  = "internal_error"
)

// ClaimResult is the outcome of one claim attempt.
type ClaimResult struct {
	Success bool           `json:"success"`
	Reason  string         `json:"reason,omitempty"`
	Ticket  *models.Ticket `json:"ticket,omitempty"`
}

// SeatService is the seat assignment coordinator. Every seat claim in the
// process goes through ClaimSeat; the per-seat lock table is the only
// concurrency-control primitive, and it is keyed by seat number because
// occupied/unoccupied is a per-seat property.
type SeatService struct {
	store    store.Store
	locks    *utils.KeyedMutex
	cache    *Cache
	notifier *Notifier
	logger   *slog.Logger
}

func NewSeatService(st store.Store, cache *Cache, notifier *Notifier) *SeatService {
	return &SeatService{
		store:    st,
		locks:    utils.NewKeyedMutex(),
		cache:    cache,
		notifier: notifier,
		logger:   slog.Default().With("service", "seat"),
	}
}

// ClaimSeat atomically assigns seatNumber to the ticket identified by its
// human-facing code. The per-seat critical section spans the whole
// validate-then-mutate sequence; state read before the lock is never
// trusted. For any seat, at most one claim ever succeeds.
func (s *SeatService) ClaimSeat(ctx context.Context, ticketCode, seatNumber string) ClaimResult {
	unlock := s.locks.Lock(seatNumber)
	defer unlock()

	res := s.claimLocked(ctx, ticketCode, seatNumber)
	if res.Success {
		monitoring.TrackClaim("success")
		s.cache.Invalidate(ctx)
		s.notifier.SeatClaimed(seatNumber, ticketCode)
	} else {
		monitoring.TrackClaim(res.Reason)
	}
	return res
}

func (s *SeatService) claimLocked(ctx context.Context, ticketCode, seatNumber string) ClaimResult {
	// Re-fetch both records inside the critical section.
	ticket, err := s.store.GetTicketByCode(ctx, ticketCode)
	if errors.Is(err, store.ErrTicketNotFound) {
		return ClaimResult{Reason: ReasonTicketNotFound}
	}
	if err != nil {
		s.logger.Error("claim: ticket read failed", "ticket", ticketCode, "err", err)
		return ClaimResult{Reason: ReasonInternalError}
	}

	seat, err := s.store.GetSeat(ctx, seatNumber)
	if errors.Is(err, store.ErrSeatNotFound) {
		return ClaimResult{Reason: ReasonSeatNotFound}
	}
	if err != nil {
		s.logger.Error("claim: seat read failed", "seat", seatNumber, "err", err)
		return ClaimResult{Reason: ReasonInternalError}
	}

	if seat.IsOccupied {
		return ClaimResult{Reason: ReasonSeatTaken}
	}
	if ticket.SeatNumber != "" {
		return ClaimResult{Reason: ReasonTicketHasSeat}
	}

	occupied := true
	if _, err := s.store.UpdateSeat(ctx, seatNumber, store.SeatUpdate{
		IsOccupied: &occupied,
		TicketID:   &ticket.TicketID,
	}); err != nil {
		s.logger.Error("claim: seat write failed", "seat", seatNumber, "err", err)
		return ClaimResult{Reason: ReasonInternalError}
	}

	now := time.Now().UTC()
	status := models.TicketStatusAssigned
	updated, err := s.store.UpdateTicket(ctx, ticket.ID, store.TicketUpdate{
		SeatNumber: &seatNumber,
		Status:     &status,
		AssignedAt: &now,
	})
	if err != nil {
		// The seat write landed but the ticket write did not. The backend
		// has no multi-record transaction, so restore the seat by hand;
		// never report success with only half the mutation applied.
		s.logger.Error("claim: ticket write failed, compensating", "ticket", ticketCode, "seat", seatNumber, "err", err)
		free := false
		empty := ""
		if _, rbErr := s.store.UpdateSeat(ctx, seatNumber, store.SeatUpdate{
			IsOccupied: &free,
			TicketID:   &empty,
		}); rbErr != nil {
			s.logger.Error("claim: compensation failed, seat left occupied without ticket", "seat", seatNumber, "err", rbErr)
		}
		return ClaimResult{Reason: ReasonInternalError}
	}

	return ClaimResult{Success: true, Ticket: updated}
}

// ListSeats returns the seat map sorted by seat number, served from the
// read cache when warm.
func (s *SeatService) ListSeats(ctx context.Context) ([]models.Seat, error) {
	if seats, ok := s.cache.GetSeats(ctx); ok {
		return seats, nil
	}

	seats, err := s.store.ListSeats(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].SeatNumber < seats[j].SeatNumber })

	s.cache.SetSeats(ctx, seats)
	return seats, nil
}

// GetSeat reads one seat straight from the store.
func (s *SeatService) GetSeat(ctx context.Context, seatNumber string) (*models.Seat, error) {
	return s.store.GetSeat(ctx, seatNumber)
}
