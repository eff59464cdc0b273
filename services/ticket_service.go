package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"seat-ticketing/models"
	"seat-ticketing/monitoring"
	"seat-ticketing/store"
	"seat-ticketing/utils"
)

// Check-in failure reasons.
const (
	ReasonTicketNotAssigned = "ticket_not_assigned"
	ReasonAlreadyCheckedIn  = "already_checked_in"
)

// CreateTicketInput is the request payload for issuing a single ticket.
type CreateTicketInput struct {
	GuestName string `json:"guestName" validate:"required,min=1,max=200"`
	Email     string `json:"email" validate:"required,email"`
}

// CheckInResult is the outcome of one check-in attempt.
type CheckInResult struct {
	Success bool           `json:"success"`
	Reason  string         `json:"reason,omitempty"`
	Ticket  *models.Ticket `json:"ticket,omitempty"`
}

// TicketService issues tickets and walks them through the
// pending -> assigned -> checked-in lifecycle. Seat assignment itself is
// the coordinator's job; check-in only moves status forward.
type TicketService struct {
	store    store.Store
	cache    *Cache
	notifier *Notifier
	validate *validator.Validate
	logger   *slog.Logger
}

func NewTicketService(st store.Store, cache *Cache, notifier *Notifier) *TicketService {
	return &TicketService{
		store:    st,
		cache:    cache,
		notifier: notifier,
		validate: validator.New(),
		logger:   slog.Default().With("service", "ticket"),
	}
}

// Create issues a new pending ticket with a generated code and QR payload.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*models.Ticket, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	code, err := utils.NewTicketCode()
	if err != nil {
		return nil, err
	}
	ticket, err := s.store.CreateTicket(ctx, store.TicketDraft{
		TicketID:  code,
		GuestName: input.GuestName,
		Email:     input.Email,
		QRCode:    utils.EncodeTicketPayload(code),
	})
	if err != nil {
		return nil, err
	}

	monitoring.TrackTicketCreated()
	s.cache.Invalidate(ctx)
	s.logger.Info("ticket issued", "ticket", ticket.TicketID, "guest", ticket.GuestName)
	return ticket, nil
}

// Get returns one ticket by its human-facing code.
func (s *TicketService) Get(ctx context.Context, ticketCode string) (*models.Ticket, error) {
	return s.store.GetTicketByCode(ctx, ticketCode)
}

// List returns all tickets sorted by ticket code.
func (s *TicketService) List(ctx context.Context) ([]models.Ticket, error) {
	tickets, err := s.store.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].TicketID < tickets[j].TicketID })
	return tickets, nil
}

// CheckIn marks an assigned ticket as checked in. The transition is
// monotonic: pending tickets are rejected until they hold a seat, and a
// checked-in ticket never checks in twice.
func (s *TicketService) CheckIn(ctx context.Context, ticketCode string) CheckInResult {
	ticket, err := s.store.GetTicketByCode(ctx, ticketCode)
	return s.finishCheckIn(ctx, ticket, err)
}

// CheckInByQR resolves the scanned QR payload to a ticket and checks it in.
func (s *TicketService) CheckInByQR(ctx context.Context, payload string) CheckInResult {
	ticket, err := s.store.GetTicketByQRPayload(ctx, payload)
	return s.finishCheckIn(ctx, ticket, err)
}

func (s *TicketService) finishCheckIn(ctx context.Context, ticket *models.Ticket, err error) CheckInResult {
	res := s.checkIn(ctx, ticket, err)
	if res.Success {
		monitoring.TrackCheckIn("success")
		s.cache.Invalidate(ctx)
		s.notifier.TicketCheckedIn(res.Ticket.TicketID, res.Ticket.SeatNumber)
	} else {
		monitoring.TrackCheckIn(res.Reason)
	}
	return res
}

func (s *TicketService) checkIn(ctx context.Context, ticket *models.Ticket, err error) CheckInResult {
	if err != nil {
		if errors.Is(err, store.ErrTicketNotFound) {
			return CheckInResult{Reason: ReasonTicketNotFound}
		}
		s.logger.Error("check-in: ticket read failed", "err", err)
		return CheckInResult{Reason: ReasonInternalError}
	}

	switch ticket.Status {
	case models.TicketStatusCheckedIn:
		return CheckInResult{Reason: ReasonAlreadyCheckedIn}
	case models.TicketStatusAssigned:
	default:
		return CheckInResult{Reason: ReasonTicketNotAssigned}
	}

	now := time.Now().UTC()
	status := models.TicketStatusCheckedIn
	updated, err := s.store.UpdateTicket(ctx, ticket.ID, store.TicketUpdate{
		Status:      &status,
		CheckedInAt: &now,
	})
	if err != nil {
		s.logger.Error("check-in: ticket write failed", "ticket", ticket.TicketID, "err", err)
		return CheckInResult{Reason: ReasonInternalError}
	}
	return CheckInResult{Success: true, Ticket: updated}
}

// Stats returns the venue-wide aggregate, served from the read cache when
// warm.
func (s *TicketService) Stats(ctx context.Context) (*models.Stats, error) {
	if stats, ok := s.cache.GetStats(ctx); ok {
		return stats, nil
	}

	stats, err := s.store.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetStats(ctx, stats)
	return stats, nil
}
