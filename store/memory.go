package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"seat-ticketing/models"
)

// MemoryStore keeps all records in process-local maps behind a RWMutex.
// It is the development and test backend. The mutex makes each individual
// operation atomic; it does not serialize read-modify-write sequences
// spanning multiple calls, matching the remote backend's semantics.
type MemoryStore struct {
	mu      sync.RWMutex
	tickets map[string]models.Ticket // keyed by record ID
	seats   map[string]models.Seat   // keyed by seat number
}

// NewMemoryStore seeds the store with the given seat universe. Seats
// without an ID get one assigned.
func NewMemoryStore(seats []models.Seat) *MemoryStore {
	s := &MemoryStore{
		tickets: make(map[string]models.Ticket),
		seats:   make(map[string]models.Seat, len(seats)),
	}
	for _, seat := range seats {
		if seat.ID == "" {
			seat.ID = uuid.NewString()
		}
		s.seats[seat.SeatNumber] = seat
	}
	return s
}

func (s *MemoryStore) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	return &t, nil
}

func (s *MemoryStore) GetTicketByCode(ctx context.Context, code string) (*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tickets {
		if t.TicketID == code {
			return &t, nil
		}
	}
	return nil, ErrTicketNotFound
}

func (s *MemoryStore) GetTicketByQRPayload(ctx context.Context, payload string) (*models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tickets {
		if t.QRCode == payload {
			return &t, nil
		}
	}
	return nil, ErrTicketNotFound
}

func (s *MemoryStore) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tickets := make([]models.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func (s *MemoryStore) CreateTicket(ctx context.Context, draft TicketDraft) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tickets {
		if existing.TicketID == draft.TicketID {
			return nil, ErrDuplicateTicket
		}
	}

	t := newTicketFromDraft(draft)
	s.tickets[t.ID] = t
	return &t, nil
}

func (s *MemoryStore) UpdateTicket(ctx context.Context, id string, upd TicketUpdate) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	t = mergeTicket(t, upd)
	s.tickets[id] = t
	return &t, nil
}

func (s *MemoryStore) ListSeats(ctx context.Context) ([]models.Seat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seats := make([]models.Seat, 0, len(s.seats))
	for _, seat := range s.seats {
		seats = append(seats, seat)
	}
	return seats, nil
}

func (s *MemoryStore) GetSeat(ctx context.Context, seatNumber string) (*models.Seat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seat, ok := s.seats[seatNumber]
	if !ok {
		return nil, ErrSeatNotFound
	}
	return &seat, nil
}

func (s *MemoryStore) UpdateSeat(ctx context.Context, seatNumber string, upd SeatUpdate) (*models.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seat, ok := s.seats[seatNumber]
	if !ok {
		return nil, ErrSeatNotFound
	}
	seat = mergeSeat(seat, upd)
	s.seats[seatNumber] = seat
	return &seat, nil
}

func (s *MemoryStore) GetStats(ctx context.Context) (*models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tickets := make([]models.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		tickets = append(tickets, t)
	}
	seats := make([]models.Seat, 0, len(s.seats))
	for _, seat := range s.seats {
		seats = append(seats, seat)
	}
	return computeStats(tickets, seats), nil
}

func newTicketFromDraft(draft TicketDraft) models.Ticket {
	status := draft.Status
	if status == "" {
		status = models.TicketStatusPending
	}
	t := models.Ticket{
		ID:           uuid.NewString(),
		TicketID:     draft.TicketID,
		GuestName:    draft.GuestName,
		Email:        draft.Email,
		SeatNumber:   draft.SeatNumber,
		QRCode:       draft.QRCode,
		Status:       status,
		PurchaseDate: time.Now().UTC(),
	}
	if draft.AssignedAt != nil {
		at := *draft.AssignedAt
		t.AssignedAt = &at
	}
	return t
}
