package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"seat-ticketing/models"
	"seat-ticketing/monitoring"
	"seat-ticketing/utils"
)

const (
	ticketsSheet = "Tickets"
	seatsSheet   = "Seats"

	// Data ranges skip the header row.
	ticketsRange = ticketsSheet + "!A2:J"
	seatsRange   = seatsSheet + "!A2:F"
)

// SheetsStore implements the Store contract on top of a Google
// spreadsheet: one tab per entity, one row per record. Lookups scan all
// rows for the key column, updates overwrite the located row's full
// column range, and creation appends a row.
//
// The spreadsheet API has no transactions, so a read-modify-write against
// the same row can race. Concurrent updates to different rows are safe.
// All remote calls go through a circuit breaker so a broken upstream
// fails fast instead of stalling every claim behind it.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	breaker       *utils.CircuitBreaker
	logger        *slog.Logger
}

// NewSheetsStore connects to the spreadsheet, lazily creates the expected
// tabs and headers, and seeds the seats tab with the given seat universe
// when it is empty.
func NewSheetsStore(ctx context.Context, spreadsheetID, credentialsFile string, seed []models.Seat) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets: create service: %w", err)
	}

	s := &SheetsStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		breaker:       utils.NewCircuitBreaker("sheets"),
		logger:        slog.Default().With("backend", "sheets"),
	}
	if err := s.ensure(ctx, seed); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SheetsStore) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	_, t, err := s.findTicket(ctx, "get_ticket", 0, id)
	return t, err
}

func (s *SheetsStore) GetTicketByCode(ctx context.Context, code string) (*models.Ticket, error) {
	_, t, err := s.findTicket(ctx, "get_ticket_by_code", 1, code)
	return t, err
}

func (s *SheetsStore) GetTicketByQRPayload(ctx context.Context, payload string) (*models.Ticket, error) {
	_, t, err := s.findTicket(ctx, "get_ticket_by_qr", 5, payload)
	return t, err
}

func (s *SheetsStore) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	rows, err := s.valuesGet(ctx, "list_tickets", ticketsRange)
	if err != nil {
		return nil, err
	}
	tickets := make([]models.Ticket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, ticketFromRow(row))
	}
	return tickets, nil
}

func (s *SheetsStore) CreateTicket(ctx context.Context, draft TicketDraft) (*models.Ticket, error) {
	// Scan for an existing code before appending. Two concurrent creates
	// with the same code can still both pass; callers generate random
	// codes so the window is acceptable.
	if _, _, err := s.findTicket(ctx, "create_ticket_check", 1, draft.TicketID); err == nil {
		return nil, ErrDuplicateTicket
	} else if !errors.Is(err, ErrTicketNotFound) {
		return nil, err
	}

	t := newTicketFromDraft(draft)
	if err := s.valuesAppend(ctx, "create_ticket", ticketsRange, [][]any{ticketToRow(t)}); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SheetsStore) UpdateTicket(ctx context.Context, id string, upd TicketUpdate) (*models.Ticket, error) {
	rowIdx, existing, err := s.findTicket(ctx, "update_ticket_read", 0, id)
	if err != nil {
		return nil, err
	}

	merged := mergeTicket(*existing, upd)
	rng := fmt.Sprintf("%s!A%d:J%d", ticketsSheet, rowIdx, rowIdx)
	if err := s.valuesUpdate(ctx, "update_ticket", rng, ticketToRow(merged)); err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *SheetsStore) ListSeats(ctx context.Context) ([]models.Seat, error) {
	rows, err := s.valuesGet(ctx, "list_seats", seatsRange)
	if err != nil {
		return nil, err
	}
	seats := make([]models.Seat, 0, len(rows))
	for _, row := range rows {
		seats = append(seats, seatFromRow(row))
	}
	return seats, nil
}

func (s *SheetsStore) GetSeat(ctx context.Context, seatNumber string) (*models.Seat, error) {
	_, seat, err := s.findSeat(ctx, "get_seat", seatNumber)
	return seat, err
}

func (s *SheetsStore) UpdateSeat(ctx context.Context, seatNumber string, upd SeatUpdate) (*models.Seat, error) {
	rowIdx, existing, err := s.findSeat(ctx, "update_seat_read", seatNumber)
	if err != nil {
		return nil, err
	}

	merged := mergeSeat(*existing, upd)
	rng := fmt.Sprintf("%s!A%d:F%d", seatsSheet, rowIdx, rowIdx)
	if err := s.valuesUpdate(ctx, "update_seat", rng, seatToRow(merged)); err != nil {
		return nil, err
	}
	return &merged, nil
}

func (s *SheetsStore) GetStats(ctx context.Context) (*models.Stats, error) {
	tickets, err := s.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	seats, err := s.ListSeats(ctx)
	if err != nil {
		return nil, err
	}
	return computeStats(tickets, seats), nil
}

// findTicket scans the tickets tab for a row whose keyCol matches value
// and returns the 1-based sheet row number alongside the decoded record.
func (s *SheetsStore) findTicket(ctx context.Context, op string, keyCol int, value string) (int, *models.Ticket, error) {
	rows, err := s.valuesGet(ctx, op, ticketsRange)
	if err != nil {
		return 0, nil, err
	}
	for i, row := range rows {
		if cell(row, keyCol) == value && value != "" {
			t := ticketFromRow(row)
			return i + 2, &t, nil
		}
	}
	return 0, nil, ErrTicketNotFound
}

func (s *SheetsStore) findSeat(ctx context.Context, op, seatNumber string) (int, *models.Seat, error) {
	rows, err := s.valuesGet(ctx, op, seatsRange)
	if err != nil {
		return 0, nil, err
	}
	for i, row := range rows {
		if cell(row, 1) == seatNumber && seatNumber != "" {
			seat := seatFromRow(row)
			return i + 2, &seat, nil
		}
	}
	return 0, nil, ErrSeatNotFound
}

// ensure creates missing tabs, writes headers on empty tabs, and seeds
// the seats tab when it holds no data rows.
func (s *SheetsStore) ensure(ctx context.Context, seed []models.Seat) error {
	res, err := s.breaker.Execute(ctx, func() (any, error) {
		return s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	})
	if err != nil {
		return fmt.Errorf("sheets: open spreadsheet: %w", err)
	}
	spreadsheet := res.(*sheets.Spreadsheet)

	existing := make(map[string]bool)
	for _, sh := range spreadsheet.Sheets {
		existing[sh.Properties.Title] = true
	}

	var requests []*sheets.Request
	for _, title := range []string{ticketsSheet, seatsSheet} {
		if !existing[title] {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: title},
				},
			})
		}
	}
	if len(requests) > 0 {
		_, err := s.breaker.Execute(ctx, func() (any, error) {
			return s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
				Requests: requests,
			}).Context(ctx).Do()
		})
		if err != nil {
			return fmt.Errorf("sheets: add tabs: %w", err)
		}
		s.logger.Info("created missing tabs", "count", len(requests))
	}

	if err := s.ensureHeader(ctx, ticketsSheet+"!A1:J1", ticketHeader); err != nil {
		return err
	}
	if err := s.ensureHeader(ctx, seatsSheet+"!A1:F1", seatHeader); err != nil {
		return err
	}

	seats, err := s.valuesGet(ctx, "seed_check", seatsRange)
	if err != nil {
		return err
	}
	if len(seats) == 0 && len(seed) > 0 {
		rows := make([][]any, 0, len(seed))
		for _, seat := range seed {
			if seat.ID == "" {
				seat.ID = uuid.NewString()
			}
			rows = append(rows, seatToRow(seat))
		}
		if err := s.valuesAppend(ctx, "seed_seats", seatsRange, rows); err != nil {
			return err
		}
		s.logger.Info("seeded seats tab", "seats", len(rows))
	}
	return nil
}

func (s *SheetsStore) ensureHeader(ctx context.Context, rng string, header []any) error {
	rows, err := s.valuesGet(ctx, "header_check", rng)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return nil
	}
	return s.valuesUpdate(ctx, "write_header", rng, header)
}

func (s *SheetsStore) valuesGet(ctx context.Context, op, rng string) ([][]any, error) {
	start := time.Now()
	res, err := s.breaker.Execute(ctx, func() (any, error) {
		return s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	})
	monitoring.ObserveStoreOp("sheets", op, time.Since(start))
	if err != nil {
		s.logger.Error("read failed", "op", op, "err", err)
		return nil, fmt.Errorf("sheets: %s: %w", op, err)
	}
	return res.(*sheets.ValueRange).Values, nil
}

func (s *SheetsStore) valuesUpdate(ctx context.Context, op, rng string, row []any) error {
	start := time.Now()
	_, err := s.breaker.Execute(ctx, func() (any, error) {
		return s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, &sheets.ValueRange{
			Values: [][]any{row},
		}).ValueInputOption("RAW").Context(ctx).Do()
	})
	monitoring.ObserveStoreOp("sheets", op, time.Since(start))
	if err != nil {
		s.logger.Error("write failed", "op", op, "err", err)
		return fmt.Errorf("sheets: %s: %w", op, err)
	}
	return nil
}

func (s *SheetsStore) valuesAppend(ctx context.Context, op, rng string, rows [][]any) error {
	start := time.Now()
	_, err := s.breaker.Execute(ctx, func() (any, error) {
		return s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rng, &sheets.ValueRange{
			Values: rows,
		}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	})
	monitoring.ObserveStoreOp("sheets", op, time.Since(start))
	if err != nil {
		s.logger.Error("append failed", "op", op, "err", err)
		return fmt.Errorf("sheets: %s: %w", op, err)
	}
	return nil
}
