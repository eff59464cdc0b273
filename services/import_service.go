package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"seat-ticketing/models"
	"seat-ticketing/monitoring"
	"seat-ticketing/store"
	"seat-ticketing/utils"
	"seat-ticketing/venue"
)

// Rejected rows are reported with a two-row header offset on top of their
// 1-based data position: data row 1 is reported as row 3.
const importRowOffset = 2

// ImportService ingests guest lists in bulk. Each row is processed in
// isolation: a bad row is recorded in the report and never aborts the
// batch. Bulk writes go straight to the store without taking per-seat
// locks; imports are an operator action that runs before claims open.
type ImportService struct {
	store    store.Store
	layout   venue.Config
	cache    *Cache
	notifier *Notifier
	validate *validator.Validate
	logger   *slog.Logger
}

func NewImportService(st store.Store, layout venue.Config, cache *Cache, notifier *Notifier) *ImportService {
	return &ImportService{
		store:    st,
		layout:   layout,
		cache:    cache,
		notifier: notifier,
		validate: validator.New(),
		logger:   slog.Default().With("service", "import"),
	}
}

// ImportRows processes a parsed guest list. Rows may optionally carry a
// seat number; those tickets are created already assigned and the seat is
// marked occupied. The report lists every rejected row with its
// spreadsheet row number and the reason.
func (s *ImportService) ImportRows(ctx context.Context, rows []models.ImportRow) models.ImportReport {
	report := models.ImportReport{Errors: []models.ImportRowError{}}

	for i, row := range rows {
		rowNum := i + 1 + importRowOffset
		if err := s.importRow(ctx, row); err != nil {
			monitoring.TrackImportRow("rejected")
			report.Errors = append(report.Errors, models.ImportRowError{
				Row:   rowNum,
				Error: err.Error(),
				Data:  row,
			})
			s.logger.Warn("import row rejected", "row", rowNum, "err", err)
			continue
		}
		monitoring.TrackImportRow("imported")
		report.Imported++
		if row.SeatNumber != "" {
			report.SeatsAssigned++
		}
	}

	if report.Imported > 0 {
		s.cache.Invalidate(ctx)
		s.notifier.SeatsImported(report.Imported, report.SeatsAssigned)
	}
	s.logger.Info("import finished",
		"rows", len(rows), "imported", report.Imported,
		"seats_assigned", report.SeatsAssigned, "rejected", len(report.Errors))
	return report
}

func (s *ImportService) importRow(ctx context.Context, row models.ImportRow) error {
	row.GuestName = strings.TrimSpace(row.GuestName)
	row.Email = strings.ToLower(strings.TrimSpace(row.Email))
	row.SeatNumber = strings.TrimSpace(row.SeatNumber)

	if err := s.validate.Struct(row); err != nil {
		return describeRowValidation(err)
	}

	code, err := utils.NewTicketCode()
	if err != nil {
		return fmt.Errorf("generate ticket code: %w", err)
	}
	draft := store.TicketDraft{
		TicketID:  code,
		GuestName: row.GuestName,
		Email:     row.Email,
		QRCode:    utils.EncodeTicketPayload(code),
	}

	if row.SeatNumber != "" {
		if !s.layout.ValidateSeatNumber(row.SeatNumber) {
			return fmt.Errorf("seat %q does not exist in this venue", row.SeatNumber)
		}
		if err := s.occupySeat(ctx, row.SeatNumber, draft.TicketID); err != nil {
			return err
		}

		now := time.Now().UTC()
		draft.SeatNumber = row.SeatNumber
		draft.Status = models.TicketStatusAssigned
		draft.AssignedAt = &now
	}

	if _, err := s.store.CreateTicket(ctx, draft); err != nil {
		if draft.SeatNumber != "" {
			// Free the seat again so a failed row leaves no trace.
			s.releaseSeat(ctx, draft.SeatNumber)
		}
		if errors.Is(err, store.ErrDuplicateTicket) {
			return fmt.Errorf("ticket code %s already exists", draft.TicketID)
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	monitoring.TrackTicketCreated()
	return nil
}

func (s *ImportService) occupySeat(ctx context.Context, seatNumber, ticketCode string) error {
	seat, err := s.store.GetSeat(ctx, seatNumber)
	if errors.Is(err, store.ErrSeatNotFound) {
		return fmt.Errorf("seat %q does not exist in this venue", seatNumber)
	}
	if err != nil {
		return fmt.Errorf("read seat %s: %w", seatNumber, err)
	}
	if seat.IsOccupied {
		return fmt.Errorf("seat %s is already occupied", seatNumber)
	}

	occupied := true
	if _, err := s.store.UpdateSeat(ctx, seatNumber, store.SeatUpdate{
		IsOccupied: &occupied,
		TicketID:   &ticketCode,
	}); err != nil {
		return fmt.Errorf("occupy seat %s: %w", seatNumber, err)
	}
	return nil
}

func (s *ImportService) releaseSeat(ctx context.Context, seatNumber string) {
	free := false
	empty := ""
	if _, err := s.store.UpdateSeat(ctx, seatNumber, store.SeatUpdate{
		IsOccupied: &free,
		TicketID:   &empty,
	}); err != nil {
		s.logger.Error("import: seat release failed", "seat", seatNumber, "err", err)
	}
}

// BulkAssign pairs every pending ticket with a free seat, in seat order.
// Like row import it writes straight to the store; run it while claims
// are closed.
func (s *ImportService) BulkAssign(ctx context.Context) (int, error) {
	tickets, err := s.store.ListTickets(ctx)
	if err != nil {
		return 0, err
	}
	seats, err := s.store.ListSeats(ctx)
	if err != nil {
		return 0, err
	}

	var pending []models.Ticket
	for _, t := range tickets {
		if t.Status == models.TicketStatusPending && t.SeatNumber == "" {
			pending = append(pending, t)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].TicketID < pending[j].TicketID })

	var free []models.Seat
	for _, seat := range seats {
		if !seat.IsOccupied {
			free = append(free, seat)
		}
	}
	sort.Slice(free, func(i, j int) bool { return free[i].SeatNumber < free[j].SeatNumber })

	assigned := 0
	for i := 0; i < len(pending) && i < len(free); i++ {
		ticket, seat := pending[i], free[i]

		if err := s.occupySeat(ctx, seat.SeatNumber, ticket.TicketID); err != nil {
			s.logger.Error("bulk assign: seat write failed", "seat", seat.SeatNumber, "err", err)
			continue
		}

		now := time.Now().UTC()
		status := models.TicketStatusAssigned
		if _, err := s.store.UpdateTicket(ctx, ticket.ID, store.TicketUpdate{
			SeatNumber: &seat.SeatNumber,
			Status:     &status,
			AssignedAt: &now,
		}); err != nil {
			s.logger.Error("bulk assign: ticket write failed", "ticket", ticket.TicketID, "err", err)
			s.releaseSeat(ctx, seat.SeatNumber)
			continue
		}
		assigned++
	}

	if assigned > 0 {
		s.cache.Invalidate(ctx)
		s.notifier.SeatsImported(0, assigned)
	}
	return assigned, nil
}

// describeRowValidation flattens validator output into one line an
// operator can act on.
func describeRowValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fieldLabel(fe.Field())))
		case "email":
			parts = append(parts, fmt.Sprintf("%q is not a valid email", fe.Value()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fieldLabel(fe.Field())))
		}
	}
	return errors.New(strings.Join(parts, "; "))
}

func fieldLabel(field string) string {
	switch field {
	case "GuestName":
		return "guestName"
	case "Email":
		return "email"
	case "SeatNumber":
		return "seatNumber"
	}
	return field
}
