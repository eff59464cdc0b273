package store

import (
	"fmt"
	"strconv"
	"time"

	"seat-ticketing/models"
)

// Column layouts for the two tabs. Order here is the order on the sheet;
// changing it is a breaking change for existing spreadsheets.
var (
	ticketHeader = []any{"id", "ticketId", "guestName", "email", "seatNumber", "qrCode", "status", "purchaseDate", "assignedAt", "checkedInAt"}
	seatHeader   = []any{"id", "seatNumber", "row", "seatIndex", "isOccupied", "ticketId"}
)

func ticketToRow(t models.Ticket) []any {
	return []any{
		t.ID,
		t.TicketID,
		t.GuestName,
		t.Email,
		t.SeatNumber,
		t.QRCode,
		t.Status,
		formatSheetTime(&t.PurchaseDate),
		formatSheetTime(t.AssignedAt),
		formatSheetTime(t.CheckedInAt),
	}
}

func ticketFromRow(row []any) models.Ticket {
	t := models.Ticket{
		ID:         cell(row, 0),
		TicketID:   cell(row, 1),
		GuestName:  cell(row, 2),
		Email:      cell(row, 3),
		SeatNumber: cell(row, 4),
		QRCode:     cell(row, 5),
		Status:     cell(row, 6),
	}
	if at := parseSheetTime(cell(row, 7)); at != nil {
		t.PurchaseDate = *at
	}
	t.AssignedAt = parseSheetTime(cell(row, 8))
	t.CheckedInAt = parseSheetTime(cell(row, 9))
	return t
}

func seatToRow(s models.Seat) []any {
	return []any{
		s.ID,
		s.SeatNumber,
		s.Row,
		strconv.Itoa(s.SeatIndex),
		strconv.FormatBool(s.IsOccupied),
		s.TicketID,
	}
}

func seatFromRow(row []any) models.Seat {
	index, _ := strconv.Atoi(cell(row, 3))
	occupied, _ := strconv.ParseBool(cell(row, 4))
	return models.Seat{
		ID:         cell(row, 0),
		SeatNumber: cell(row, 1),
		Row:        cell(row, 2),
		SeatIndex:  index,
		IsOccupied: occupied,
		TicketID:   cell(row, 5),
	}
}

// cell reads one column defensively: short rows read as empty, and the
// API may hand back numbers or booleans for cells a human edited.
func cell(row []any, idx int) string {
	if idx >= len(row) {
		return ""
	}
	switch v := row[idx].(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func formatSheetTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseSheetTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
