package handlers

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"

	"seat-ticketing/models"
	"seat-ticketing/services"
)

type ImportHandler struct {
	importer *services.ImportService
}

func NewImportHandler(importer *services.ImportService) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// ImportGuests - POST /api/import
//
// Accepts {"rows": [...]} with already-structured rows. The response is
// always a full report; bad rows never fail the request.
func (h *ImportHandler) ImportGuests(c echo.Context) error {
	var req struct {
		Rows []models.ImportRow `json:"rows"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if len(req.Rows) == 0 {
		return c.JSON(http.StatusBadRequest, errorBody("rows is empty"))
	}

	report := h.importer.ImportRows(c.Request().Context(), req.Rows)
	return c.JSON(http.StatusOK, report)
}

// ImportGuestsCSV - POST /api/import/csv
//
// Accepts a raw CSV body with a header line naming guest_name, email and
// optionally seat_number, in any column order.
func (h *ImportHandler) ImportGuestsCSV(c echo.Context) error {
	rows, err := parseGuestCSV(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}
	if len(rows) == 0 {
		return c.JSON(http.StatusBadRequest, errorBody("csv has no data rows"))
	}

	report := h.importer.ImportRows(c.Request().Context(), rows)
	return c.JSON(http.StatusOK, report)
}

// BulkAssignSeats - POST /api/import/assign
func (h *ImportHandler) BulkAssignSeats(c echo.Context) error {
	assigned, err := h.importer.BulkAssign(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("bulk assignment failed"))
	}
	return c.JSON(http.StatusOK, map[string]any{"seats_assigned": assigned})
}

func parseGuestCSV(r io.Reader) ([]models.ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.New("csv is empty or malformed")
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[normalizeHeader(name)] = i
	}
	nameIdx, ok := cols["guest_name"]
	if !ok {
		return nil, errors.New("csv header is missing guest_name")
	}
	emailIdx, ok := cols["email"]
	if !ok {
		return nil, errors.New("csv header is missing email")
	}
	seatIdx, hasSeat := cols["seat_number"]

	var rows []models.ImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.New("csv is malformed: " + err.Error())
		}

		row := models.ImportRow{
			GuestName: field(record, nameIdx),
			Email:     field(record, emailIdx),
		}
		if hasSeat {
			row.SeatNumber = field(record, seatIdx)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// normalizeHeader accepts the common spellings of each column: guest_name,
// guestName, "Guest Name".
func normalizeHeader(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	name = strings.ReplaceAll(name, " ", "_")
	switch name {
	case "guestname", "name":
		return "guest_name"
	case "seatnumber", "seat":
		return "seat_number"
	}
	return name
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
