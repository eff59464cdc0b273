package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seat-ticketing/models"
	"seat-ticketing/services"
	"seat-ticketing/store"
	"seat-ticketing/venue"
)

func newTestServer(t *testing.T) (*echo.Echo, store.Store) {
	t.Helper()
	cfg := venue.Config{Rows: venue.RowLabels(2), SeatsPerRow: 3}
	st := store.NewMemoryStore(cfg.Generate())

	ticketSvc := services.NewTicketService(st, nil, nil)
	seatSvc := services.NewSeatService(st, nil, nil)
	importSvc := services.NewImportService(st, cfg, nil, nil)

	e := echo.New()
	RegisterRoutes(e,
		NewTicketHandler(ticketSvc),
		NewSeatHandler(seatSvc),
		NewImportHandler(importSvc),
		NewAdminHandler(ticketSvc, store.BackendMemory),
	)
	return e, st
}

func doJSON(t *testing.T, e *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateAndGetTicket(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/tickets", map[string]string{
		"guestName": "Ada Lovelace",
		"email":     "ada@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[models.Ticket](t, rec)
	assert.Equal(t, models.TicketStatusPending, created.Status)
	assert.NotEmpty(t, created.TicketID)

	rec = doJSON(t, e, http.MethodGet, "/api/tickets/"+created.TicketID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody[models.Ticket](t, rec)
	assert.Equal(t, created.ID, fetched.ID)

	rec = doJSON(t, e, http.MethodGet, "/api/tickets/TKT-MISSING", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTicket_Invalid(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/tickets", map[string]string{
		"guestName": "Ada",
		"email":     "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetTicketQR_PNG(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/api/tickets", map[string]string{
		"guestName": "Ada", "email": "ada@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[models.Ticket](t, rec)

	rec = doJSON(t, e, http.MethodGet, "/api/tickets/"+created.TicketID+"/qr", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestClaimSeatEndpoint(t *testing.T) {
	e, st := newTestServer(t)
	ctx := context.Background()

	ticket, err := st.CreateTicket(ctx, store.TicketDraft{
		TicketID: "TKT-A", GuestName: "A", Email: "a@example.com",
	})
	require.NoError(t, err)

	rec := doJSON(t, e, http.MethodPost, "/api/seats/claim", map[string]string{
		"ticket_id": "TKT-A", "seat_number": "A-01",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decodeBody[services.ClaimResult](t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "A-01", res.Ticket.SeatNumber)

	// Same seat again conflicts.
	_, err = st.CreateTicket(ctx, store.TicketDraft{
		TicketID: "TKT-B", GuestName: "B", Email: "b@example.com",
	})
	require.NoError(t, err)
	rec = doJSON(t, e, http.MethodPost, "/api/seats/claim", map[string]string{
		"ticket_id": "TKT-B", "seat_number": "A-01",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	res = decodeBody[services.ClaimResult](t, rec)
	assert.Equal(t, services.ReasonSeatTaken, res.Reason)

	// The winning ticket cannot claim a second seat.
	rec = doJSON(t, e, http.MethodPost, "/api/seats/claim", map[string]string{
		"ticket_id": ticket.TicketID, "seat_number": "A-02",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Unknowns are 404, blanks are 400.
	rec = doJSON(t, e, http.MethodPost, "/api/seats/claim", map[string]string{
		"ticket_id": "TKT-NOPE", "seat_number": "A-02",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, e, http.MethodPost, "/api/seats/claim", map[string]string{
		"ticket_id": "TKT-B",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSeats(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(t, e, http.MethodGet, "/api/seats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]json.RawMessage](t, rec)
	var total, available int
	require.NoError(t, json.Unmarshal(body["total_seats"], &total))
	require.NoError(t, json.Unmarshal(body["available_seats"], &available))
	assert.Equal(t, 6, total)
	assert.Equal(t, 6, available)

	rec = doJSON(t, e, http.MethodGet, "/api/seats/B-02", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, e, http.MethodGet, "/api/seats/Z-99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckInFlow(t *testing.T) {
	e, st := newTestServer(t)

	_, err := st.CreateTicket(context.Background(), store.TicketDraft{
		TicketID: "TKT-A", GuestName: "A", Email: "a@example.com",
	})
	require.NoError(t, err)

	// Not assigned yet.
	rec := doJSON(t, e, http.MethodPost, "/api/tickets/TKT-A/checkin", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	doJSON(t, e, http.MethodPost, "/api/seats/claim", map[string]string{
		"ticket_id": "TKT-A", "seat_number": "A-01",
	})

	rec = doJSON(t, e, http.MethodPost, "/api/tickets/TKT-A/checkin", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/tickets/TKT-A/checkin", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/tickets/TKT-NOPE/checkin", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImportEndpoint(t *testing.T) {
	e, _ := newTestServer(t)

	rows := []map[string]string{
		{"guest_name": "Ada", "email": "ada@example.com", "seat_number": "A-01"},
		{"guest_name": "Bad", "email": "nope"},
		{"guest_name": "Grace", "email": "grace@example.com"},
	}
	rec := doJSON(t, e, http.MethodPost, "/api/import", map[string]any{"rows": rows})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	report := decodeBody[models.ImportReport](t, rec)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.SeatsAssigned)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 4, report.Errors[0].Row)

	rec = doJSON(t, e, http.MethodPost, "/api/import", map[string]any{"rows": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportCSVEndpoint(t *testing.T) {
	e, st := newTestServer(t)

	csvBody := strings.Join([]string{
		"Guest Name,Email,Seat Number",
		"Ada Lovelace,ada@example.com,A-01",
		"Grace Hopper,grace@example.com,",
		"Broken Row,not-an-email,",
	}, "\n")

	req := httptest.NewRequest(http.MethodPost, "/api/import/csv", strings.NewReader(csvBody))
	req.Header.Set(echo.HeaderContentType, "text/csv")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	report := decodeBody[models.ImportReport](t, rec)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.SeatsAssigned)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 5, report.Errors[0].Row)

	seat, err := st.GetSeat(context.Background(), "A-01")
	require.NoError(t, err)
	assert.True(t, seat.IsOccupied)
}

func TestImportCSV_MissingHeader(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/import/csv", strings.NewReader("foo,bar\n1,2\n"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkAssignEndpoint(t *testing.T) {
	e, st := newTestServer(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := st.CreateTicket(ctx, store.TicketDraft{
			TicketID: fmt.Sprintf("TKT-%d", i), GuestName: "G", Email: "g@example.com",
		})
		require.NoError(t, err)
	}

	rec := doJSON(t, e, http.MethodPost, "/api/import/assign", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]int](t, rec)
	assert.Equal(t, 3, body["seats_assigned"])
}

func TestStatsAndHealth(t *testing.T) {
	e, st := newTestServer(t)

	_, err := st.CreateTicket(context.Background(), store.TicketDraft{
		TicketID: "TKT-A", GuestName: "A", Email: "a@example.com", QRCode: "qr",
	})
	require.NoError(t, err)

	rec := doJSON(t, e, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[models.Stats](t, rec)
	assert.Equal(t, 1, stats.TotalTickets)

	rec = doJSON(t, e, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "memory", health["backend"])
}
