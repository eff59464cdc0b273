package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seat-ticketing/models"
	"seat-ticketing/store"
	"seat-ticketing/utils"
	"seat-ticketing/venue"
)

func newTicketFixture(t *testing.T) (store.Store, *TicketService, *SeatService) {
	t.Helper()
	cfg := venue.Config{Rows: venue.RowLabels(2), SeatsPerRow: 3}
	st := store.NewMemoryStore(cfg.Generate())
	return st, NewTicketService(st, nil, nil), NewSeatService(st, nil, nil)
}

func TestTicketCreate(t *testing.T) {
	_, svc, _ := newTicketFixture(t)

	ticket, err := svc.Create(context.Background(), CreateTicketInput{
		GuestName: "Ada Lovelace",
		Email:     "ada@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, models.TicketStatusPending, ticket.Status)
	assert.True(t, len(ticket.TicketID) > len("TKT-"))
	assert.Equal(t, utils.EncodeTicketPayload(ticket.TicketID), ticket.QRCode)
	assert.Empty(t, ticket.SeatNumber)
}

func TestTicketCreate_Invalid(t *testing.T) {
	_, svc, _ := newTicketFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateTicketInput{GuestName: "", Email: "ada@example.com"})
	assert.Error(t, err)

	_, err = svc.Create(ctx, CreateTicketInput{GuestName: "Ada", Email: "not-an-email"})
	assert.Error(t, err)
}

func TestCheckIn_Lifecycle(t *testing.T) {
	_, tickets, seatsSvc := newTicketFixture(t)
	ctx := context.Background()

	ticket, err := tickets.Create(ctx, CreateTicketInput{GuestName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	// Pending tickets cannot check in.
	res := tickets.CheckIn(ctx, ticket.TicketID)
	assert.False(t, res.Success)
	assert.Equal(t, ReasonTicketNotAssigned, res.Reason)

	require.True(t, seatsSvc.ClaimSeat(ctx, ticket.TicketID, "A-01").Success)

	res = tickets.CheckIn(ctx, ticket.TicketID)
	require.True(t, res.Success)
	assert.Equal(t, models.TicketStatusCheckedIn, res.Ticket.Status)
	require.NotNil(t, res.Ticket.CheckedInAt)

	// The transition is monotonic: no second check-in, no going back.
	res = tickets.CheckIn(ctx, ticket.TicketID)
	assert.False(t, res.Success)
	assert.Equal(t, ReasonAlreadyCheckedIn, res.Reason)
}

func TestCheckIn_UnknownTicket(t *testing.T) {
	_, tickets, _ := newTicketFixture(t)

	res := tickets.CheckIn(context.Background(), "TKT-MISSING")
	assert.False(t, res.Success)
	assert.Equal(t, ReasonTicketNotFound, res.Reason)
}

func TestCheckInByQR(t *testing.T) {
	_, tickets, seatsSvc := newTicketFixture(t)
	ctx := context.Background()

	ticket, err := tickets.Create(ctx, CreateTicketInput{GuestName: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	require.True(t, seatsSvc.ClaimSeat(ctx, ticket.TicketID, "B-02").Success)

	res := tickets.CheckInByQR(ctx, ticket.QRCode)
	require.True(t, res.Success)
	assert.Equal(t, ticket.TicketID, res.Ticket.TicketID)

	res = tickets.CheckInByQR(ctx, "bogus-payload")
	assert.Equal(t, ReasonTicketNotFound, res.Reason)
}

func TestTicketList_Sorted(t *testing.T) {
	_, tickets, _ := newTicketFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := tickets.Create(ctx, CreateTicketInput{GuestName: "G", Email: "g@example.com"})
		require.NoError(t, err)
	}

	all, err := tickets.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].TicketID, all[i].TicketID)
	}
}

func TestStats(t *testing.T) {
	_, tickets, seatsSvc := newTicketFixture(t)
	ctx := context.Background()

	a, err := tickets.Create(ctx, CreateTicketInput{GuestName: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = tickets.Create(ctx, CreateTicketInput{GuestName: "B", Email: "b@example.com"})
	require.NoError(t, err)

	require.True(t, seatsSvc.ClaimSeat(ctx, a.TicketID, "A-01").Success)
	require.True(t, tickets.CheckIn(ctx, a.TicketID).Success)

	stats, err := tickets.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalTickets)
	assert.Equal(t, 1, stats.AssignedSeats)
	assert.Equal(t, 2, stats.ScannedCodes)
	assert.Equal(t, 1, stats.CheckedIn)
}
