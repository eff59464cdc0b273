package services

import (
	"log/slog"

	pubnub "github.com/pubnub/go/v7"
)

// Notifier pushes seat and ticket events to a PubNub channel so seating
// dashboards update live. A nil *Notifier is valid and drops all events;
// NewNotifier returns nil when no keys are configured.
type Notifier struct {
	pn      *pubnub.PubNub
	channel string
}

func NewNotifier(publishKey, subscribeKey, channel string) *Notifier {
	if publishKey == "" || subscribeKey == "" {
		return nil
	}

	cfg := pubnub.NewConfigWithUserId(pubnub.UserId("seat-ticketing-server"))
	cfg.PublishKey = publishKey
	cfg.SubscribeKey = subscribeKey

	return &Notifier{pn: pubnub.NewPubNub(cfg), channel: channel}
}

func (n *Notifier) SeatClaimed(seatNumber, ticketCode string) {
	n.publish(map[string]any{
		"type":        "seat.claimed",
		"seat_number": seatNumber,
		"ticket_id":   ticketCode,
	})
}

func (n *Notifier) TicketCheckedIn(ticketCode, seatNumber string) {
	n.publish(map[string]any{
		"type":        "ticket.checked_in",
		"ticket_id":   ticketCode,
		"seat_number": seatNumber,
	})
}

func (n *Notifier) SeatsImported(imported, seatsAssigned int) {
	n.publish(map[string]any{
		"type":           "import.completed",
		"imported":       imported,
		"seats_assigned": seatsAssigned,
	})
}

// publish fires and forgets; a realtime event is never worth failing the
// operation that produced it.
func (n *Notifier) publish(message map[string]any) {
	if n == nil {
		return
	}
	go func() {
		_, _, err := n.pn.Publish().
			Channel(n.channel).
			Message(message).
			Execute()
		if err != nil {
			slog.Warn("realtime publish failed", "type", message["type"], "err", err)
		}
	}()
}
