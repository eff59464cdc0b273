package utils

import (
	"encoding/base64"
	"encoding/json"

	"github.com/skip2/go-qrcode"
)

type qrPayload struct {
	TicketID string `json:"ticket_id"`
}

// EncodeTicketPayload builds the opaque QR payload stored on a ticket.
// The payload is what a scanner posts back at check-in, so it has to be
// stable for the life of the ticket.
func EncodeTicketPayload(ticketCode string) string {
	data, _ := json.Marshal(qrPayload{TicketID: ticketCode})
	return base64.URLEncoding.EncodeToString(data)
}

// RenderQRCodePNG renders a payload as a PNG image of the given pixel size.
func RenderQRCodePNG(content string, size int) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, size)
}
