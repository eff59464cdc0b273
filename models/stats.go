package models

// Stats is a derived aggregate computed by scanning current store state.
// There are deliberately no incremental counters behind these numbers.
type Stats struct {
	TotalTickets  int `json:"total_tickets"`
	AssignedSeats int `json:"assigned_seats"`
	ScannedCodes  int `json:"scanned_codes"`
	CheckedIn     int `json:"checked_in"`
}
