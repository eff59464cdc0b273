package models

// ImportRow is one already-parsed record from a bulk upload. SeatNumber is
// optional; when present the seat is pre-assigned during import.
type ImportRow struct {
	GuestName  string `json:"guest_name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	SeatNumber string `json:"seat_number,omitempty"`
}

// ImportRowError reports a single rejected row. Row is the 1-based data
// position plus a two-row header offset (data row i reports as i+2), so
// consumers can point back at the exact line.
type ImportRowError struct {
	Row   int       `json:"row"`
	Error string    `json:"error"`
	Data  ImportRow `json:"data"`
}

// ImportReport summarizes a bulk import. A report is always complete: a
// batch where every row failed still yields Imported=0 plus one error entry
// per row, never a request-level failure.
type ImportReport struct {
	Imported      int              `json:"imported"`
	SeatsAssigned int              `json:"seats_assigned"`
	Errors        []ImportRowError `json:"errors"`
}
