package store

import (
	"context"
	"fmt"

	"seat-ticketing/models"
)

const (
	BackendMemory = "memory"
	BackendSheets = "sheets"
)

// Options selects and configures a backend. SpreadsheetID and
// CredentialsFile only matter for the sheets backend.
type Options struct {
	Backend         string
	SpreadsheetID   string
	CredentialsFile string
}

// New creates the configured backend, seeded with the venue's seat
// universe. The memory backend seeds unconditionally; the sheets backend
// only when its seats tab is empty.
func New(ctx context.Context, opts Options, seed []models.Seat) (Store, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStore(seed), nil

	case BackendSheets:
		if opts.SpreadsheetID == "" {
			return nil, fmt.Errorf("store: sheets backend requires a spreadsheet id")
		}
		return NewSheetsStore(ctx, opts.SpreadsheetID, opts.CredentialsFile, seed)

	default:
		return nil, fmt.Errorf("store: unsupported backend: %q", opts.Backend)
	}
}
