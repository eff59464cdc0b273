// Package venue generates the seat universe for a venue configuration and
// validates externally supplied seat numbers against it.
package venue

import (
	"fmt"
	"strconv"
	"strings"

	"seat-ticketing/models"
)

// Config describes a venue layout: the ordered row labels and how many
// seats each row holds. Seat numbers are formatted as "<ROW>-<NN>" with a
// two-digit, 1-based index (A-01 .. A-20).
type Config struct {
	Rows        []string
	SeatsPerRow int
}

// DefaultConfig is the stock 10x20 layout, seats A-01 through J-20.
func DefaultConfig() Config {
	return Config{Rows: RowLabels(10), SeatsPerRow: 20}
}

// RowLabels returns the first n row labels: A..Z, then AA, AB, and so on.
func RowLabels(n int) []string {
	labels := make([]string, 0, n)
	for i := 0; i < n; i++ {
		labels = append(labels, rowLabel(i))
	}
	return labels
}

func rowLabel(i int) string {
	label := ""
	for {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
		if i < 0 {
			return label
		}
	}
}

// FormatSeatNumber maps a row label and 1-based seat index to the seat
// number string the generator produces for it.
func (c Config) FormatSeatNumber(row string, index int) string {
	return fmt.Sprintf("%s-%02d", row, index)
}

// Generate produces the full ordered seat sequence for the configuration,
// every seat unoccupied. The output is deterministic: the same Config
// always yields an identical sequence, which is what makes it usable both
// for store seeding and for validating externally supplied seat numbers.
// Record IDs are left empty; the store assigns them when seeding.
func (c Config) Generate() []models.Seat {
	seats := make([]models.Seat, 0, len(c.Rows)*c.SeatsPerRow)
	for _, row := range c.Rows {
		for i := 1; i <= c.SeatsPerRow; i++ {
			seats = append(seats, models.Seat{
				SeatNumber: c.FormatSeatNumber(row, i),
				Row:        row,
				SeatIndex:  i,
			})
		}
	}
	return seats
}

// ValidateSeatNumber reports whether s could have been produced by
// Generate for this configuration. It round-trips through FormatSeatNumber
// so the check can never drift from the generator.
func (c Config) ValidateSeatNumber(s string) bool {
	idx := strings.LastIndex(s, "-")
	if idx <= 0 || idx == len(s)-1 {
		return false
	}
	row, digits := s[:idx], s[idx+1:]

	found := false
	for _, r := range c.Rows {
		if r == row {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > c.SeatsPerRow {
		return false
	}
	return c.FormatSeatNumber(row, n) == s
}
