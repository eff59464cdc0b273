package venue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowLabels(t *testing.T) {
	labels := RowLabels(28)

	assert.Equal(t, "A", labels[0])
	assert.Equal(t, "J", labels[9])
	assert.Equal(t, "Z", labels[25])
	assert.Equal(t, "AA", labels[26])
	assert.Equal(t, "AB", labels[27])
}

func TestGenerate_DefaultLayout(t *testing.T) {
	cfg := DefaultConfig()
	seats := cfg.Generate()

	require.Len(t, seats, 200)
	assert.Equal(t, "A-01", seats[0].SeatNumber)
	assert.Equal(t, "A", seats[0].Row)
	assert.Equal(t, 1, seats[0].SeatIndex)
	assert.Equal(t, "A-20", seats[19].SeatNumber)
	assert.Equal(t, "J-20", seats[199].SeatNumber)

	for _, s := range seats {
		assert.False(t, s.IsOccupied)
		assert.Empty(t, s.TicketID)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := Config{Rows: RowLabels(3), SeatsPerRow: 5}

	first := cfg.Generate()
	second := cfg.Generate()

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i])
	}
}

func TestValidateSeatNumber_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()

	// Every generated seat number must validate against the same config.
	for _, s := range cfg.Generate() {
		assert.True(t, cfg.ValidateSeatNumber(s.SeatNumber), s.SeatNumber)
	}
}

func TestValidateSeatNumber_Rejects(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no separator", "A01"},
		{"lowercase row", "a-01"},
		{"unknown row", "K-01"},
		{"unpadded index", "A-1"},
		{"index zero", "A-00"},
		{"index out of range", "A-21"},
		{"trailing separator", "A-"},
		{"leading separator", "-01"},
		{"junk digits", "A-xx"},
		{"negative index", "A--1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, cfg.ValidateSeatNumber(tt.in))
		})
	}
}

func TestValidateSeatNumber_WideLayout(t *testing.T) {
	// Three-digit seat counts keep their natural width, so the two-digit
	// padded form must still round-trip for indexes >= 100.
	cfg := Config{Rows: []string{"A"}, SeatsPerRow: 120}

	assert.True(t, cfg.ValidateSeatNumber("A-05"))
	assert.True(t, cfg.ValidateSeatNumber("A-120"))
	assert.False(t, cfg.ValidateSeatNumber("A-121"))
}
