package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intraday-signal-lab/internal/domain"
)

func TestRoundToTick(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		tick  float64
		want  float64
	}{
		{"on grid", 96.95, 0.05, 96.95},
		{"rounds up", 96.93, 0.05, 96.95},
		{"rounds down", 96.92, 0.05, 96.90},
		{"whole tick", 103.0, 0.05, 103.0},
		{"coarse tick", 101.3, 0.25, 101.25},
		{"zero tick passthrough", 101.333, 0, 101.333},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundToTick(tt.price, tt.tick), 1e-9)
		})
	}
}

func TestInitialStopLoss(t *testing.T) {
	// Long: 5% below entry.
	assert.InDelta(t, 95.0, InitialStopLoss(100, domain.DirectionLong, 5, 0.05), 1e-9)
	// Short: 5% above entry.
	assert.InDelta(t, 105.0, InitialStopLoss(100, domain.DirectionShort, 5, 0.05), 1e-9)
	// Result lands on the tick grid.
	assert.InDelta(t, 94.30, InitialStopLoss(99.27, domain.DirectionLong, 5, 0.05), 1e-9)
}

func TestSessionOpenEpoch(t *testing.T) {
	epoch, err := SessionOpenEpoch("2023-12-01", time.UTC)
	require.NoError(t, err)

	want := time.Date(2023, 12, 1, 9, 15, 0, 0, time.UTC).Unix()
	assert.Equal(t, want, epoch)

	_, err = SessionOpenEpoch("not-a-date", time.UTC)
	assert.Error(t, err)
}

func longTrade() *domain.Trade {
	return &domain.Trade{
		Direction:  domain.DirectionLong,
		EntryPrice: 100,
		BodSL:      95, // 5% stop
		SL:         95,
		TrailSL:    1.5,
		Tick:       0.05,
	}
}

func TestTrailingStopLoss_Long(t *testing.T) {
	tr := longTrade()

	// High 101: |101-95| = 6 within the 6.5% band of 101 -> no update.
	assert.Equal(t, 0.0, TrailingStopLoss(tr, 99, 101))

	// High 102: |102-95| = 7 beyond 102*0.065 -> re-anchor 5% below 102.
	got := TrailingStopLoss(tr, 99, 102)
	assert.InDelta(t, 96.90, got, 1e-9)

	// After the stop moved up, the same extreme no longer clears the band.
	tr.SL = got
	assert.Equal(t, 0.0, TrailingStopLoss(tr, 99, 102))
}

func TestTrailingStopLoss_Short(t *testing.T) {
	tr := &domain.Trade{
		Direction:  domain.DirectionShort,
		EntryPrice: 100,
		BodSL:      105,
		SL:         105,
		TrailSL:    1.5,
		Tick:       0.05,
	}

	// Low 97: |97-105| = 8 beyond 97*0.065 -> re-anchor 5% above 97.
	got := TrailingStopLoss(tr, 97, 99)
	assert.InDelta(t, 101.85, got, 1e-9)

	// Low 100 against SL 105: gap 5 within band -> no update.
	tr.SL = 105
	assert.Equal(t, 0.0, TrailingStopLoss(tr, 100, 102))
}

func TestTrailingStopLoss_ZeroEntry(t *testing.T) {
	tr := &domain.Trade{Direction: domain.DirectionLong}
	assert.Equal(t, 0.0, TrailingStopLoss(tr, 10, 12))
}
