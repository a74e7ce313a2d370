package align

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intraday-signal-lab/internal/domain"
	"intraday-signal-lab/internal/storage/memory"
)

const testInstrument = "ACME"

func epoch(day, hour, min int) int64 {
	return time.Date(2023, 12, day, hour, min, 0, 0, time.UTC).Unix()
}

func bar(ts int64, open, high, low, close float64) *domain.PriceBar {
	return &domain.PriceBar{
		Instrument: testInstrument,
		Timestamp:  ts,
		Open:       open,
		High:       high,
		Low:        low,
		Close:      close,
	}
}

// twoDayStore seeds two trading days of minute bars plus their daily bars.
func twoDayStore(t *testing.T) *memory.BarStore {
	t.Helper()
	store := memory.NewBarStore()

	ticks := []*domain.PriceBar{
		bar(epoch(1, 9, 15), 100, 101, 99, 100.5),
		bar(epoch(1, 9, 16), 100.5, 102, 100, 101),
		bar(epoch(1, 9, 17), 101, 103, 100.5, 102),
		bar(epoch(4, 9, 15), 104, 105, 103, 104.5),
		bar(epoch(4, 9, 16), 104.5, 106, 104, 105),
	}
	require.NoError(t, store.InsertTicks(context.Background(), ticks))

	daily := []*domain.PriceBar{
		bar(epoch(1, 0, 0), 100, 103, 99, 102),
		bar(epoch(4, 0, 0), 104, 106, 103, 105),
	}
	require.NoError(t, store.InsertDaily(context.Background(), daily))

	return store
}

func TestAlign_BacktestShiftAndFill(t *testing.T) {
	store := twoDayStore(t)
	a := New(store, ModeBacktest, time.UTC)

	preds := []domain.Prediction{
		{Time: epoch(1, 9, 15), Direction: domain.DirectionLong, Target: 110, StopLoss: 95, TrailSL: 1.5},
		{Time: epoch(1, 9, 16), Direction: domain.DirectionShort, Target: 90, StopLoss: 105, TrailSL: 1.5},
		{Time: epoch(1, 9, 17), Direction: domain.DirectionLong, Target: 120, StopLoss: 95, TrailSL: 1.5},
	}

	recs, err := a.Align(context.Background(), testInstrument, preds)
	require.NoError(t, err)

	// Five bars, first dropped for lack of a prior-day reference.
	require.Len(t, recs, 4)

	// Row 1's decision lands on the 09:16 bar with row 1's fields.
	first := recs[0]
	assert.Equal(t, epoch(1, 9, 16), first.Timestamp)
	require.NotNil(t, first.Signal)
	assert.Equal(t, domain.DirectionLong, first.Signal.Direction)
	assert.Equal(t, 110.0, first.Signal.Target)
	assert.True(t, first.HasSignal)
	assert.True(t, first.Valid)
	assert.Equal(t, 100.5, first.EntryPrice)

	// Row 2's decision lands on the 09:17 bar; the last raw row is dropped.
	second := recs[1]
	assert.Equal(t, epoch(1, 9, 17), second.Timestamp)
	require.NotNil(t, second.Signal)
	assert.Equal(t, domain.DirectionShort, second.Signal.Direction)
	assert.Equal(t, 90.0, second.Signal.Target)
	assert.Equal(t, 101.0, second.EntryPrice)

	// Day 2 bars carry no fill from day 1.
	for _, r := range recs[2:] {
		assert.Equal(t, "2023-12-04", r.Date)
		assert.False(t, r.HasSignal)
		assert.Nil(t, r.Signal)
	}
}

func TestAlign_EndOfDayFlag(t *testing.T) {
	store := twoDayStore(t)
	a := New(store, ModeBacktest, time.UTC)

	preds := []domain.Prediction{
		{Time: epoch(1, 9, 15), Direction: domain.DirectionLong, Target: 110},
		{Time: epoch(1, 9, 16), Direction: domain.DirectionLong, Target: 110},
	}

	recs, err := a.Align(context.Background(), testInstrument, preds)
	require.NoError(t, err)
	require.Len(t, recs, 4)

	var eod []int64
	for _, r := range recs {
		if r.EndOfDay {
			eod = append(eod, r.Timestamp)
		}
	}
	assert.Equal(t, []int64{epoch(1, 9, 17), epoch(4, 9, 16)}, eod)
}

func TestAlign_BacktestPriorDayClose(t *testing.T) {
	store := twoDayStore(t)
	a := New(store, ModeBacktest, time.UTC)

	preds := []domain.Prediction{
		{Time: epoch(1, 9, 15), Direction: domain.DirectionLong, Target: 110},
		{Time: epoch(1, 9, 16), Direction: domain.DirectionLong, Target: 110},
	}

	recs, err := a.Align(context.Background(), testInstrument, preds)
	require.NoError(t, err)
	require.Len(t, recs, 4)

	for _, r := range recs {
		switch r.Date {
		case "2023-12-01":
			// First retrieved day has no prior daily close.
			assert.Equal(t, 0.0, r.DayClose)
		case "2023-12-04":
			assert.Equal(t, 102.0, r.DayClose)
		}
	}
}

func TestAlign_SameDaySingleDecision(t *testing.T) {
	store := twoDayStore(t)
	a := New(store, ModeSameDay, time.UTC)

	// A single row is a live decision used at its own time, not shifted.
	preds := []domain.Prediction{
		{Time: epoch(4, 9, 15), Direction: domain.DirectionShort, Target: 95, StopLoss: 106, TrailSL: 1.5},
	}

	recs, err := a.Align(context.Background(), testInstrument, preds)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	decision := recs[0]
	require.NotNil(t, decision.Signal)
	assert.Equal(t, epoch(4, 9, 15), decision.Timestamp)
	assert.True(t, decision.Valid) // 95 < open 104
	assert.Equal(t, 104.0, decision.EntryPrice)

	// Same-day reference close is the day's own final bar close.
	for _, r := range recs {
		assert.Equal(t, 105.0, r.DayClose)
	}

	// No leading record is dropped outside backtest mode.
	assert.Equal(t, epoch(4, 9, 15), recs[0].Timestamp)
}

func TestAlign_InvalidTarget(t *testing.T) {
	store := twoDayStore(t)
	a := New(store, ModeSameDay, time.UTC)

	// Long target at or below the decision bar open is not tradable.
	preds := []domain.Prediction{
		{Time: epoch(1, 9, 16), Direction: domain.DirectionLong, Target: 100.5},
	}

	recs, err := a.Align(context.Background(), testInstrument, preds)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	for _, r := range recs {
		if r.HasSignal {
			assert.False(t, r.Valid)
		}
	}
}

func TestAlign_Empty(t *testing.T) {
	store := memory.NewBarStore()
	a := New(store, ModeBacktest, time.UTC)

	recs, err := a.Align(context.Background(), testInstrument, nil)
	require.NoError(t, err)
	assert.Empty(t, recs)

	// Decisions but no bar data.
	recs, err = a.Align(context.Background(), testInstrument, []domain.Prediction{
		{Time: epoch(1, 9, 15), Direction: domain.DirectionLong, Target: 110},
		{Time: epoch(1, 9, 16), Direction: domain.DirectionLong, Target: 110},
	})
	require.NoError(t, err)
	assert.Empty(t, recs)

	// All decision times unresolvable.
	recs, err = a.Align(context.Background(), testInstrument, []domain.Prediction{
		{Time: 0, Direction: domain.DirectionLong, Target: 110},
	})
	require.NoError(t, err)
	assert.Empty(t, recs)
}
