// Package stats reduces one unit's simulated trades into per-direction
// performance numbers.
package stats

import (
	"math"

	"intraday-signal-lab/internal/domain"
)

// DefaultAvgCost stands in for the mean entry price when a direction has no
// trades, so downstream percentage math never divides by zero.
const DefaultAvgCost = 0.01

// Compute reduces trades for one (instrument, strategy) pair into a stats
// record. It is a pure function of its input.
func Compute(instrument, strategy string, trades []*domain.Trade) *domain.StatsRecord {
	rec := &domain.StatsRecord{
		Instrument: instrument,
		Strategy:   strategy,
		Trades:     len(trades),
	}

	var long, short []*domain.Trade
	validTotal := 0
	for _, t := range trades {
		if t.Direction == domain.DirectionLong {
			long = append(long, t)
		} else {
			short = append(short, t)
		}
		if t.Status != domain.StatusInvalid {
			validTotal++
		}
	}

	if rec.Trades > 0 {
		rec.EntryPct = float64(validTotal) * 100 / float64(rec.Trades)
	}

	rec.Long = directionStats(long)
	rec.Short = directionStats(short)
	return rec
}

func directionStats(trades []*domain.Trade) domain.DirectionStats {
	ds := domain.DirectionStats{
		Trades:  len(trades),
		AvgCost: DefaultAvgCost,
	}
	if len(trades) == 0 {
		return ds
	}

	entered := 0
	won := 0
	entrySum := 0.0
	for _, t := range trades {
		entrySum += t.EntryPrice
		if t.Status == domain.StatusInvalid {
			continue
		}
		entered++
		if t.Status == domain.StatusTargetHit {
			won++
		}
		if t.PnL != nil {
			ds.PnL += *t.PnL
		}
	}

	ds.EntryPct = round2(float64(entered) * 100 / float64(len(trades)))
	if entered > 0 {
		ds.PctSuccess = round2(float64(won) * 100 / float64(entered))
	}
	ds.AvgCost = entrySum / float64(len(trades))
	if ds.AvgCost == 0 {
		ds.AvgCost = DefaultAvgCost
	}
	ds.Pct = round2(ds.PnL * 100 / ds.AvgCost)
	return ds
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
