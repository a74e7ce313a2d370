// Package pricing holds exchange price arithmetic: tick rounding, session
// epochs and the stop-loss recalculation used by the trade simulator.
package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"intraday-signal-lab/internal/domain"
)

// DefaultTickSize is the minimum price increment assumed when a work unit
// does not carry one.
const DefaultTickSize = 0.05

// sessionOpen is the exchange session opening time within a trading day.
const sessionOpen = "09:15:00"

// RoundToTick rounds price to the nearest multiple of tick. Exchange prices
// only exist on the tick grid, so every derived stop-loss passes through here.
func RoundToTick(price, tick float64) float64 {
	if tick <= 0 {
		return price
	}

	p := decimal.NewFromFloat(price)
	t := decimal.NewFromFloat(tick)
	steps := p.Div(t).Round(0)
	rounded, _ := steps.Mul(t).Round(2).Float64()
	return rounded
}

// InitialStopLoss computes the beginning-of-day stop-loss: slPct percent away
// from entry against the trade direction, rounded to the tick grid.
func InitialStopLoss(entry float64, direction int, slPct, tick float64) float64 {
	sl := entry - float64(direction)*entry*slPct/100
	return RoundToTick(sl, tick)
}

// SessionOpenEpoch returns the epoch of the session-open bar (09:15) for a
// trading date (YYYY-MM-DD) in the given timezone.
func SessionOpenEpoch(date string, loc *time.Location) (int64, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", date+" "+sessionOpen, loc)
	if err != nil {
		return 0, fmt.Errorf("parse trading date %q: %w", date, err)
	}
	return t.Unix(), nil
}

// TrailingStopLoss recalculates an open trade's stop-loss from the bar's
// favorable extreme. Returns the new stop-loss price, or 0 when the price has
// not moved far enough from the current stop to re-anchor it.
//
// The band is slPct + trailPct of the last traded price: the stop only moves
// once the favorable extreme has pulled more than the full band away from it,
// and it re-anchors slPct below (long) or above (short) that extreme.
func TrailingStopLoss(t *domain.Trade, low, high float64) float64 {
	if t.EntryPrice == 0 {
		return 0
	}

	ltp := high
	if t.Direction == domain.DirectionShort {
		ltp = low
	}

	slPct := math.Abs(t.EntryPrice-t.BodSL) * 100 / t.EntryPrice
	trailPct := t.TrailSL

	if math.Abs(ltp-t.SL) <= ltp*(slPct+trailPct)/100 {
		return 0
	}

	newSL := ltp - float64(t.Direction)*ltp*slPct/100
	return RoundToTick(newSL, t.Tick)
}
