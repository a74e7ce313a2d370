// Package align merges a strategy's raw predictions with intraday price bars
// into the per-bar series the trade simulator consumes.
package align

import (
	"context"
	"fmt"
	"time"

	"intraday-signal-lab/internal/domain"
	"intraday-signal-lab/internal/storage"
)

// Mode selects how decision timestamps and reference closes are resolved.
type Mode string

// Alignment modes.
const (
	// ModeBacktest treats the prediction table as a backtest series: each
	// decision is evaluated on the next row's bar and the reference close is
	// the prior trading day's daily close.
	ModeBacktest Mode = "BACKTEST"

	// ModeSameDay treats the prediction table as a single live decision: the
	// reference close is the day's own final bar close, stamped at the day's
	// first bar.
	ModeSameDay Mode = "SAME-DAY"
)

const dateLayout = "2006-01-02"

// Aligner joins predictions against price bars for one instrument at a time.
type Aligner struct {
	bars storage.BarStore
	mode Mode
	loc  *time.Location
}

// New creates an Aligner. A nil location defaults to UTC.
func New(bars storage.BarStore, mode Mode, loc *time.Location) *Aligner {
	if loc == nil {
		loc = time.UTC
	}
	return &Aligner{bars: bars, mode: mode, loc: loc}
}

// fillState carries a day's signal fields from the decision bar through the
// rest of that calendar day.
type fillState struct {
	valid      bool
	direction  int
	entryPrice float64
	target     float64
	stopLoss   float64
	trailSL    float64
}

// Align produces the aligned series for one (instrument, strategy) unit,
// ordered by time. Predictions must be in chronological order. An empty bar
// range yields an empty series and no error; the caller treats that as a
// zero-trade result.
func (a *Aligner) Align(ctx context.Context, instrument string, preds []domain.Prediction) ([]*domain.AlignedRecord, error) {
	effective := shiftDecisions(preds)
	if len(effective) == 0 {
		return nil, nil
	}

	from, err := a.earliestDecisionEpoch(effective)
	if err != nil {
		return nil, err
	}

	ticks, err := a.bars.GetTicks(ctx, instrument, from)
	if err != nil {
		return nil, fmt.Errorf("get tick data for %s: %w", instrument, err)
	}
	if len(ticks) == 0 {
		return nil, nil
	}

	predByTime := make(map[int64]domain.Prediction, len(effective))
	for _, p := range effective {
		predByTime[p.Time] = p
	}

	// Last bar index per calendar date marks end of day.
	lastIdx := make(map[string]int, 8)
	for i, b := range ticks {
		lastIdx[a.dateOf(b.Timestamp)] = i
	}

	dayClose, err := a.referenceCloses(ctx, instrument, from, ticks, lastIdx)
	if err != nil {
		return nil, err
	}

	recs := make([]*domain.AlignedRecord, 0, len(ticks))
	var fill *fillState
	currDate := ""

	for i, b := range ticks {
		date := a.dateOf(b.Timestamp)
		if date != currDate {
			// Fill never crosses a day boundary.
			currDate = date
			fill = nil
		}

		rec := &domain.AlignedRecord{
			Instrument: instrument,
			Timestamp:  b.Timestamp,
			Date:       date,
			Open:       b.Open,
			High:       b.High,
			Low:        b.Low,
			Close:      b.Close,
			EndOfDay:   lastIdx[date] == i,
			DayClose:   dayClose[date],
		}

		if p, ok := predByTime[b.Timestamp]; ok {
			pc := p
			rec.Signal = &pc
			fill = &fillState{
				valid:      entryValid(p.Direction, p.Target, b.Open),
				direction:  p.Direction,
				entryPrice: b.Open,
				target:     p.Target,
				stopLoss:   p.StopLoss,
				trailSL:    p.TrailSL,
			}
		}

		if fill != nil {
			rec.HasSignal = true
			rec.Valid = fill.valid
			rec.Direction = fill.direction
			rec.EntryPrice = fill.entryPrice
			rec.Target = fill.target
			rec.StopLoss = fill.stopLoss
			rec.TrailSL = fill.trailSL
		}

		recs = append(recs, rec)
	}

	if a.mode == ModeBacktest && len(recs) > 0 {
		// The very first bar has no usable prior-day reference.
		recs = recs[1:]
	}

	return recs, nil
}

// shiftDecisions maps raw prediction rows to their effective decision bars.
// A multi-row table is a backtest series: the decision taken at row N is
// evaluated on row N+1's bar, and the last row (no successor) is dropped.
// A single row is a live decision used as-is.
func shiftDecisions(preds []domain.Prediction) []domain.Prediction {
	if len(preds) <= 1 {
		return dropUnresolvable(preds)
	}

	shifted := make([]domain.Prediction, 0, len(preds)-1)
	for i := 0; i < len(preds)-1; i++ {
		p := preds[i]
		p.Time = preds[i+1].Time
		shifted = append(shifted, p)
	}
	return dropUnresolvable(shifted)
}

// dropUnresolvable removes rows whose decision time cannot resolve to a
// calendar date.
func dropUnresolvable(preds []domain.Prediction) []domain.Prediction {
	kept := preds[:0:0]
	for _, p := range preds {
		if p.Time > 0 {
			kept = append(kept, p)
		}
	}
	return kept
}

// entryValid reports whether the target is strictly beyond the entry price in
// the favorable direction.
func entryValid(direction int, target, open float64) bool {
	if direction == domain.DirectionLong {
		return target > open
	}
	return target < open
}

// earliestDecisionEpoch returns the start-of-day epoch of the earliest
// decision date.
func (a *Aligner) earliestDecisionEpoch(preds []domain.Prediction) (int64, error) {
	minDate := ""
	for _, p := range preds {
		d := a.dateOf(p.Time)
		if minDate == "" || d < minDate {
			minDate = d
		}
	}

	t, err := time.ParseInLocation(dateLayout, minDate, a.loc)
	if err != nil {
		return 0, fmt.Errorf("resolve start date %q: %w", minDate, err)
	}
	return t.Unix(), nil
}

// referenceCloses returns the reference close per calendar date: the prior
// trading day's daily close under backtest mode, or the day's own final bar
// close under same-day mode.
func (a *Aligner) referenceCloses(ctx context.Context, instrument string, from int64, ticks []*domain.PriceBar, lastIdx map[string]int) (map[string]float64, error) {
	closes := make(map[string]float64, len(lastIdx))

	if a.mode == ModeSameDay {
		for date, i := range lastIdx {
			closes[date] = ticks[i].Close
		}
		return closes, nil
	}

	daily, err := a.bars.GetDaily(ctx, instrument, from)
	if err != nil {
		return nil, fmt.Errorf("get base data for %s: %w", instrument, err)
	}

	for date := range lastIdx {
		// Latest daily close strictly before this date. Daily bars arrive
		// ordered by timestamp ASC; the first retrieved day has none.
		for _, d := range daily {
			if a.dateOf(d.Timestamp) < date {
				closes[date] = d.Close
			} else {
				break
			}
		}
	}
	return closes, nil
}

// dateOf resolves an epoch to its trading-day calendar date.
func (a *Aligner) dateOf(ts int64) string {
	return time.Unix(ts, 0).In(a.loc).Format(dateLayout)
}
