// Package simulate walks an aligned bar series and drives each day's trade
// through its lifecycle: open, stop-loss, target, trailing updates and the
// close-of-business exit.
package simulate

import (
	"math"

	"intraday-signal-lab/internal/domain"
	"intraday-signal-lab/internal/pricing"
)

// StopLossFunc recalculates an open trade's stop from a bar's extremes.
// Returning 0 leaves the stop unchanged.
type StopLossFunc func(t *domain.Trade, low, high float64) float64

// Options configures a Simulator.
type Options struct {
	// UpdateSL is the trailing stop-loss rule. Defaults to
	// pricing.TrailingStopLoss.
	UpdateSL StopLossFunc

	// TickSize is the instrument's minimum price increment. Defaults to
	// pricing.DefaultTickSize.
	TickSize float64

	// DefaultSLPct derives the initial stop from the entry price when a
	// signal carries no stop-loss price. Zero disables the fallback.
	DefaultSLPct float64
}

// Simulator replays aligned records into trades and mark-to-market rows.
type Simulator struct {
	updateSL     StopLossFunc
	tick         float64
	defaultSLPct float64
}

// New creates a Simulator.
func New(opts Options) *Simulator {
	s := &Simulator{
		updateSL:     opts.UpdateSL,
		tick:         opts.TickSize,
		defaultSLPct: opts.DefaultSLPct,
	}
	if s.updateSL == nil {
		s.updateSL = pricing.TrailingStopLoss
	}
	if s.tick <= 0 {
		s.tick = pricing.DefaultTickSize
	}
	return s
}

// Result is the output of one simulation unit.
type Result struct {
	Trades []*domain.Trade
	MTM    []*domain.MtmRecord
}

// Run simulates one (instrument, strategy) aligned series. At most one trade
// opens per trading day, on the day's decision bar. Records must be ordered
// by time.
func (s *Simulator) Run(instrument, strategy string, recs []*domain.AlignedRecord) *Result {
	res := &Result{}

	var trade *domain.Trade
	currDate := ""

	for _, rec := range recs {
		if rec.Date != currDate {
			currDate = rec.Date
			trade = nil
		}

		if trade == nil && rec.HasSignal {
			trade = s.openTrade(instrument, strategy, rec)
			res.Trades = append(res.Trades, trade)
		}

		if trade != nil && !closed(trade) {
			if trade.Status == domain.StatusOpen {
				s.stepOpen(trade, rec)
			}
			// Mark-to-market runs even for INVALID trades and on the bar
			// that closes the position.
			updateMaxMTM(trade, rec)
			if rec.EndOfDay && trade.Status == domain.StatusOpen {
				closeTrade(trade, domain.StatusCOBClose, rec.Close, rec.Timestamp)
			}
		}

		res.MTM = append(res.MTM, mtmRecord(instrument, strategy, rec))
	}

	return res
}

// openTrade creates the day's trade from the decision bar. A target that is
// not strictly beyond the entry yields an INVALID trade that never fills.
func (s *Simulator) openTrade(instrument, strategy string, rec *domain.AlignedRecord) *domain.Trade {
	t := &domain.Trade{
		Instrument: instrument,
		Strategy:   strategy,
		Date:       rec.Date,
		Direction:  rec.Direction,
		Target:     rec.Target,
		TrailSL:    rec.TrailSL,
		Tick:       s.tick,
		EntryPrice: rec.EntryPrice,
		EntryTime:  rec.Timestamp,
		Status:     domain.StatusInvalid,
	}

	if rec.Valid {
		t.Status = domain.StatusOpen
		t.BodSL = pricing.RoundToTick(rec.StopLoss, s.tick)
		if rec.StopLoss <= 0 && s.defaultSLPct > 0 {
			t.BodSL = pricing.InitialStopLoss(t.EntryPrice, t.Direction, s.defaultSLPct, s.tick)
		}
		t.SL = t.BodSL
		t.SLRange = math.Abs(t.EntryPrice - t.BodSL)
		t.Strength = t.ComputeStrength()
	}

	return t
}

// stepOpen applies one bar to an OPEN trade: stop-loss first, then target,
// then the trailing update. The stop wins when both trip on the same bar.
func (s *Simulator) stepOpen(t *domain.Trade, rec *domain.AlignedRecord) {
	if stopHit(t, rec.Low, rec.High) {
		closeTrade(t, domain.StatusSLHit, t.SL, rec.Timestamp)
		return
	}

	if targetHit(t.Direction, t.Target, rec.Low, rec.High) {
		closeTrade(t, domain.StatusTargetHit, t.Target, rec.Timestamp)
		return
	}

	if newSL := s.updateSL(t, rec.Low, rec.High); newSL != 0 {
		t.SL = newSL
		t.SLUpdateCount++
	}
}

func stopHit(t *domain.Trade, low, high float64) bool {
	if t.Direction == domain.DirectionLong {
		return low <= t.SL
	}
	return high >= t.SL
}

func targetHit(direction int, target, low, high float64) bool {
	if direction == domain.DirectionLong {
		return high >= target
	}
	return low <= target
}

func closeTrade(t *domain.Trade, status domain.Status, exitPrice float64, exitTime int64) {
	pnl := round2(t.ComputePnL(exitPrice))
	t.Status = status
	t.ExitPrice = &exitPrice
	t.ExitTime = &exitTime
	t.PnL = &pnl
}

// closed reports whether the trade has exited the market. INVALID trades
// never entered but still accrue mark-to-market.
func closed(t *domain.Trade) bool {
	return t.Status.Terminal() && t.Status != domain.StatusInvalid
}

// updateMaxMTM tracks the trade's best favorable excursion so far.
func updateMaxMTM(t *domain.Trade, rec *domain.AlignedRecord) {
	if t.EntryPrice == 0 {
		return
	}

	mtm := favorableMove(t.Direction, t.EntryPrice, rec.Low, rec.High)
	if mtm > t.MaxMTM {
		t.MaxMTM = round2(mtm)
		t.MaxMTMPct = round2(mtm * 100 / t.EntryPrice)
	}
}

// mtmRecord builds the per-bar mark-to-market row off the forward-filled
// signal fields, independent of the trade's state.
func mtmRecord(instrument, strategy string, rec *domain.AlignedRecord) *domain.MtmRecord {
	m := &domain.MtmRecord{
		Instrument: instrument,
		Strategy:   strategy,
		Date:       rec.Date,
		Timestamp:  rec.Timestamp,
		Open:       rec.Open,
		High:       rec.High,
		Low:        rec.Low,
		Close:      rec.Close,
	}

	if !rec.HasSignal {
		return m
	}

	m.Direction = rec.Direction
	m.Target = rec.Target
	m.EntryPrice = rec.EntryPrice
	m.TargetMet = targetHit(rec.Direction, rec.Target, rec.Low, rec.High)

	if rec.EntryPrice != 0 {
		mtm := favorableMove(rec.Direction, rec.EntryPrice, rec.Low, rec.High)
		m.MTM = round2(mtm)
		m.MTMPct = round2(mtm * 100 / rec.EntryPrice)
	}

	return m
}

func favorableMove(direction int, entry, low, high float64) float64 {
	if direction == domain.DirectionLong {
		return high - entry
	}
	return entry - low
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
