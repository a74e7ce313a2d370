// Package reporting turns simulation output into CSV tables and a Markdown
// run summary.
package reporting

import (
	"time"

	"intraday-signal-lab/internal/domain"
)

// Generator builds run reports.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate summarizes one run's merged trades and statistics.
func (g *Generator) Generate(trades []*domain.Trade, stats []*domain.StatsRecord) *Report {
	r := &Report{
		GeneratedAt: g.now(),
		UnitCount:   len(stats),
		TradeCount:  len(trades),
		StatusCount: make(map[string]int),
	}

	for _, t := range trades {
		r.StatusCount[string(t.Status)]++
		if t.PnL != nil {
			r.TotalPnL += *t.PnL
		}
		// Trades arrive sorted by date; keep the range cheap to derive anyway.
		if r.DateStart == "" || t.Date < r.DateStart {
			r.DateStart = t.Date
		}
		if t.Date > r.DateEnd {
			r.DateEnd = t.Date
		}
	}

	for _, s := range stats {
		r.Stats = append(r.Stats, statsRow(s))
	}

	return r
}

func statsRow(s *domain.StatsRecord) StatsRow {
	return StatsRow{
		Instrument: s.Instrument,
		Strategy:   s.Strategy,
		Trades:     s.Trades,
		EntryPct:   s.EntryPct,

		LongTrades:     s.Long.Trades,
		LongEntryPct:   s.Long.EntryPct,
		LongPctSuccess: s.Long.PctSuccess,
		LongAvgCost:    s.Long.AvgCost,
		LongPnL:        s.Long.PnL,
		LongPct:        s.Long.Pct,

		ShortTrades:     s.Short.Trades,
		ShortEntryPct:   s.Short.EntryPct,
		ShortPctSuccess: s.Short.PctSuccess,
		ShortAvgCost:    s.Short.AvgCost,
		ShortPnL:        s.Short.PnL,
		ShortPct:        s.Short.Pct,
	}
}
