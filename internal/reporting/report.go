package reporting

import "time"

// Report summarizes one simulation run.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	UnitCount   int

	// Trade summary
	TradeCount  int
	StatusCount map[string]int
	TotalPnL    float64

	// Date range covered by the trades (trading dates, inclusive)
	DateStart string
	DateEnd   string

	// Per-pair statistics (runner submission order)
	Stats []StatsRow
}

// StatsRow is one instrument/strategy line of the statistics table.
type StatsRow struct {
	Instrument string
	Strategy   string
	Trades     int
	EntryPct   float64

	LongTrades     int
	LongEntryPct   float64
	LongPctSuccess float64
	LongAvgCost    float64
	LongPnL        float64
	LongPct        float64

	ShortTrades     int
	ShortEntryPct   float64
	ShortPctSuccess float64
	ShortAvgCost    float64
	ShortPnL        float64
	ShortPct        float64
}
