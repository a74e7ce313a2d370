package domain

// DirectionStats summarizes one direction's trades for a pair.
type DirectionStats struct {
	Trades     int
	EntryPct   float64 // valid entries as % of direction trades
	PctSuccess float64 // target hits as % of valid entries
	AvgCost    float64 // mean entry price (DefaultAvgCost when empty)
	PnL        float64
	Pct        float64 // PnL as % of AvgCost
}

// StatsRecord summarizes all trades for one (instrument, strategy) pair.
type StatsRecord struct {
	Instrument string
	Strategy   string
	Trades     int
	EntryPct   float64 // overall valid entries as % of total trades
	Long       DirectionStats
	Short      DirectionStats
}
