package domain

// Status is the lifecycle state of a simulated trade. All statuses except
// OPEN are terminal; a terminal trade is never mutated again.
type Status string

// Trade statuses.
const (
	StatusOpen      Status = "OPEN"
	StatusInvalid   Status = "INVALID"
	StatusSLHit     Status = "SL-HIT"
	StatusTargetHit Status = "TARGET-HIT"
	StatusCOBClose  Status = "COB-CLOSE"
)

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s != StatusOpen
}

// Trade is one simulated intraday position for an (instrument, strategy,
// date). Created on the first bar of a day carrying a signal, mutated
// bar-by-bar by the simulator, immutable once Status is terminal.
type Trade struct {
	Instrument string
	Strategy   string
	Date       string
	Direction  int
	Target     float64
	BodSL      float64 // stop-loss at the beginning of the day
	SL         float64 // current stop-loss (trails favorably)
	SLRange    float64 // abs distance from entry to BodSL
	TrailSL    float64 // trailing stop parameter (percent)
	Tick       float64
	EntryPrice float64
	EntryTime  int64
	Status     Status

	ExitPrice *float64
	ExitTime  *int64
	PnL       *float64

	SLUpdateCount int
	MaxMTM        float64
	MaxMTMPct     float64
	Strength      float64 // favorable distance from entry to target
}

// ComputePnL returns realized P&L for an exit at price.
func (t *Trade) ComputePnL(exitPrice float64) float64 {
	if t.Direction == DirectionLong {
		return exitPrice - t.EntryPrice
	}
	return t.EntryPrice - exitPrice
}

// ComputeStrength returns the favorable distance from entry to target.
func (t *Trade) ComputeStrength() float64 {
	if t.Direction == DirectionLong {
		return t.Target - t.EntryPrice
	}
	return t.EntryPrice - t.Target
}
