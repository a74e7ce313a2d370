package domain

// MtmRecord is the per-bar mark-to-market view of a day's signal. One record
// exists per aligned bar, independent of whether the day's trade is still
// open; it is keyed off the forward-filled signal, not the live trade.
type MtmRecord struct {
	Instrument string
	Strategy   string
	Date       string
	Timestamp  int64
	Direction  int // forward-filled signal direction, 0 when no signal yet
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Target     float64
	TargetMet  bool
	EntryPrice float64
	MTM        float64
	MTMPct     float64
}
