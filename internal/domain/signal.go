package domain

// Trade directions.
const (
	DirectionLong  = 1
	DirectionShort = -1
)

// Prediction is one raw strategy signal row: a directional recommendation
// with target and stop-loss, effective at Time. A backtest file carries one
// row per trading day; a live decision carries exactly one row.
type Prediction struct {
	Time      int64 // decision epoch (seconds)
	Direction int   // DirectionLong or DirectionShort
	Target    float64
	StopLoss  float64 // beginning-of-day stop-loss price
	TrailSL   float64 // trailing stop parameter (percent)
}

// LiveEntry is one executed entry from the signal log, used to derive a
// single-decision close-of-business evaluation.
type LiveEntry struct {
	Account          string
	LogDate          string // trading date YYYY-MM-DD
	Instrument       string
	Model            string // strategy identifier
	EntryTime        int64  // epoch seconds of the actual fill
	Direction        int
	Target           float64
	StopLoss         float64
	TrailSL          float64
	EntryOrderStatus string
}

// EntryOrderEntered marks a live entry whose entry order was filled.
const EntryOrderEntered = "ENTERED"
