package domain

// AlignedRecord is one price bar joined with the day's effective signal and
// reference close. Signal is non-nil only on the decision bar; the fill
// fields are carried forward from the decision bar through the rest of the
// same calendar day and never across a day boundary.
type AlignedRecord struct {
	Instrument string
	Timestamp  int64
	Date       string // trading date YYYY-MM-DD in the aligner's timezone
	Open       float64
	High       float64
	Low        float64
	Close      float64
	EndOfDay   bool    // last bar of the calendar day
	DayClose   float64 // reference close (prior day under backtest mode)

	Signal *Prediction // set on the decision bar only

	// Forward-filled within the day once a signal appears.
	HasSignal  bool
	Valid      bool // target strictly beyond entry in the favorable direction
	Direction  int
	EntryPrice float64 // open of the decision bar
	Target     float64
	StopLoss   float64
	TrailSL    float64
}
