package domain

// PriceBar is one fixed-interval OHLC observation for an instrument.
// Minute bars and daily bars share the same shape; daily bars are only
// consumed for their Close.
type PriceBar struct {
	Instrument string
	Timestamp  int64 // epoch seconds
	Open       float64
	High       float64
	Low        float64
	Close      float64
}
