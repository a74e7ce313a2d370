package storage

import (
	"context"

	"intraday-signal-lab/internal/domain"
)

// BarStore provides access to minute (tick) and daily bar storage.
// It is the price-data provider consumed by signal alignment.
type BarStore interface {
	// InsertTicks adds minute bars. Fails entire batch on duplicate
	// (instrument, timestamp).
	InsertTicks(ctx context.Context, bars []*domain.PriceBar) error

	// GetTicks retrieves minute bars for an instrument from the given epoch
	// (inclusive) onward, ordered by timestamp ASC.
	GetTicks(ctx context.Context, instrument string, from int64) ([]*domain.PriceBar, error)

	// InsertDaily adds daily bars. Fails entire batch on duplicate
	// (instrument, timestamp).
	InsertDaily(ctx context.Context, bars []*domain.PriceBar) error

	// GetDaily retrieves daily bars for an instrument from the given epoch
	// (inclusive) onward, ordered by timestamp ASC.
	GetDaily(ctx context.Context, instrument string, from int64) ([]*domain.PriceBar, error)
}

// SignalLogStore provides access to executed live entries logged by the
// trading process. The close-of-business run derives its work units from it.
type SignalLogStore interface {
	// Insert adds a new entry. Returns ErrDuplicateKey if
	// (account, log_date, instrument, model) exists.
	Insert(ctx context.Context, e *domain.LiveEntry) error

	// GetByDate retrieves all entries for an account and trading date,
	// ordered by instrument ASC, model ASC.
	GetByDate(ctx context.Context, account, logDate string) ([]*domain.LiveEntry, error)
}
