package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"intraday-signal-lab/internal/domain"
	"intraday-signal-lab/internal/storage"
)

// SignalLogStore implements storage.SignalLogStore using PostgreSQL.
type SignalLogStore struct {
	pool *Pool
}

// NewSignalLogStore creates a new SignalLogStore.
func NewSignalLogStore(pool *Pool) *SignalLogStore {
	return &SignalLogStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SignalLogStore = (*SignalLogStore)(nil)

// Insert adds a new entry. Returns ErrDuplicateKey if the composite key exists.
func (s *SignalLogStore) Insert(ctx context.Context, e *domain.LiveEntry) error {
	if e == nil || e.Instrument == "" || e.Model == "" || e.LogDate == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO signal_log_entries (
			account, log_date, instrument, model,
			entry_time, direction, target, stop_loss, trail_sl,
			entry_order_status
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10
		)
	`

	_, err := s.pool.Exec(ctx, query,
		e.Account, e.LogDate, e.Instrument, e.Model,
		e.EntryTime, e.Direction, e.Target, e.StopLoss, e.TrailSL,
		e.EntryOrderStatus,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert signal log entry: %w", err)
	}
	return nil
}

// GetByDate retrieves all entries for an account and trading date,
// ordered by instrument ASC, model ASC.
func (s *SignalLogStore) GetByDate(ctx context.Context, account, logDate string) ([]*domain.LiveEntry, error) {
	query := `
		SELECT
			account, log_date, instrument, model,
			entry_time, direction, target, stop_loss, trail_sl,
			entry_order_status
		FROM signal_log_entries
		WHERE account = $1 AND log_date = $2
		ORDER BY instrument ASC, model ASC
	`

	rows, err := s.pool.Query(ctx, query, account, logDate)
	if err != nil {
		return nil, fmt.Errorf("get signal log entries by date: %w", err)
	}
	defer rows.Close()

	return scanLiveEntries(rows)
}

// scanLiveEntries scans multiple rows into a slice of LiveEntry.
func scanLiveEntries(rows pgx.Rows) ([]*domain.LiveEntry, error) {
	var entries []*domain.LiveEntry

	for rows.Next() {
		var e domain.LiveEntry

		err := rows.Scan(
			&e.Account, &e.LogDate, &e.Instrument, &e.Model,
			&e.EntryTime, &e.Direction, &e.Target, &e.StopLoss, &e.TrailSL,
			&e.EntryOrderStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("scan signal log row: %w", err)
		}

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signal log rows: %w", err)
	}

	return entries, nil
}
