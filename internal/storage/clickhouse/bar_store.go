package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"intraday-signal-lab/internal/domain"
	"intraday-signal-lab/internal/storage"
)

// BarStore implements storage.BarStore using ClickHouse. Bars land in
// ReplacingMergeTree tables keyed by (instrument, timestamp), so re-ingesting
// the same range is idempotent rather than an error.
type BarStore struct {
	conn *Conn
}

// NewBarStore creates a new BarStore.
func NewBarStore(conn *Conn) *BarStore {
	return &BarStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BarStore = (*BarStore)(nil)

// InsertTicks adds minute bars.
func (s *BarStore) InsertTicks(ctx context.Context, bars []*domain.PriceBar) error {
	return s.insert(ctx, "tick_bars", bars)
}

// GetTicks retrieves minute bars from the given epoch onward, ordered by timestamp ASC.
func (s *BarStore) GetTicks(ctx context.Context, instrument string, from int64) ([]*domain.PriceBar, error) {
	return s.query(ctx, "tick_bars", instrument, from)
}

// InsertDaily adds daily bars.
func (s *BarStore) InsertDaily(ctx context.Context, bars []*domain.PriceBar) error {
	return s.insert(ctx, "daily_bars", bars)
}

// GetDaily retrieves daily bars from the given epoch onward, ordered by timestamp ASC.
func (s *BarStore) GetDaily(ctx context.Context, instrument string, from int64) ([]*domain.PriceBar, error) {
	return s.query(ctx, "daily_bars", instrument, from)
}

func (s *BarStore) insert(ctx context.Context, table string, bars []*domain.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	for _, b := range bars {
		if b == nil || b.Instrument == "" || b.Timestamp == 0 {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, fmt.Sprintf(`
		INSERT INTO %s (
			instrument, timestamp, open, high, low, close
		)
	`, table))
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(
			b.Instrument, uint64(b.Timestamp),
			b.Open, b.High, b.Low, b.Close,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

func (s *BarStore) query(ctx context.Context, table, instrument string, from int64) ([]*domain.PriceBar, error) {
	query := fmt.Sprintf(`
		SELECT instrument, timestamp, open, high, low, close
		FROM %s FINAL
		WHERE instrument = ? AND timestamp >= ?
		ORDER BY timestamp ASC
	`, table)

	rows, err := s.conn.Query(ctx, query, instrument, uint64(from))
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// scanBars scans multiple rows.
func scanBars(rows driver.Rows) ([]*domain.PriceBar, error) {
	var bars []*domain.PriceBar

	for rows.Next() {
		var b domain.PriceBar
		var timestamp uint64

		err := rows.Scan(
			&b.Instrument, &timestamp,
			&b.Open, &b.High, &b.Low, &b.Close,
		)
		if err != nil {
			return nil, fmt.Errorf("scan bar row: %w", err)
		}

		b.Timestamp = int64(timestamp)
		bars = append(bars, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bar rows: %w", err)
	}

	return bars, nil
}
