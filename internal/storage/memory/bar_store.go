package memory

import (
	"context"
	"sort"
	"sync"

	"intraday-signal-lab/internal/domain"
	"intraday-signal-lab/internal/storage"
)

// BarStore is an in-memory implementation of storage.BarStore.
type BarStore struct {
	mu    sync.RWMutex
	ticks map[barKey]*domain.PriceBar
	daily map[barKey]*domain.PriceBar
}

type barKey struct {
	instrument string
	timestamp  int64
}

// NewBarStore creates a new in-memory bar store.
func NewBarStore() *BarStore {
	return &BarStore{
		ticks: make(map[barKey]*domain.PriceBar),
		daily: make(map[barKey]*domain.PriceBar),
	}
}

// InsertTicks adds minute bars. Fails entire batch on duplicate (instrument, timestamp).
func (s *BarStore) InsertTicks(_ context.Context, bars []*domain.PriceBar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertBars(s.ticks, bars)
}

// GetTicks retrieves minute bars from the given epoch onward, ordered by timestamp ASC.
func (s *BarStore) GetTicks(_ context.Context, instrument string, from int64) ([]*domain.PriceBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getBars(s.ticks, instrument, from), nil
}

// InsertDaily adds daily bars. Fails entire batch on duplicate (instrument, timestamp).
func (s *BarStore) InsertDaily(_ context.Context, bars []*domain.PriceBar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertBars(s.daily, bars)
}

// GetDaily retrieves daily bars from the given epoch onward, ordered by timestamp ASC.
func (s *BarStore) GetDaily(_ context.Context, instrument string, from int64) ([]*domain.PriceBar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getBars(s.daily, instrument, from), nil
}

func insertBars(data map[barKey]*domain.PriceBar, bars []*domain.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}

	// First pass: validate and check duplicates (existing + intra-batch).
	batchKeys := make(map[barKey]struct{}, len(bars))
	for _, b := range bars {
		if b == nil || b.Instrument == "" || b.Timestamp == 0 {
			return storage.ErrInvalidInput
		}
		k := barKey{b.Instrument, b.Timestamp}
		if _, exists := data[k]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[k]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[k] = struct{}{}
	}

	// Second pass: insert all.
	for _, b := range bars {
		copy := *b
		data[barKey{b.Instrument, b.Timestamp}] = &copy
	}
	return nil
}

func getBars(data map[barKey]*domain.PriceBar, instrument string, from int64) []*domain.PriceBar {
	var result []*domain.PriceBar
	for _, b := range data {
		if b.Instrument == instrument && b.Timestamp >= from {
			copy := *b
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})

	return result
}

var _ storage.BarStore = (*BarStore)(nil)
