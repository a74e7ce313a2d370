package memory

import (
	"context"
	"sort"
	"sync"

	"intraday-signal-lab/internal/domain"
	"intraday-signal-lab/internal/storage"
)

// SignalLogStore is an in-memory implementation of storage.SignalLogStore.
type SignalLogStore struct {
	mu   sync.RWMutex
	data map[entryKey]*domain.LiveEntry
}

type entryKey struct {
	account    string
	logDate    string
	instrument string
	model      string
}

// NewSignalLogStore creates a new in-memory signal log store.
func NewSignalLogStore() *SignalLogStore {
	return &SignalLogStore{
		data: make(map[entryKey]*domain.LiveEntry),
	}
}

// Insert adds a new entry. Returns ErrDuplicateKey if the composite key exists.
func (s *SignalLogStore) Insert(_ context.Context, e *domain.LiveEntry) error {
	if e == nil || e.Instrument == "" || e.Model == "" || e.LogDate == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := entryKey{e.Account, e.LogDate, e.Instrument, e.Model}
	if _, exists := s.data[k]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *e
	s.data[k] = &copy
	return nil
}

// GetByDate retrieves all entries for an account and trading date,
// ordered by instrument ASC, model ASC.
func (s *SignalLogStore) GetByDate(_ context.Context, account, logDate string) ([]*domain.LiveEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LiveEntry
	for _, e := range s.data {
		if e.Account == account && e.LogDate == logDate {
			copy := *e
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Instrument != result[j].Instrument {
			return result[i].Instrument < result[j].Instrument
		}
		return result[i].Model < result[j].Model
	})

	return result, nil
}

var _ storage.SignalLogStore = (*SignalLogStore)(nil)
