package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intraday-signal-lab/internal/domain"
	"intraday-signal-lab/internal/storage"
)

func bar(instrument string, ts int64, close float64) *domain.PriceBar {
	return &domain.PriceBar{
		Instrument: instrument,
		Timestamp:  ts,
		Open:       close - 1,
		High:       close + 1,
		Low:        close - 2,
		Close:      close,
	}
}

func TestBarStore_InsertAndGetTicks(t *testing.T) {
	ctx := context.Background()
	s := NewBarStore()

	err := s.InsertTicks(ctx, []*domain.PriceBar{
		bar("NSE_ACME", 300, 103),
		bar("NSE_ACME", 100, 101),
		bar("NSE_ACME", 200, 102),
		bar("NSE_OTHER", 100, 50),
	})
	require.NoError(t, err)

	got, err := s.GetTicks(ctx, "NSE_ACME", 100)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by timestamp ASC regardless of insert order.
	assert.Equal(t, int64(100), got[0].Timestamp)
	assert.Equal(t, int64(200), got[1].Timestamp)
	assert.Equal(t, int64(300), got[2].Timestamp)

	// From is inclusive and filters older bars.
	got, err = s.GetTicks(ctx, "NSE_ACME", 200)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(200), got[0].Timestamp)
}

func TestBarStore_DuplicateTick(t *testing.T) {
	ctx := context.Background()
	s := NewBarStore()

	require.NoError(t, s.InsertTicks(ctx, []*domain.PriceBar{bar("NSE_ACME", 100, 101)}))

	err := s.InsertTicks(ctx, []*domain.PriceBar{bar("NSE_ACME", 100, 105)})
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey))

	// Intra-batch duplicate fails the whole batch.
	err = s.InsertTicks(ctx, []*domain.PriceBar{
		bar("NSE_ACME", 200, 102),
		bar("NSE_ACME", 200, 103),
	})
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey))

	got, err := s.GetTicks(ctx, "NSE_ACME", 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestBarStore_DailySeparateFromTicks(t *testing.T) {
	ctx := context.Background()
	s := NewBarStore()

	require.NoError(t, s.InsertTicks(ctx, []*domain.PriceBar{bar("NSE_ACME", 100, 101)}))
	require.NoError(t, s.InsertDaily(ctx, []*domain.PriceBar{bar("NSE_ACME", 100, 99)}))

	daily, err := s.GetDaily(ctx, "NSE_ACME", 0)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, 99.0, daily[0].Close)
}

func TestBarStore_InvalidInput(t *testing.T) {
	ctx := context.Background()
	s := NewBarStore()

	err := s.InsertTicks(ctx, []*domain.PriceBar{{Instrument: "", Timestamp: 100}})
	assert.True(t, errors.Is(err, storage.ErrInvalidInput))
}

func TestBarStore_EmptyRange(t *testing.T) {
	ctx := context.Background()
	s := NewBarStore()

	got, err := s.GetTicks(ctx, "NSE_MISSING", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
