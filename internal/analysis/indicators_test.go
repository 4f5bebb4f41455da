package analysis

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"herald/internal/domain/news"
	"herald/pkg/errors"
)

type stubCandleSource struct {
	closes []news.ClosePrice
	err    error

	gotSymbol   string
	gotInterval string
	gotLimit    int
}

func (s *stubCandleSource) ClosingPrices(ctx context.Context, symbol, interval string, limit int) ([]news.ClosePrice, error) {
	s.gotSymbol = symbol
	s.gotInterval = interval
	s.gotLimit = limit
	return s.closes, s.err
}

func closeSeries(n int) []news.ClosePrice {
	now := time.Now()
	out := make([]news.ClosePrice, n)
	for i := range out {
		// Gentle oscillation so RSI is well defined
		out[i] = news.ClosePrice{
			Time:  now.Add(time.Duration(i-n) * time.Hour),
			Close: 100 + float64(i%7) - float64(i%3),
		}
	}
	return out
}

func TestIndicatorProvider_RequestShape(t *testing.T) {
	src := &stubCandleSource{closes: closeSeries(24)}
	provider := NewIndicatorProvider(src, 24)

	_, err := provider.Snapshot(context.Background(), "BTCUSDT")
	require.NoError(t, err)

	assert.Equal(t, "BTCUSDT", src.gotSymbol)
	assert.Equal(t, "1h", src.gotInterval)
	assert.Equal(t, 24, src.gotLimit)
}

func TestIndicatorProvider_NoData(t *testing.T) {
	src := &stubCandleSource{}
	provider := NewIndicatorProvider(src, 24)

	_, err := provider.Snapshot(context.Background(), "BTCUSDT")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDataUnavailable))
}

func TestIndicatorProvider_SourceErrorPropagates(t *testing.T) {
	src := &stubCandleSource{err: errors.ErrFetchFailed}
	provider := NewIndicatorProvider(src, 24)

	_, err := provider.Snapshot(context.Background(), "BTCUSDT")
	assert.True(t, errors.Is(err, errors.ErrFetchFailed))
}

func TestIndicatorProvider_TwentyFourHourWindow(t *testing.T) {
	// 24 hourly closes: enough for RSI(14), short of MACD's 35-sample
	// minimum, so MACD stays NaN.
	src := &stubCandleSource{closes: closeSeries(24)}
	provider := NewIndicatorProvider(src, 24)

	snap, err := provider.Snapshot(context.Background(), "ETHUSDT")
	require.NoError(t, err)

	assert.False(t, math.IsNaN(snap.RSI))
	assert.True(t, snap.RSI >= 0 && snap.RSI <= 100)
	assert.True(t, math.IsNaN(snap.MACD))
	assert.Len(t, snap.Closes, 24)
}

func TestIndicatorProvider_ShortWindowAllNaN(t *testing.T) {
	src := &stubCandleSource{closes: closeSeries(10)}
	provider := NewIndicatorProvider(src, 10)

	snap, err := provider.Snapshot(context.Background(), "BTCUSDT")
	require.NoError(t, err)

	assert.True(t, math.IsNaN(snap.RSI), "10 samples are not enough for RSI(14)")
	assert.True(t, math.IsNaN(snap.MACD))
}

func TestIndicatorProvider_LongWindowHasMACD(t *testing.T) {
	src := &stubCandleSource{closes: closeSeries(48)}
	provider := NewIndicatorProvider(src, 48)

	snap, err := provider.Snapshot(context.Background(), "BTCUSDT")
	require.NoError(t, err)

	assert.False(t, math.IsNaN(snap.RSI))
	assert.False(t, math.IsNaN(snap.MACD))
}
