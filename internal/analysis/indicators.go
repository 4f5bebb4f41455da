package analysis

import (
	"context"
	"math"
	"time"

	talib "github.com/markcheno/go-talib"

	"herald/internal/domain/news"
	"herald/pkg/errors"
)

const (
	rsiPeriod      = 14
	macdFast       = 12
	macdSlow       = 26
	macdSignal     = 9
	defaultWindow  = 24
	klineInterval  = "1h"
)

// CandleSource provides a trailing closing-price series for a symbol,
// oldest first.
type CandleSource interface {
	ClosingPrices(ctx context.Context, symbol string, interval string, limit int) ([]news.ClosePrice, error)
}

// IndicatorProvider computes RSI(14) and MACD(12,26,9) over a trailing
// hourly close window. Every request recomputes from fresh data; nothing
// is cached across calls.
type IndicatorProvider struct {
	candles CandleSource
	window  int
}

// NewIndicatorProvider creates a provider with the given window in hours.
func NewIndicatorProvider(candles CandleSource, windowHours int) *IndicatorProvider {
	if windowHours <= 0 {
		windowHours = defaultWindow
	}
	return &IndicatorProvider{candles: candles, window: windowHours}
}

// Snapshot fetches the close window and derives indicators. It fails with
// ErrDataUnavailable when the upstream returns no rows. An indicator whose
// minimum period exceeds the window is NaN, not an error.
func (p *IndicatorProvider) Snapshot(ctx context.Context, symbol string) (*news.IndicatorSnapshot, error) {
	closes, err := p.candles.ClosingPrices(ctx, symbol, klineInterval, p.window)
	if err != nil {
		return nil, err
	}
	if len(closes) == 0 {
		return nil, errors.Wrapf(errors.ErrDataUnavailable, "no close prices for %s", symbol)
	}

	series := make([]float64, len(closes))
	for i, c := range closes {
		series[i] = c.Close
	}

	rsi := math.NaN()
	if len(series) > rsiPeriod {
		values := talib.Rsi(series, rsiPeriod)
		rsi = values[len(values)-1]
	}

	macd := math.NaN()
	if len(series) >= macdSlow+macdSignal {
		macdLine, _, _ := talib.Macd(series, macdFast, macdSlow, macdSignal)
		macd = macdLine[len(macdLine)-1]
	}

	return &news.IndicatorSnapshot{
		Symbol: symbol,
		AsOf:   time.Now(),
		Closes: closes,
		RSI:    rsi,
		MACD:   macd,
	}, nil
}
