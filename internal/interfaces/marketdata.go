package interfaces

import (
	"context"

	"invest-sentinel/internal/types"
)

// MarketData supplies daily bars and a current price for a ticker.
type MarketData interface {
	// FetchSeries returns the last price and the ascending daily series.
	// An upstream with no data for the ticker is a terminal error for the
	// request (predict.ErrUpstreamUnavailable).
	FetchSeries(ctx context.Context, ticker string) (float64, types.PriceSeries, error)
}
